// Package inventory drives the product catalog and stock views.
package inventory

import "time"

// Product is the server entity.
type Product struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// EntityID implements listview.Entity.
func (p Product) EntityID() int64 { return p.ID }

// Summary aggregates the catalog. Served from cache until a stock
// mutation marks it stale.
type Summary struct {
	TotalProducts int     `json:"total_products"`
	TotalStock    int     `json:"total_stock"`
	LowStockCount int     `json:"low_stock_count"`
	TotalValue    float64 `json:"total_value"`
}

// Valuation breaks inventory value down by category. Derived is set when
// the backend has no valuation endpoint and the figure was computed from
// the summary instead.
type Valuation struct {
	TotalValue float64            `json:"total_value"`
	ByCategory map[string]float64 `json:"by_category,omitempty"`
	Derived    bool               `json:"derived"`
}

// Movement is one stock ledger entry.
type Movement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// MovementLog wraps the ledger for a product. Derived is set when the
// backend has no movements endpoint and an empty log was substituted.
type MovementLog struct {
	Items   []Movement `json:"items"`
	Derived bool       `json:"derived"`
}
