// Package sales drives the sales history view.
package sales

import "time"

// Sale is the server entity.
type Sale struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	BranchID     int64     `json:"branch_id"`
	CashierName  string    `json:"cashier_name,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	ItemCount    int       `json:"item_count"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// EntityID implements listview.Entity.
func (s Sale) EntityID() int64 { return s.ID }

// Line is a single sale line on the detail view.
type Line struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// Detail is the full sale record.
type Detail struct {
	Sale
	Lines []Line `json:"lines"`
}
