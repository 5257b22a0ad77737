package inventory

// CreateRequest adds a product to the catalog.
type CreateRequest struct {
	SKU      string  `json:"sku" validate:"required,min=2,max=64"`
	Name     string  `json:"name" validate:"required,min=2,max=160"`
	Category string  `json:"category" validate:"omitempty,max=80"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Stock    int     `json:"stock" validate:"omitempty,min=0"`
	MinStock int     `json:"min_stock" validate:"omitempty,min=0"`
}

// UpdateRequest patches a product. Nil fields are left untouched.
type UpdateRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=2,max=160"`
	Category *string  `json:"category" validate:"omitempty,max=80"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	MinStock *int     `json:"min_stock" validate:"omitempty,min=0"`
	Status   *string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// AdjustRequest shifts stock by a signed delta with an audit reason.
type AdjustRequest struct {
	Delta  int    `json:"delta" validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,min=3,max=240"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type filterRequest struct {
	Key   string `json:"key" validate:"required,oneof=category status low_stock"`
	Value string `json:"value"`
}

type selectRequest struct {
	ID int64 `json:"id" validate:"required"`
}

type pageRequest struct {
	Page int `json:"page" validate:"omitempty,min=1"`
	Size int `json:"size" validate:"omitempty,min=1,max=100"`
}
