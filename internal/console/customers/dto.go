package customers

// CreateRequest registers a new customer.
type CreateRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// UpdateRequest patches a customer. Nil fields are left untouched.
type UpdateRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Phone  *string `json:"phone" validate:"omitempty,max=32"`
	Status *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type filterRequest struct {
	Key   string `json:"key" validate:"required,oneof=status branch"`
	Value string `json:"value"`
}

type selectRequest struct {
	ID int64 `json:"id" validate:"required"`
}

type pageRequest struct {
	Page int `json:"page" validate:"omitempty,min=1"`
	Size int `json:"size" validate:"omitempty,min=1,max=100"`
}
