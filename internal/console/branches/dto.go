package branches

// CreateRequest is the payload for opening a new branch.
type CreateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
}

// UpdateRequest patches an existing branch. Nil fields are left untouched.
type UpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=120"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Status  *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type filterRequest struct {
	Key   string `json:"key" validate:"required,oneof=status"`
	Value string `json:"value"`
}

type pageRequest struct {
	Page int `json:"page" validate:"omitempty,min=1"`
	Size int `json:"size" validate:"omitempty,min=1,max=100"`
}

type selectRequest struct {
	ID int64 `json:"id" validate:"required"`
}
