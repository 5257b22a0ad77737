package users

// CreateRequest provisions a staff account.
type CreateRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER CASHIER"`
	BranchID int64  `json:"branch_id" validate:"omitempty,min=1"`
}

// UpdateRequest patches a staff account. Nil fields are left untouched.
type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN MANAGER CASHIER"`
	BranchID *int64  `json:"branch_id" validate:"omitempty,min=1"`
	Status   *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type filterRequest struct {
	Key   string `json:"key" validate:"required,oneof=role status branch"`
	Value string `json:"value"`
}

type selectRequest struct {
	ID int64 `json:"id" validate:"required"`
}

type pageRequest struct {
	Page int `json:"page" validate:"omitempty,min=1"`
	Size int `json:"size" validate:"omitempty,min=1,max=100"`
}
