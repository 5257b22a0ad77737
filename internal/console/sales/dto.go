package sales

type searchRequest struct {
	Term string `json:"term"`
}

type filterRequest struct {
	Key   string `json:"key" validate:"required,oneof=status branch date_from date_to"`
	Value string `json:"value"`
}

type selectRequest struct {
	ID int64 `json:"id" validate:"required"`
}

type pageRequest struct {
	Page int `json:"page" validate:"omitempty,min=1"`
	Size int `json:"size" validate:"omitempty,min=1,max=100"`
}

type voidRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=240"`
}

// detailView decorates the sale record with display strings.
type detailView struct {
	Detail
	TotalDisplay string   `json:"total_display"`
	LineDisplays []string `json:"line_displays"`
}
