package auditlog

type searchRequest struct {
	Term string `json:"term"`
}

type filterRequest struct {
	Key   string `json:"key" validate:"required,oneof=actor action entity date_from date_to"`
	Value string `json:"value"`
}

type pageRequest struct {
	Page int `json:"page" validate:"omitempty,min=1"`
	Size int `json:"size" validate:"omitempty,min=1,max=100"`
}

type pollRequest struct {
	Enabled bool `json:"enabled"`
}

type pollState struct {
	Enabled         bool `json:"enabled"`
	IntervalSeconds int  `json:"interval_seconds,omitempty"`
}
