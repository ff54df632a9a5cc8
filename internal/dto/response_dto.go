package dto

type ErrorResponse struct {
	Message string   `json:"message"`
	Reason  string   `json:"reason,omitempty"` // machine-checkable error class
	Details []string `json:"details,omitempty"`
}
