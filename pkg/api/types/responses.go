// Package types provides the JSON shapes returned by the survey API.
package types

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse acknowledges an action that has no resource to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is a simple health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  int    `json:"uptime"`
	Surveys int    `json:"surveys"`
}

// Error codes used in ErrorResponse.Error.
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidJSON = "invalid_json"
	ErrCodeInvalidForm = "invalid_form"
	ErrCodeValidation  = "validation_error"
	ErrCodeRender      = "render_failed"
	ErrCodeUnsupported = "unsupported_media_type"
	ErrCodeRateLimited = "rate_limit_exceeded"
	ErrCodeInternal    = "internal_error"
)

// Messages shared by handlers and tests.
const (
	MsgSurveyNotFound   = "Survey not found"
	MsgSurveySubmitted  = "Survey submitted successfully"
	MsgUnsupportedMedia = "Content-Type must be application/json or application/x-www-form-urlencoded"
	MsgRateLimited      = "Too many requests. Please slow down."
)
