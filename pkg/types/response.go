package types

// SuccessEnvelope wraps every successful response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
