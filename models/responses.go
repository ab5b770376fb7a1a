package models

// Response statuses used in every JSON envelope.
const (
	StatusSuccess = "success"
	// StatusFail marks client errors (4xx).
	StatusFail = "fail"
	// StatusError marks server errors (5xx).
	StatusError = "error"
)

// Response is the JSON envelope returned by every endpoint.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// AuthResult is returned by workflow steps that end with a fresh session.
type AuthResult struct {
	Identity *Identity
	Token    Token
}
