package model

// Envelope is the JSON body of every response: "success" plus either a
// message or payload fields at the top level.
type Envelope map[string]any

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
