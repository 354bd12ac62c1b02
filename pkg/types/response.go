package types

import "time"

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope matches the storefront failure contract: a literal error
// status plus the moment the failure was produced.
type ErrorEnvelope struct {
	Status    string    `json:"status"`
	Error     APIError  `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
