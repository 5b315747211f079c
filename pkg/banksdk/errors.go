package banksdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError represents a non-success envelope returned by the service.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the envelope's code field. It normally mirrors StatusCode.
	Code int

	// Message is the human-readable error message from the service.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("bank api error %d: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether the error is a 401 (bad credentials or
// invalid/expired session).
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// IsForbidden reports whether the error is a 403 (wrong PIN or not the
// account owner).
func (e *APIError) IsForbidden() bool { return e.StatusCode == http.StatusForbidden }

// IsInsufficientFunds reports whether the error is a 409 balance conflict.
func (e *APIError) IsInsufficientFunds() bool { return e.StatusCode == http.StatusConflict }

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: resp.StatusCode}

	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
