package banksdk

// Envelope is the common response shape: an HTTP-style code, a human-readable
// message, and optional operation-specific fields flattened alongside.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LoginResponse is the payload returned by POST /login.
type LoginResponse struct {
	Envelope

	// SessionToken is the opaque bearer token for subsequent requests.
	SessionToken string `json:"session_token"`
}

// TransferResponse is the payload returned by POST /transfer.
type TransferResponse struct {
	Envelope

	// NewBalance is the source account's balance after the transfer, as a
	// fixed two-decimal string (e.g. "999999900.00").
	NewBalance string `json:"new_balance"`

	// Timestamp is the commit time of the transfer in RFC 3339 format.
	Timestamp string `json:"timestamp"`
}

// AccountResponse is the payload returned by GET /account.
type AccountResponse struct {
	Envelope

	// Account is the caller's account number.
	Account string `json:"account"`

	// Balance is the current balance as a fixed two-decimal string.
	Balance string `json:"balance"`
}

// HealthChecks reports per-dependency status in a readiness response.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
}

// HealthResponse is the payload returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
