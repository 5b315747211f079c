package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Failure taxonomy shared by the HTTP layer. Each sentinel maps to exactly
// one response status; anything else is a 500.
var (
	// ErrInvalidSession covers missing, unknown and logically expired
	// sessions alike, so a caller cannot tell which case it hit.
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrBadCredentials is returned on login when the username is unknown or
	// the password does not verify.
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrNotAuthorized covers PIN mismatches and account-ownership
	// violations.
	ErrNotAuthorized = errors.New("not authorized")

	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransientStore marks timeouts and connection failures; the whole
	// request is safe to retry.
	ErrTransientStore = errors.New("ledger store unavailable")
)

// DefaultStoreTimeout bounds every store operation so no request blocks
// indefinitely.
const DefaultStoreTimeout = 5 * time.Second

// storeCtx derives a bounded context for a store operation.
func storeCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// mapStoreErr converts context expiry into the transient taxonomy so callers
// know the request may be retried.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTransientStore, err)
	}
	return err
}
