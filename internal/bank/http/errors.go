package http

import (
	"errors"
	"net/http"

	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/pkg/httpx"
	"github.com/lockdownctf/bankapi/pkg/slogx"
)

// writeServiceError maps a service error onto the response envelope. Every
// handler funnels its failures through here so the status mapping stays in
// one place.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteEnvelope(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrBadCredentials):
		httpx.WriteEnvelope(w, http.StatusUnauthorized, "Invalid username or password!", nil)
	case errors.Is(err, service.ErrInvalidSession):
		httpx.WriteEnvelope(w, http.StatusUnauthorized, "Invalid or expired session!", nil)
	case errors.Is(err, service.ErrNotAuthorized):
		httpx.WriteEnvelope(w, http.StatusForbidden, "You are not authorized to perform this action!", nil)
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteEnvelope(w, http.StatusNotFound, "Account not found!", nil)
	case errors.Is(err, service.ErrInsufficientFunds):
		httpx.WriteEnvelope(w, http.StatusConflict, "Insufficient funds!", nil)
	case errors.Is(err, service.ErrTransientStore):
		httpx.WriteEnvelope(w, http.StatusServiceUnavailable, "Service temporarily unavailable, try again!", nil)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "error", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "Internal server error!", nil)
	}
}
