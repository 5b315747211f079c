package http

import (
	"net/http"

	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/pkg/httpx"
)

type LogoutHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles POST /logout. Invalidation is idempotent: unknown and
// already-expired tokens log out with the same 200 a live one gets, so
// clients can always fire-and-forget.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "You are missing the following parameters: session", nil)
		return
	}

	if err := h.SessionService.Invalidate(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteEnvelope(w, http.StatusOK, "Successfully logged out!", nil)
}
