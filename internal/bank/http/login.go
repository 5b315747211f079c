package http

import (
	"net/http"

	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/pkg/httpx"
	"github.com/lockdownctf/bankapi/pkg/slogx"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles POST /login. On success the response carries a fresh
// opaque session token; credential failures are indistinguishable from each
// other.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "Malformed form data!", nil)
		return
	}

	params := httpx.CheckParams(r.Form, "username", "password")
	if !params.OK() {
		httpx.WriteEnvelope(w, http.StatusBadRequest, params.MissingMessage(), nil)
		return
	}

	token, err := h.SessionService.Login(r.Context(), params.Get("username"), params.Get("password"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	l.Info("user logged in", "username", params.Get("username"))

	httpx.NoCache(w)
	httpx.WriteEnvelope(w, http.StatusOK, "Successfully logged in!", map[string]any{
		"session_token": token,
	})
}
