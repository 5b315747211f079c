package http

import (
	"net/http"

	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/pkg/httpx"
)

type AccountHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP handles GET /account, returning the caller's own account number
// and current balance.
func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteEnvelope(w, http.StatusUnauthorized, "Invalid or expired session!", nil)
		return
	}

	account, err := h.AccountService.GetUserAccount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteEnvelope(w, http.StatusOK, "OK", map[string]any{
		"account": account.ID,
		"balance": account.Balance.StringFixed(2),
	})
}
