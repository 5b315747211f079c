package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/pkg/httpx"
)

type TransferHandler struct {
	TransferService *service.TransferService
}

// ServeHTTP handles POST /transfer. Runs behind SessionMiddleware, so the
// request context always carries a validated identity; the raw token is still
// passed down because the transfer re-checks the session inside its own
// transaction window.
func (h *TransferHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, _ := httpx.TokenFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "Malformed form data!", nil)
		return
	}

	params := httpx.CheckParams(r.Form, "from_account", "to_account", "amount", "pin")
	if !params.OK() {
		httpx.WriteEnvelope(w, http.StatusBadRequest, params.MissingMessage(), nil)
		return
	}

	amount, err := decimal.NewFromString(params.Get("amount"))
	if err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "Invalid amount!", nil)
		return
	}

	receipt, err := h.TransferService.Transfer(r.Context(),
		token,
		params.Get("from_account"),
		params.Get("to_account"),
		amount,
		params.Get("pin"),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteEnvelope(w, http.StatusOK, "Transfer completed!", map[string]any{
		"new_balance": receipt.FromBalance.StringFixed(2),
		"timestamp":   receipt.Timestamp,
	})
}
