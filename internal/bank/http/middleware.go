package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/pkg/httpx"
)

// sessionToken pulls the opaque session token out of a request. The
// Authorization header wins; the "session" form field is accepted as a
// fallback for plain form clients.
func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if tok, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	return strings.TrimSpace(r.FormValue("session"))
}

// SessionMiddleware resolves the session token to a user and stores the
// identity on the request context. Requests without a live session are
// rejected with 401 before the handler runs.
func SessionMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				httpx.WriteEnvelope(w, http.StatusUnauthorized, "Invalid or expired session!", nil)
				return
			}

			user, err := sessions.Validate(r.Context(), token)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), httpx.CtxKeyUserID, user.ID)
			ctx = context.WithValue(ctx, httpx.CtxKeyStaff, user.Staff)
			ctx = context.WithValue(ctx, httpx.CtxKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
