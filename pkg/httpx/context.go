package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyStaff  ctxKey = "staff"
	CtxKeyToken  ctxKey = "session_token"
)

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// StaffFromContext reports whether the authenticated user has staff privilege.
func StaffFromContext(ctx context.Context) bool {
	v, ok := ctx.Value(CtxKeyStaff).(bool)
	return ok && v
}

// TokenFromContext returns the raw session token carried by the request.
func TokenFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyToken).(string)
	return v, ok && v != ""
}
