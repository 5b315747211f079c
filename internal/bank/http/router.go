package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/internal/bank/store"
	"github.com/lockdownctf/bankapi/pkg/httpx"
	"github.com/lockdownctf/bankapi/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	SessionService  *service.SessionService
	TransferService *service.TransferService
	AccountService  *service.AccountService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerLedger()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP + username to slow brute force
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// POST /logout - no session middleware: invalidation is idempotent and
	// an expired token must still log out cleanly
	logoutHandler := &LogoutHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerLedger() {
	sessioned := SessionMiddleware(r.SessionService)

	// POST /transfer - moderate rate limit by authenticated user
	transferHandler := &TransferHandler{TransferService: r.TransferService}
	r.Mux.Handle("POST /transfer",
		httpx.Chain(transferHandler,
			sessioned,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /account - lenient rate limit by authenticated user
	accountHandler := &AccountHandler{AccountService: r.AccountService}
	r.Mux.Handle("GET /account",
		httpx.Chain(accountHandler,
			sessioned,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
