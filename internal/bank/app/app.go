package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	httpapi "github.com/lockdownctf/bankapi/internal/bank/http"
	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/internal/bank/store"
	"github.com/lockdownctf/bankapi/internal/bank/store/drivers/sqlite"
	"github.com/lockdownctf/bankapi/pkg/cryptox"
	"github.com/lockdownctf/bankapi/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// ErrMissingSecretKey is returned when the instance secret key file does not
// exist and the environment does not allow generating one.
var ErrMissingSecretKey = errors.New("instance secret key file not found")

// Application encapsulates the bank service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	sessionService   *service.SessionService
	transferService  *service.TransferService
	accountService   *service.AccountService
	cleanupService   *service.CleanupService
	provisionService *service.ProvisionService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bank-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// The pepper is per-instance state. Outside prod a missing file is
	// generated on first use; prod must be handed one explicitly so a
	// redeploy cannot silently invalidate every stored hash.
	if cfg.Env == "prod" {
		if _, err := os.Stat(cfg.PepperFile); err != nil {
			return nil, fmt.Errorf(
				"%w: %s\n\n"+
					"In prod the secret key file must be provisioned before startup:\n"+
					"  1. head -c 32 /dev/urandom | base64 > %s\n"+
					"  2. chmod 600 %s\n"+
					"  3. restart the service with BANK_PEPPER_FILE=%s",
				ErrMissingSecretKey, cfg.PepperFile,
				cfg.PepperFile, cfg.PepperFile, cfg.PepperFile,
			)
		}
	}
	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.autoProvision(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.cleanupService.Start()

	app.logger.Info("bank service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down bank service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.cleanupService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("bank service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:   app.db,
		TTL:     app.cfg.SessionTTL,
		Timeout: app.cfg.StoreTimeout,
	}

	app.transferService = &service.TransferService{
		Store:    app.db,
		Sessions: app.sessionService,
		Timeout:  app.cfg.StoreTimeout,
	}

	app.accountService = &service.AccountService{
		Store:   app.db,
		Timeout: app.cfg.StoreTimeout,
	}

	app.provisionService = &service.ProvisionService{
		Store:   app.db,
		Logger:  app.logger,
		Timeout: app.cfg.StoreTimeout,
	}

	app.cleanupService = service.NewCleanupService(
		app.db,
		app.logger,
		app.cfg.CleanupInterval,
		app.cfg.SessionTTL,
	)
}

// autoProvision seeds the store on first boot when enabled. A provisioned
// store is left untouched.
func (app *Application) autoProvision() error {
	if !app.cfg.AutoProvision {
		return nil
	}

	balance, err := decimal.NewFromString(app.cfg.TeamBalance)
	if err != nil {
		return fmt.Errorf("invalid BANK_TEAM_BALANCE %q: %w", app.cfg.TeamBalance, err)
	}

	creds, err := app.provisionService.Provision(context.Background(), service.ProvisionOptions{
		StaffPassword:   app.cfg.StaffPassword,
		StaffPIN:        app.cfg.StaffPIN,
		ScoringPassword: app.cfg.ScoringPassword,
		Teams:           app.cfg.Teams,
		TeamPassword:    app.cfg.TeamPassword,
		TeamPIN:         app.cfg.TeamPIN,
		TeamBalance:     balance,
	})
	if errors.Is(err, service.ErrAlreadyProvisioned) {
		app.logger.Info("store already provisioned, skipping auto-provision")
		return nil
	}
	if err != nil {
		return fmt.Errorf("auto-provision failed: %w", err)
	}

	app.logger.Info("store auto-provisioned", "users", len(creds))
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.SessionService = app.sessionService
	router.TransferService = app.transferService
	router.AccountService = app.accountService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
