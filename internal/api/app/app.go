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

	httpapi "github.com/kikundi/chama/internal/api/http"
	"github.com/kikundi/chama/internal/api/service"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/internal/api/store/drivers/sqlite"
	"github.com/kikundi/chama/pkg/cryptox"
	"github.com/kikundi/chama/pkg/jwtx"
	"github.com/kikundi/chama/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the chama API with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	hasher     *cryptox.PasswordHasher

	// Services
	tokenService        *service.TokenService
	userService         *service.UserService
	groupService        *service.GroupService
	contributionService *service.ContributionService
	loanService         *service.LoanService
	investmentService   *service.InvestmentService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "chama-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	app.initServices()

	if err := app.bootstrapAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("chama api starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	app.logger.Info("shutting down chama api...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("chama api stopped")
	return nil
}

// Close releases the database without touching the HTTP server. Used when
// the application was built but never run.
func (app *Application) Close() error {
	return app.db.Close()
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(databaseDSN(app.cfg.DatabaseFile))
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

// databaseDSN builds a modernc sqlite DSN. ":memory:" is passed through.
// Transactions take the write lock on BEGIN so a balance check and the
// write that depends on it cannot interleave with another writer.
func databaseDSN(file string) string {
	if file == ":memory:" {
		return file
	}
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite&_txlock=immediate",
		file,
	)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		KeyManager:    app.keyManager,
		Store:         app.db,
		Hasher:        app.hasher,
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
		RotateRefresh: app.cfg.RotateRefresh,
	}

	app.userService = &service.UserService{Store: app.db, Tokens: app.tokenService}
	app.groupService = &service.GroupService{Store: app.db}
	app.contributionService = &service.ContributionService{Store: app.db}
	app.loanService = &service.LoanService{Store: app.db}
	app.investmentService = &service.InvestmentService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db, Hasher: app.hasher}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.TokenRetention,
	)
}

// bootstrapAdmin makes sure the configured staff account exists. Without a
// configured username nothing happens.
func (app *Application) bootstrapAdmin(ctx context.Context) error {
	if app.cfg.AdminUsername == "" {
		return nil
	}

	created, err := app.bootstrapService.EnsureAdmin(ctx, app.cfg.AdminUsername, app.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin %q: %w", app.cfg.AdminUsername, err)
	}

	if created {
		app.logger.Info("created staff account", "username", app.cfg.AdminUsername)
	} else {
		app.logger.Info("staff account present", "username", app.cfg.AdminUsername)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		app.cfg.RateLimits,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.GroupService = app.groupService
	router.ContributionService = app.contributionService
	router.LoanService = app.loanService
	router.InvestmentService = app.investmentService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
