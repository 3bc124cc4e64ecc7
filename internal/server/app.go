// Package server initializes and runs the auth server: it opens the
// database, applies migrations, wires the services behind the HTTP API,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/listora/listora/internal/logging"
	"github.com/listora/listora/internal/server/auth"
	"github.com/listora/listora/internal/server/config"
	"github.com/listora/listora/internal/server/httpapi"
	"github.com/listora/listora/internal/server/repositories/repomanager"
	"github.com/listora/listora/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	handler  *httpapi.Handler
	sessions *services.SessionService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer := auth.NewIssuer(
		[]byte(cfg.SecretKey),
		cfg.SecretKeyID,
		cfg.AccessTokenValidityDuration,
		cfg.RefreshTokenValidityDuration,
		cfg.VerificationTokenValidityDuration,
	)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	authSvc := services.NewAuthService(db, repos, hasher, issuer, logger)
	sessionSvc := services.NewSessionService(db, repos, issuer, logger)
	handler := httpapi.NewHandler(authSvc, sessionSvc, issuer, logger, cfg)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		handler:  handler,
		sessions: sessionSvc,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.handler.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

// startTokenSweeper periodically purges expired refresh tokens so the table
// does not accumulate dead rows.
func (app *App) startTokenSweeper(ctx context.Context) {
	interval := app.config.TokenSweepInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := app.sessions.PurgeExpired(ctx)
			if err != nil {
				app.logger.Warn(ctx, "token sweep failed", "error", err)
				continue
			}
			if count > 0 {
				app.logger.Info(ctx, "expired refresh tokens purged", "count", count)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startTokenSweeper(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
