// Package server initializes and runs the accountd application server.
// It opens the database, applies migrations, wires the services and serves
// the public API and the admin UI over one HTTP endpoint, with graceful
// shutdown on OS signals.
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

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/accountd/internal/logging"
	"github.com/dkovalev/accountd/internal/server/admin"
	"github.com/dkovalev/accountd/internal/server/config"
	"github.com/dkovalev/accountd/internal/server/httpapi"
	"github.com/dkovalev/accountd/internal/server/repositories/repomanager"
	"github.com/dkovalev/accountd/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	accounts *services.AccountService
	avatars  *services.AvatarService
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		repos:    repos,
		accounts: services.NewAccountService(repos, cfg),
		avatars:  services.NewAvatarService(repos, cfg),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	httpapi.NewServer(app.accounts, app.avatars, app.logger).RegisterRoutes(r)
	admin.NewServer(app.accounts, app.config, app.logger).RegisterRoutes(r)

	return r
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.newRouter(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server...", "addr", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, fmt.Sprintf("migration error: %v", err))
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
