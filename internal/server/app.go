// Package server initializes and runs the application server.
// It validates configuration, wires the storage backends and the
// security services, applies database migrations and starts the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/linkmark/internal/logging"
	"github.com/dmitrijs2005/linkmark/internal/server/auth"
	"github.com/dmitrijs2005/linkmark/internal/server/config"
	"github.com/dmitrijs2005/linkmark/internal/server/db"
	"github.com/dmitrijs2005/linkmark/internal/server/redirect"
	"github.com/dmitrijs2005/linkmark/internal/server/userkeys"
	"github.com/dmitrijs2005/linkmark/internal/server/users"
	"github.com/dmitrijs2005/linkmark/internal/server/web"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repoManager db.RepositoryManager
	userService *users.Service
	guard       *redirect.Guard
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewService(c)
	allocator := userkeys.NewAllocator(rm.Users(), logger)
	us := users.NewService(rm.Users(), allocator, tokens, logger)
	guard := redirect.NewGuard(c.MaxRedirectURLLength)

	return &App{config: c, logger: logger, repoManager: rm, userService: us, guard: guard}, nil
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

	s := web.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.guard)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
