// Package web exposes the thin HTTP surface of the security core: the
// authentication middleware, the authenticated user endpoint and the
// guarded redirect endpoint. Routing stays on the standard library mux.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linkmark/internal/logging"
	"github.com/dmitrijs2005/linkmark/internal/server/redirect"
	"github.com/dmitrijs2005/linkmark/internal/server/users"
)

type Server struct {
	address string
	users   *users.Service
	guard   *redirect.Guard
	logger  logging.Logger
}

func NewServer(address string, logger logging.Logger, us *users.Service, guard *redirect.Guard) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		users:   us,
		guard:   guard,
	}
}

// Routes builds the request multiplexer. Exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/api/user", s.requireAuth(http.HandlerFunc(s.handleCurrentUser)))
	mux.HandleFunc("/r", s.handleRedirect)
	return s.withRequestID(mux)
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
