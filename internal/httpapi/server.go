package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/sweep"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server runs the HTTP API and, when configured, the background milestone
// sweep for as long as its context lives.
type Server struct {
	Addr    string
	Handler http.Handler
	Sweeper *sweep.Sweeper
	// Actor is attached to the sweep's context.
	Actor  domain.User
	Logger *zap.Logger

	// ready receives the bound address once listening; used by tests.
	ready chan<- string
}

func (s *Server) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.Sweeper != nil {
		s.Sweeper.Start(domain.WithActor(ctx, s.Actor))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
	if s.ready != nil {
		s.ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		s.stopSweeper()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.stopSweeperWith(shutdownCtx)
		return fmt.Errorf("shutdown: %w", err)
	}
	s.stopSweeperWith(shutdownCtx)
	return nil
}

func (s *Server) stopSweeper() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.stopSweeperWith(ctx)
}

func (s *Server) stopSweeperWith(ctx context.Context) {
	if s.Sweeper != nil {
		s.Sweeper.Stop(ctx)
	}
}
