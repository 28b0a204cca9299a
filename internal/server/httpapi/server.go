// Package httpapi exposes the Recipe Box service over HTTP: routing,
// middleware, strict payload validation, and the uniform error envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/authz"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Server binds the HTTP surface to the service layer.
type Server struct {
	addr        string
	denyStatus  int
	logger      logging.Logger
	limiter     *rateLimiter
	users       *services.UserService
	ingredients *services.IngredientService
	recipes     *services.RecipeService
}

// NewServer wires handlers, middleware, and the deny policy from config.
func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	users *services.UserService,
	ingredients *services.IngredientService,
	recipes *services.RecipeService,
) *Server {
	return &Server{
		addr:        cfg.Address,
		denyStatus:  authz.DenyStatus(cfg.DenyStatus),
		logger:      logger,
		limiter:     newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		users:       users,
		ingredients: ingredients,
		recipes:     recipes,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled, then drains
// in-flight requests within shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server started", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
