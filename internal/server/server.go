package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/satriastudio/studio-be/internal/auth"
	"github.com/satriastudio/studio-be/internal/config"
	"github.com/satriastudio/studio-be/internal/fieldcodec"
	"github.com/satriastudio/studio-be/internal/http/handlers"
	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/middleware"
	"github.com/satriastudio/studio-be/internal/orders"
	"github.com/satriastudio/studio-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) (*Server, error) {
	codec, err := fieldcodec.New(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("init field codec: %w", err)
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authority, err := auth.NewAuthority(store, tokens, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("init authority: %w", err)
	}

	requireAdmin := middleware.RequireAdmin(tokens)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute)
	orderLimiter := middleware.NewRateLimiter(cfg.OrderRatePerMinute)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, respond.CodeMethodNotAllowed, "method not allowed")
	})

	handlers.NewHealthHandler(time.Now(), store).Register(r)
	handlers.NewAuthHandler(authority, loginLimiter.Middleware).Register(r)
	handlers.NewOrdersHandler(orders.NewService(store, codec), requireAdmin, orderLimiter.Middleware).Register(r)
	handlers.NewProjectsHandler(store, requireAdmin).Register(r)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(middleware.Recover(r)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Handler exposes the fully wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
