// Package http provides the Gin HTTP server, route registration, and
// cross-cutting middleware for the public API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyHTTP "github.com/allisson/pqvault/internal/apikey/http"
	userHTTP "github.com/allisson/pqvault/internal/user/http"
	walletHTTP "github.com/allisson/pqvault/internal/wallet/http"
)

// Server represents the HTTP API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	db     *sql.DB
}

// NewServer creates a new HTTP server. The router is empty until SetupRouter
// is called; the db handle is used by the readiness probe only.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the handlers and cross-cutting middleware settings
// used to assemble the API routes.
type RouterConfig struct {
	UserHandler   *userHTTP.UserHandler
	APIKeyHandler *apikeyHTTP.APIKeyHandler
	WalletHandler *walletHTTP.WalletHandler

	// AuthMiddleware validates bearer API keys and injects the caller
	// identity into the request context.
	AuthMiddleware gin.HandlerFunc

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
}

// SetupRouter builds the Gin engine and registers all API routes.
//
// Two route groups exist under /v1. User registration and API key issuance
// authenticate with account credentials and are rate limited per IP. All
// other endpoints require a valid bearer API key and are rate limited per
// key.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	public := v1.Group("")
	if cfg.RateLimitEnabled {
		public.Use(apikeyHTTP.IssuanceRateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}
	public.POST("/users", cfg.UserHandler.RegisterHandler)
	public.POST("/api-keys", cfg.APIKeyHandler.GenerateHandler)

	authorized := v1.Group("")
	authorized.Use(cfg.AuthMiddleware)
	if cfg.RateLimitEnabled {
		authorized.Use(apikeyHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}

	authorized.GET("/api-keys", cfg.APIKeyHandler.ListHandler)
	authorized.POST("/api-keys/:id/rotate", cfg.APIKeyHandler.RotateHandler)
	authorized.DELETE("/api-keys/:id", cfg.APIKeyHandler.RevokeHandler)

	authorized.POST("/wallets", cfg.WalletHandler.CreateHandler)
	authorized.POST("/wallets/recover", cfg.WalletHandler.RecoverHandler)
	authorized.GET("/wallets/:wallet_id", cfg.WalletHandler.GetHandler)
	authorized.DELETE("/wallets/:wallet_id", cfg.WalletHandler.RevokeHandler)
	authorized.POST("/wallets/:wallet_id/unlock", cfg.WalletHandler.UnlockHandler)
	authorized.POST("/wallets/:wallet_id/sign", cfg.WalletHandler.SignHandler)
	authorized.POST("/wallets/:wallet_id/verify", cfg.WalletHandler.VerifyHandler)
	authorized.POST("/wallets/:wallet_id/encrypt", cfg.WalletHandler.EncryptHandler)
	authorized.POST("/wallets/:wallet_id/decrypt", cfg.WalletHandler.DecryptHandler)

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// is the only hard dependency, so readiness is its ping result.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK
	state := "ready"

	if s.db == nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		state = "not_ready"
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Error("readiness database ping failed", slog.Any("error", err))
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		state = "not_ready"
	} else {
		components["database"] = "ok"
	}

	c.JSON(status, gin.H{"status": state, "components": components})
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured, call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
