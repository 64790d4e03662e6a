// Package http provides the API server, its router and the metrics server.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	authHTTP "github.com/allisson/siteapi/internal/auth/http"
	authUseCase "github.com/allisson/siteapi/internal/auth/usecase"
	"github.com/allisson/siteapi/internal/config"
	"github.com/allisson/siteapi/internal/httputil"
	"github.com/allisson/siteapi/internal/metrics"
	registrationHTTP "github.com/allisson/siteapi/internal/registration/http"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(host, port, 15*time.Second),
	}
}

// newHTTPServer applies the timeouts shared by the API and metrics listeners.
func newHTTPServer(host string, port int, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// listenAndServe blocks until srv stops. A graceful shutdown is not an error.
func listenAndServe(srv *http.Server, logger *slog.Logger, name string) error {
	logger.Info("starting "+name, slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	return nil
}

// SetupRouter registers every API route. ctx bounds the rate limiter
// background cleanup and should live as long as the server.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	authUseCase authUseCase.AuthUseCase,
	authHandler *authHTTP.AuthHandler,
	accountHandler *authHTTP.AccountHandler,
	registrationHandler *registrationHTTP.RegistrationHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Public endpoints, limited per client IP
	loginChain := []gin.HandlerFunc{}
	if cfg.RateLimitLoginEnabled {
		loginChain = append(loginChain, httputil.RateLimitMiddleware(
			ctx, "login", cfg.RateLimitLoginRequestsPerSec, cfg.RateLimitLoginBurst, httputil.ClientIPKey, s.logger,
		))
	}
	v1.POST("/auth/login", append(loginChain, authHandler.LoginHandler)...)

	submitChain := []gin.HandlerFunc{}
	if cfg.RateLimitRegistrationEnabled {
		submitChain = append(submitChain, httputil.RateLimitMiddleware(
			ctx,
			"registration",
			cfg.RateLimitRegistrationRequestsPerSec,
			cfg.RateLimitRegistrationBurst,
			httputil.ClientIPKey,
			s.logger,
		))
	}
	v1.POST("/registrations", append(submitChain, registrationHandler.SubmitHandler)...)

	// Authenticated endpoints
	authenticated := v1.Group("")
	authenticated.Use(authHTTP.AuthenticationMiddleware(authUseCase, s.logger))
	if cfg.RateLimitEnabled {
		authenticated.Use(httputil.RateLimitMiddleware(
			ctx, "account", cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, authHTTP.AccountKey, s.logger,
		))
	}

	authenticated.GET("/auth/me", authHandler.MeHandler)

	accounts := authenticated.Group("/accounts")
	accounts.Use(authHTTP.RequireRole(s.logger, authDomain.RoleAdmin))
	{
		accounts.POST("", accountHandler.CreateHandler)
		accounts.GET("", accountHandler.ListHandler)
		accounts.GET("/:id", accountHandler.GetHandler)
		accounts.PATCH("/:id", accountHandler.UpdateHandler)
		accounts.POST("/:id/password", accountHandler.ResetPasswordHandler)
	}

	registrations := authenticated.Group("/registrations")
	registrations.Use(authHTTP.RequireRole(s.logger, authDomain.RoleAdmin, authDomain.RoleEditor))
	{
		registrations.GET("", registrationHandler.ListHandler)
		registrations.GET("/count", registrationHandler.CountHandler)
		registrations.GET("/:id", registrationHandler.GetHandler)
		registrations.PATCH("/:id/status", registrationHandler.UpdateStatusHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves the API until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router
	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": database},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": database},
	})
}
