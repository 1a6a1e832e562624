package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/cheatvault-go/internal/auth"
	"github.com/cheatvault-go/internal/config"
	"github.com/cheatvault-go/internal/dao"
	"github.com/cheatvault-go/internal/handler"
	"github.com/cheatvault-go/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	store      *storage.Store
	router     *gin.Engine
	httpServer *http.Server
	userDAO    *dao.UserDAO
	cheatDAO   *dao.CheatDAO
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		store:    store,
		router:   gin.New(),
		userDAO:  dao.NewUserDAO(store),
		cheatDAO: dao.NewCheatDAO(store),
	}

	// Ensure default admin user exists
	if err := s.userDAO.EnsureDefaultUser(); err != nil {
		log.Warn().Err(err).Msg("Failed to ensure default user")
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(TraceMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Health checks
	r.GET("/healthz", HealthHandler)
	r.GET("/readyz", ReadyHandler)

	// Create handlers
	apiHandler := handler.NewAPIHandler(s.cfg, s.userDAO)
	cryptHandler := handler.NewCryptHandler()
	cheatHandler := handler.NewCheatHandler(s.cfg, s.cheatDAO)

	api := r.Group("/api")
	{
		api.POST("/login", apiHandler.Login)

		// Stateless code transforms, no auth required
		crypt := api.Group("/crypt")
		crypt.POST("/encrypt", cryptHandler.Encrypt)
		crypt.POST("/decrypt", cryptHandler.Decrypt)
		crypt.POST("/auto", cryptHandler.AutoDecrypt)

		// Cheat library, reads are public, writes require auth
		cheats := api.Group("/cheats")
		cheats.GET("", cheatHandler.ListGames)
		cheats.GET("/:game", cheatHandler.ListGame)
		cheats.GET("/:game/:name", cheatHandler.GetCheat)

		authed := api.Group("")
		authed.Use(AuthMiddleware(apiHandler.JWT(), auth.ScopeWrite))
		authed.POST("/updatePasswd", apiHandler.UpdatePasswd)
		authed.PUT("/cheats/:game/:name", cheatHandler.SaveCheat)
		authed.DELETE("/cheats/:game/:name", cheatHandler.DeleteCheat)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.cfg.GetHTTPAddr()

	var httpHandler http.Handler = s.router

	// Enable h2c (HTTP/2 cleartext) if configured
	if s.cfg.Server.EnableH2C {
		h2s := &http2.Server{
			MaxConcurrentStreams: 1000,
			IdleTimeout:          120 * time.Second,
		}
		httpHandler = h2c.NewHandler(s.router, h2s)
		log.Info().Msg("HTTP/2 cleartext (h2c) enabled")
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Starting HTTP server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down server...")

	var lastErr error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			lastErr = err
		}
	}

	if err := s.store.Close(); err != nil {
		lastErr = err
	}

	return lastErr
}
