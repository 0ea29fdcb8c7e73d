// Package server assembles the HTTP API: middleware, routes and the
// handlers behind them.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fabiofranco85/escala/internal/config"
	"github.com/fabiofranco85/escala/internal/repository"
	"github.com/fabiofranco85/escala/internal/setlist"

	"github.com/fabiofranco85/escala/internal/api/handlers"
	"github.com/fabiofranco85/escala/internal/api/middleware"
)

type Server struct {
	cfg    *config.Config
	repos  *repository.Container
	gen    setlist.Config
	router *gin.Engine
}

func New(cfg *config.Config, repos *repository.Container, gen setlist.Config) *Server {
	gin.SetMode(gin.ReleaseMode) // Set to Release for production

	s := &Server{
		cfg:    cfg,
		repos:  repos,
		gen:    gen,
		router: gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// RegisterMetrics registers every API collector with Prometheus. Call
// once at startup, before New.
func RegisterMetrics() {
	middleware.RegisterMetrics()
	handlers.RegisterMetrics()
}

func (s *Server) setupMiddleware() {
	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.Metrics())
	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	// 1. Initialize Modular Handlers
	setlistHandler := handlers.NewSetlistHandler(s.repos, s.gen)
	labelHandler := handlers.NewLabelHandler(s.repos)
	songHandler := handlers.NewSongHandler(s.repos)
	eventTypeHandler := handlers.NewEventTypeHandler(s.repos)
	configHandler := handlers.NewConfigHandler(s.gen)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "escala"})
	})

	// API Group
	v1 := s.router.Group("/api/v1")
	{
		// ==========================================
		// SETLISTS (generation and maintenance)
		// ==========================================
		v1.POST("/setlists/generate", setlistHandler.Generate)
		v1.GET("/setlists", setlistHandler.List)
		v1.GET("/setlists/:date", setlistHandler.Get)
		v1.GET("/setlists/:date/markdown", setlistHandler.Markdown)
		v1.POST("/setlists/:date/replace", setlistHandler.Replace)
		v1.POST("/setlists/:date/replace-batch", setlistHandler.ReplaceBatch)
		v1.POST("/setlists/:date/derive", setlistHandler.Derive)

		// ==========================================
		// LABELS (named variants sharing a date)
		// ==========================================
		v1.POST("/labels", labelHandler.Add)
		v1.PATCH("/labels/:label", labelHandler.Rename)
		v1.DELETE("/labels/:label", labelHandler.Remove)

		// ==========================================
		// SONGS (catalog)
		// ==========================================
		v1.GET("/songs", songHandler.List)
		v1.GET("/songs/search", songHandler.Search)
		v1.GET("/songs/:title", songHandler.Get)
		v1.GET("/songs/:title/info", songHandler.Info)
		v1.PATCH("/songs/:title", songHandler.UpdateContent)

		// ==========================================
		// EVENT TYPES (service variants)
		// ==========================================
		v1.GET("/event-types", eventTypeHandler.List)
		v1.POST("/event-types", eventTypeHandler.Create)
		v1.GET("/event-types/:slug", eventTypeHandler.Get)
		v1.PATCH("/event-types/:slug", eventTypeHandler.Update)
		v1.DELETE("/event-types/:slug", eventTypeHandler.Delete)

		// ==========================================
		// CONFIG (effective generation settings)
		// ==========================================
		v1.GET("/config", configHandler.Get)
	}
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
