package api

import (
	"log/slog"
	"os"
	"strings"

	"github.com/edushare/edushare-backend/internal/api/handlers"
	"github.com/edushare/edushare-backend/internal/api/middleware"
	"github.com/edushare/edushare-backend/internal/repository"
	ws "github.com/edushare/edushare-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB     *gorm.DB
	Hub    *ws.Hub
	Logger *slog.Logger
	// Security configuration
	APIKey         string   // API key for authentication (empty = disabled)
	AllowedOrigins []string // Allowed CORS origins
	RateLimit      int      // Requests per second (0 = use env default)
	RateBurst      int      // Burst size for rate limiter
	EnableAuth     bool     // Enable API key authentication
	// Participant auto-provisioning on first message
	AutoCreateUsers bool
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Security Middleware (applied in correct order)
	// 1. Recover from panics
	e.Use(middleware.Recover())

	// 2. Security headers (applied to all responses)
	e.Use(middleware.SecureHeaders())

	// 3. CORS - Set environment variable if origins provided in config
	if len(cfg.AllowedOrigins) > 0 {
		os.Setenv("ALLOWED_ORIGINS", strings.Join(cfg.AllowedOrigins, ","))
	}
	e.Use(middleware.SecureCORS())

	// 4. Rate limiting - use RateLimiterWithConfig if custom values provided
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(float64(cfg.RateLimit), cfg.RateBurst, cfg.Logger))
	} else {
		e.Use(middleware.RateLimiter(cfg.Logger))
	}

	// 5. Request logging
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Initialize repositories
	messageRepo := repository.NewMessageRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)
	itemRepo := repository.NewItemRepository(cfg.DB)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	var broadcaster handlers.Broadcaster
	if cfg.Hub != nil {
		broadcaster = cfg.Hub
	}
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, broadcaster, cfg.AutoCreateUsers)
	conversationHandler := handlers.NewConversationHandler(messageRepo, userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	itemHandler := handlers.NewItemHandler(itemRepo)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// WebSocket endpoint (no auth; origin-checked on upgrade)
	if cfg.Hub != nil {
		wsHandler := handlers.NewWSHandler(cfg.Hub, cfg.Logger)
		e.GET("/ws", wsHandler.Connect)
	}

	// API routes
	api := e.Group("/api")

	// Apply API key authentication if enabled
	// Set API_KEY env var if provided in config
	if cfg.EnableAuth && cfg.APIKey != "" {
		os.Setenv("API_KEY", cfg.APIKey)
	}
	api.Use(middleware.APIKeyAuth(cfg.Logger))

	// Message routes
	messages := api.Group("/messages")
	messages.GET("", messageHandler.List)
	messages.POST("", messageHandler.Create)
	messages.GET("/:id", messageHandler.Get)
	messages.PATCH("/:id/read", messageHandler.MarkRead)
	messages.PATCH("/:id/flag", messageHandler.Flag)

	// Conversation routes (derived views, never persisted)
	conversations := api.Group("/conversations")
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id/messages", conversationHandler.Messages)

	// User routes
	users := api.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:email", userHandler.Get)
	users.PATCH("/:email", userHandler.UpdateProfile)

	// Item routes
	items := api.Group("/items")
	items.POST("", itemHandler.Create)
	items.GET("", itemHandler.List)
	items.GET("/:id", itemHandler.Get)
	items.PATCH("/:id/status", itemHandler.UpdateStatus)
	items.PATCH("/:id/approve", itemHandler.Approve)
	items.DELETE("/:id", itemHandler.Delete)

	return e
}
