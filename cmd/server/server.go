package main

import (
	"log"
	"net/http"
	"time"

	"blackjack-platform/backend/internal/auth"
	"blackjack-platform/backend/internal/blackjack"
	"blackjack-platform/backend/internal/catalog"
	"blackjack-platform/backend/internal/db"
	"blackjack-platform/backend/internal/locks"
	"blackjack-platform/backend/internal/middleware"
	"blackjack-platform/backend/internal/redis"
	"blackjack-platform/backend/internal/server/game"
	"blackjack-platform/backend/internal/server/handlers"
	ws "blackjack-platform/backend/internal/server/websocket"
	"blackjack-platform/backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Server holds all dependencies and configuration for the blackjack platform server
type Server struct {
	config Config
	db     *db.DB
	rdb    *redis.Client

	// Services
	authService *auth.Service
	catalog     *catalog.Service
	store       *store.Store
	hub         *ws.Hub
	coordinator *game.Coordinator

	// Rate limiting
	httpLimiter   *middleware.RateLimiter
	actionLimiter *middleware.SocketActionLimiter

	// WebSocket upgrader
	upgrader websocket.Upgrader
}

// NewServer creates and initializes a new Server instance
func NewServer(config Config) (*Server, error) {
	// Initialize database
	database, err := db.New(config.DBConfig)
	if err != nil {
		return nil, err
	}

	// Initialize Redis and the lock-backed session store
	rdb, err := redis.New(config.RedisConfig)
	if err != nil {
		return nil, err
	}
	lockManager := locks.NewManager(rdb)
	sessionStore := store.New(rdb, lockManager, config.Rules)

	// Initialize services
	authSvc := auth.NewService(config.JWTSecret)
	catalogSvc := catalog.NewService(database.DB)
	hub := ws.NewHub()
	coordinator := game.NewCoordinator(sessionStore, hub, catalogSvc, blackjack.NewShoe(), config.Rules)

	server := &Server{
		config:        config,
		db:            database,
		rdb:           rdb,
		authService:   authSvc,
		catalog:       catalogSvc,
		store:         sessionStore,
		hub:           hub,
		coordinator:   coordinator,
		httpLimiter:   middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig),
		actionLimiter: middleware.NewSocketActionLimiter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	return server, nil
}

// Run starts the server and blocks until it exits
func (s *Server) Run() error {
	// Set Gin mode based on environment
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := s.setupRoutes()

	log.Printf("Server starting on port %s", s.config.ServerPort)
	return r.Run(":" + s.config.ServerPort)
}

// Close releases the server's external connections.
func (s *Server) Close() {
	s.httpLimiter.Stop()
	if err := s.rdb.Close(); err != nil {
		log.Printf("[REDIS] Error closing connection: %v", err)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *gin.Engine {
	r := gin.Default()

	// Configure CORS
	corsConfig := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true // Allow all origins
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400 * time.Second,
	}
	r.Use(cors.New(corsConfig))
	r.Use(s.httpLimiter.GinMiddleware())

	// Public routes
	r.POST("/api/auth/register", func(c *gin.Context) {
		handlers.HandleRegister(c, s.db, s.authService)
	})
	r.POST("/api/auth/login", func(c *gin.Context) {
		handlers.HandleLogin(c, s.db, s.authService)
	})

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(handlers.AuthMiddleware(s.authService))
	{
		authorized.GET("/api/user", func(c *gin.Context) {
			handlers.HandleGetCurrentUser(c, s.db)
		})
		authorized.GET("/api/games", func(c *gin.Context) {
			handlers.HandleListSessions(c, s.catalog, s.config.Rules.MaxSeats)
		})
		authorized.POST("/api/games", func(c *gin.Context) {
			handlers.HandleCreateSession(c, s.catalog)
		})
	}

	// WebSocket endpoints (handle auth internally via query token)
	r.GET("/ws/lobby", s.handleLobbySocket)
	r.GET("/ws/game/:url", s.handleGameSocket)

	return r
}
