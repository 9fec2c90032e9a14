package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antisocial-hq/antisocial/internal/auth"
	"github.com/antisocial-hq/antisocial/internal/cache"
	"github.com/antisocial-hq/antisocial/internal/config"
	"github.com/antisocial-hq/antisocial/internal/database"
	"github.com/antisocial-hq/antisocial/internal/feed"
	"github.com/antisocial-hq/antisocial/internal/handlers"
	"github.com/antisocial-hq/antisocial/internal/logger"
	"github.com/antisocial-hq/antisocial/internal/middleware"
	"github.com/antisocial-hq/antisocial/internal/social"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== AntiSocial server starting ===")

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs the rate limiter. The server still runs without it.
	redisClient, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled")
	} else {
		defer redisClient.Close()
	}

	// Services
	authService := auth.NewService([]byte(cfg.JWTSecret), cfg.JWTExpiry)
	feedService := feed.NewService(database.DB, cfg.FeedIncludeSelf)
	socialService := social.NewService(database.DB)

	h := handlers.NewHandlers(authService, feedService, socialService)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := database.Health(); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "antisocial-backend",
		})
	})

	requireAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.AuthOptional(authService)

	// API routes
	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimitMiddleware(300, time.Minute))
	{
		// Authentication routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", requireAuth, h.Me)
		}

		// Feed routes. The feed is always personalized, so every scope needs auth.
		feedGroup := api.Group("/feed")
		{
			feedGroup.GET("", requireAuth, h.GetFeed)
			feedGroup.GET("/new-count", requireAuth, h.GetNewPostsCount)
		}

		// Post routes
		posts := api.Group("/posts")
		{
			posts.POST("", requireAuth, h.CreatePost)
			posts.GET("/:id", optionalAuth, h.GetPost)
			posts.GET("/:id/comments", optionalAuth, h.GetComments)
			posts.POST("/:id/comments", requireAuth, h.CreateComment)
			posts.POST("/:id/reactions", requireAuth, h.TogglePostReaction)
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			comments.POST("/:id/reactions", requireAuth, h.ToggleCommentReaction)
		}

		// User routes
		users := api.Group("/users")
		{
			users.GET("/:id/profile", optionalAuth, h.GetUserProfile)
			users.GET("/:id/posts", requireAuth, h.GetUserPosts)
			users.GET("/:id/followers", optionalAuth, h.GetFollowers)
			users.GET("/:id/following", optionalAuth, h.GetFollowing)
			users.POST("/:id/follow", requireAuth, h.ToggleFollow)
			users.DELETE("/:id/follow", requireAuth, h.Unfollow)
		}

		// Search routes
		api.GET("/search", optionalAuth, h.Search)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("AntiSocial backend starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited")
}
