// @title           inkpad API
// @version         1.0
// @description     Note storage backend with JWT authentication.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" then a space and your access token.
package main

import (
	"context"
	"log"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/inkpad/backend/internal/config"
	"github.com/inkpad/backend/internal/db"
	"github.com/inkpad/backend/internal/handler"
	"github.com/inkpad/backend/internal/service"
	"github.com/inkpad/backend/internal/token"
)

const tokenPurgeInterval = time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := db.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	codec := token.NewCodec(cfg.Auth.JWTSecret)
	authService := service.NewAuthService(store, codec)
	noteService := service.NewNoteService(store)

	var googleService *service.GoogleAuthService
	if cfg.Auth.GoogleClientID != "" {
		provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
		if err != nil {
			log.Fatalf("Failed to set up Google OIDC provider: %v", err)
		}
		verifier := provider.Verifier(&oidc.Config{ClientID: cfg.Auth.GoogleClientID})
		googleService = service.NewGoogleAuthService(store, authService, verifier)
		log.Println("Google login enabled")
	}

	go purgeExpiredTokens(ctx, store)

	router := gin.Default()
	if len(cfg.Server.AllowedOrigins) > 0 {
		router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins, true))
	}

	router.GET("/", handler.Root)
	router.GET("/health", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	authHandler := handler.NewAuthHandler(authService, googleService)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		if googleService != nil {
			auth.POST("/google", authHandler.GoogleLogin)
		}
	}

	noteHandler := handler.NewNoteHandler(noteService)
	notes := router.Group("/notes", handler.Authenticate(authService), handler.RequireAuth())
	{
		notes.POST("", noteHandler.Upsert)
		notes.GET("", noteHandler.List)
		notes.DELETE("/:id", noteHandler.Delete)
	}

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// purgeExpiredTokens drops refresh token records past their expiry. The auth
// flow never trusts a stale record anyway; this just keeps the table small.
func purgeExpiredTokens(ctx context.Context, store *db.Postgres) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()
	for range ticker.C {
		n, err := store.PurgeExpiredRefreshTokens(ctx)
		if err != nil {
			log.Printf("Failed to purge expired refresh tokens: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("Purged %d expired refresh tokens", n)
		}
	}
}
