// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggofiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/auth"
	"github.com/peteoy/recipe-backend/internal/config"
	"github.com/peteoy/recipe-backend/internal/http/handlers"
	"github.com/peteoy/recipe-backend/internal/http/middleware"
	"github.com/peteoy/recipe-backend/internal/services"
)

// jsonBodyLimit caps request bodies on every endpoint except the image
// uploads, which carry multipart payloads up to the configured image cap.
const jsonBodyLimit = 1 << 20 // 1 MiB

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// public API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (upload-aware)
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and Security headers
//  9. Response compression
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. Built-ins already cover the
	// Authorization header and password/token query parameters.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Body size limit: 1 MiB for JSON, the image cap for uploads
	r.Use(limitBody(jsonBodyLimit, cfg.MaxImageBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 9) Compress responses (image bytes included)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Landing summary
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Recipe API",
			"docs":    "/swagger/index.html",
			"health":  "/health",
			"api":     cfg.APIBasePath,
		})
	})

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginswagger.WrapHandler(swaggofiles.Handler))
	}

	// Dependency injection: services ← repo/db
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	alloc := &services.AllocatorService{DB: db, AuthoredFloor: cfg.AuthoredIDFloor}
	rel := &services.RelationshipService{DB: db}
	userSvc := &services.UserService{DB: db, Allocator: alloc, BcryptCost: cfg.Auth.BcryptCost}
	recipeSvc := &services.RecipeService{DB: db, Allocator: alloc, Relationships: rel}
	authSvc := &services.AuthService{DB: db, Users: userSvc, Tokens: tokens}
	imageSvc := &services.ImageService{DB: db, MaxBytes: cfg.MaxImageBytes}
	h := handlers.New(authSvc, userSvc, recipeSvc, rel, imageSvc, cfg.APIBasePath)

	requireAuth := middleware.RequireAuth(tokens)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Auth
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/me", requireAuth, h.Me)

		// Users
		api.GET("/users", h.ListUsers)
		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)
		api.PUT("/users/:id", h.UpdateUser)
		api.DELETE("/users/:id", h.DeleteUser)
		api.POST("/users/:id/favorites", h.AddUserFavorite)
		api.POST("/users/:id/favorites/:recipeId", h.AddUserFavoriteByPath)
		api.DELETE("/users/:id/favorites/:recipeId", h.RemoveUserFavorite)

		// Recipes (catalog)
		api.GET("/recipes", h.ListRecipes)
		api.POST("/recipes", h.CreateRecipe)
		api.GET("/recipes/:id", h.GetRecipe)
		api.PUT("/recipes/:id", h.UpdateRecipe)
		api.DELETE("/recipes/:id", h.DeleteRecipe)

		// Authored recipes (token identity)
		api.GET("/user-recipes", requireAuth, h.ListUserRecipes)
		api.POST("/user-recipes", requireAuth, h.CreateUserRecipe)
		api.PUT("/user-recipes/:recipeId", requireAuth, h.UpdateUserRecipe)
		api.DELETE("/user-recipes/:recipeId", requireAuth, h.DeleteUserRecipe)

		// Favorites (token identity)
		api.GET("/favorites", requireAuth, h.ListFavorites)
		api.POST("/favorites/:recipeId", requireAuth, h.AddFavorite)
		api.DELETE("/favorites/:recipeId", requireAuth, h.RemoveFavorite)
		api.GET("/favorites/check/:recipeId", requireAuth, h.CheckFavorite)

		// Images
		api.GET("/gridfs-images", h.ListImages)
		api.POST("/gridfs-images/upload", h.UploadImage)
		api.POST("/gridfs-images/batch-upload", h.UploadImages)
		api.GET("/gridfs-images/:filename", h.ServeImage)
	}
}

// limitBody returns a Gin middleware that caps the request body size using
// http.MaxBytesReader. The image upload endpoints get uploadMax; everything
// else gets jsonMax.
func limitBody(jsonMax, uploadMax int64) gin.HandlerFunc {
	if uploadMax < jsonMax {
		uploadMax = jsonMax
	}
	return func(c *gin.Context) {
		limit := jsonMax
		if strings.Contains(c.Request.URL.Path, "/gridfs-images/") && strings.HasSuffix(c.Request.URL.Path, "upload") {
			limit = uploadMax
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
