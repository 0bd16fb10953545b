package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/medprep/medprep-backend/internal/config"
	"github.com/medprep/medprep-backend/internal/handler"
	"github.com/medprep/medprep-backend/internal/middleware"
	"github.com/medprep/medprep-backend/internal/response"
	"github.com/medprep/medprep-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Question *handler.QuestionHandler
	Attempt  *handler.AttemptHandler
	User     *handler.UserHandler
	Media    *handler.MediaHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	userService *service.UserService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Every response carries request id metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.Brotli())

	// Uploaded media is immutable per blob id, so cache for a year.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login (30 requests per minute per IP).
	loginLimiter := middleware.NewRateLimiter(30, time.Minute)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
	}

	// Public practice surface. Authentication is optional here: per-user
	// history and answered flags degrade to empty results for anonymous
	// callers instead of failing.
	api := router.Group("/api/v1")
	api.Use(middleware.Authenticate(authService))
	{
		api.GET("/categories", handlers.Category.List)
		api.GET("/categories/stats", handlers.Category.ListWithStats)
		api.GET("/categories/slug/:slug", handlers.Category.GetBySlug)
		api.GET("/categories/:id", handlers.Category.Get)

		api.GET("/questions", handlers.Question.ListActive)
		api.GET("/questions/:id", handlers.Question.GetWithAnswers)
		api.GET("/questions/:id/history", handlers.Attempt.History)
		api.GET("/questions/:id/stats", handlers.Attempt.QuestionStats)
		api.GET("/questions/:id/answered", handlers.Attempt.HasAnswered)
	}

	// Authenticated practice routes.
	authed := router.Group("/api/v1")
	authed.Use(middleware.RequireAuth(authService))
	{
		authed.POST("/questions/:id/submit", handlers.Attempt.Submit)
		authed.GET("/me", handlers.Auth.Me)
		authed.GET("/me/performance", handlers.Attempt.Performance)
	}

	// Admin surface. The role check reads the user record, not the token,
	// so a revoked admin loses access immediately.
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireAdmin(userService),
	)
	{
		adminAPI.POST("/categories", handlers.Category.Create)
		adminAPI.PUT("/categories/:id", handlers.Category.Update)
		adminAPI.DELETE("/categories/:id", handlers.Category.Delete)

		adminAPI.GET("/questions", handlers.Question.ListAll)
		adminAPI.POST("/questions", handlers.Question.Create)
		adminAPI.PUT("/questions/:id", handlers.Question.Update)
		adminAPI.PUT("/questions/:id/answers", handlers.Question.ReplaceAnswers)
		adminAPI.DELETE("/questions/:id", handlers.Question.Delete)

		// The :id segment is the user's external identity on the role and
		// metadata routes, and the row id on update/delete.
		adminAPI.GET("/users", handlers.User.List)
		adminAPI.GET("/users/admins", handlers.User.ListAdmins)
		adminAPI.POST("/users", handlers.User.Create)
		adminAPI.GET("/users/:id", handlers.User.Get)
		adminAPI.POST("/users/:id/roles", handlers.User.AddRole)
		adminAPI.DELETE("/users/:id/roles/:role", handlers.User.RemoveRole)
		adminAPI.PUT("/users/:id/metadata", handlers.User.UpdateMetadata)
		adminAPI.PUT("/users/:id", handlers.User.Update)
		adminAPI.DELETE("/users/:id", handlers.User.Delete)

		adminAPI.POST("/media", handlers.Media.Upload)
		adminAPI.GET("/media/:blob_id", handlers.Media.GetMetadata)
		adminAPI.DELETE("/media/:blob_id", handlers.Media.Delete)
	}

	return router
}
