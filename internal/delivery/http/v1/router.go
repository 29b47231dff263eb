package v1

import (
	"log/slog"
	"net/http"

	"contact-relay-backend/config"
	"contact-relay-backend/internal/delivery/http/middleware"
	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	Config    *config.Config
	Logger    *slog.Logger
}

// NewRouter builds the gin engine and wraps it in the CORS handler.
func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()

	// Global Middlewares
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		deps.Logger.Error("Panic recovered", "panic", recovered, "path", c.FullPath())
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		c.Abort()
	}))
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Logger))

	// Health Check
	r.GET("/health", HealthCheck)

	// Public routes
	public := r.Group("/api")
	NewContactHandler(public, deps.ContactUC)

	// Swagger
	if deps.Config.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return middleware.CORS(deps.Config.AllowedOrigins)(r)
}
