package router

import (
	"strings"
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/internal/handlers"
	"github.com/onegreenvn/campaign-mailer-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the handlers and middleware the router mounts
type Dependencies struct {
	AuthHandler          *handlers.AuthHandler
	EmailTemplateHandler *handlers.EmailTemplateHandler
	RecipientHandler     *handlers.RecipientHandler
	CampaignHandler      *handlers.CampaignHandler
	CampaignLogHandler   *handlers.CampaignLogHandler

	APIKeyMiddleware      *middleware.APIKeyMiddleware
	BearerTokenMiddleware *middleware.BearerTokenMiddleware

	// AllowedOrigins is the comma separated FRONTEND_URL list; empty allows any origin
	AllowedOrigins string
}

// SetupRouter configures the Gin router with the public, auth and campaign routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
	r.GET("/health", health)

	api := r.Group("/v1")
	{
		api.GET("/health", health)

		auth := api.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/refresh", deps.AuthHandler.RefreshToken)
		}

		protected := api.Group("")
		protected.Use(deps.APIKeyMiddleware.APIKeyAuthMiddleware())
		protected.Use(deps.BearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			authProtected := protected.Group("/auth")
			{
				authProtected.POST("/logout", deps.AuthHandler.Logout)
				authProtected.GET("/profile", deps.AuthHandler.GetProfile)
				authProtected.POST("/change-password", deps.AuthHandler.ChangePassword)
			}

			emails := protected.Group("/emails")
			{
				emails.GET("", deps.EmailTemplateHandler.ListTemplates)
				emails.POST("", deps.EmailTemplateHandler.CreateTemplate)
				emails.POST("/send", deps.CampaignHandler.SendCampaign)
				emails.GET("/:id", deps.EmailTemplateHandler.GetTemplate)
				emails.PUT("/:id", deps.EmailTemplateHandler.UpdateTemplate)
				emails.DELETE("/:id", deps.EmailTemplateHandler.DeleteTemplate)
			}

			recipients := protected.Group("/recipients")
			{
				recipients.GET("", deps.RecipientHandler.ListRecipients)
				recipients.POST("", deps.RecipientHandler.CreateRecipient)
				recipients.GET("/:id", deps.RecipientHandler.GetRecipient)
				recipients.PUT("/:id", deps.RecipientHandler.UpdateRecipient)
				recipients.DELETE("/:id", deps.RecipientHandler.DeleteRecipient)
			}

			logs := protected.Group("/logs")
			{
				logs.GET("", deps.CampaignLogHandler.ListLogs)
				logs.POST("", deps.CampaignLogHandler.CreateLog)
				logs.GET("/stream", deps.CampaignLogHandler.StreamLogs)
				logs.GET("/:id", deps.CampaignLogHandler.GetLog)
				logs.GET("/:id/export", deps.CampaignLogHandler.ExportLog)
			}
		}
	}

	return r
}

func corsConfig(allowedOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		// Credentials cannot be combined with a wildcard origin
		cfg.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
