package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/docs"
	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/onegreenvn/campaign-mailer-backend/internal/database"
	"github.com/onegreenvn/campaign-mailer-backend/internal/database/repository"
	"github.com/onegreenvn/campaign-mailer-backend/internal/handlers"
	"github.com/onegreenvn/campaign-mailer-backend/internal/middleware"
	"github.com/onegreenvn/campaign-mailer-backend/internal/router"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services/auth"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services/excel"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services/mailer"
	"github.com/onegreenvn/campaign-mailer-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Campaign Mailer API
// @version 1.0
// @description Email template, recipient and campaign dispatch API with campaign logs

// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter `Bearer ` followed by your JWT token (e.g. "Bearer <token>")

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Enter `ApiKey ` followed by the log ingestion key (e.g. "ApiKey <key>")

const sseHeartbeatInterval = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	docs.SwaggerInfo.BasePath = config.GetEnv("BASE_PATH", "/")

	configureLogging()

	if utils.InitSentry() {
		defer utils.FlushSentry()
	}

	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	templateRepo := repository.NewEmailTemplateRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	logRepo := repository.NewCampaignLogRepository(db)

	// Auth
	authConfig := config.GetAuthConfig()
	authService := auth.NewAuthService(userRepo, refreshTokenRepo, authConfig)
	if err := authService.CreateAdminUser(); err != nil {
		logrus.Warnf("Failed to create admin user: %v", err)
	} else {
		logrus.Info("Admin user check completed")
	}

	tokenCleanupService := auth.NewTokenCleanupService(refreshTokenRepo, authConfig.CleanupInterval)
	tokenCleanupService.Start()
	defer tokenCleanupService.Stop()

	// SSE hub shared by the log service (producer) and the log handler (subscribers)
	sseHub := services.NewSSEHub()
	stopHeartbeat := startHeartbeat(sseHub)
	defer stopHeartbeat()

	// RabbitMQ is optional: without a broker logs are only written through HTTP
	rabbitMQService, err := services.NewRabbitMQService(config.GetRabbitMQConfig())
	if err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ: %v", err)
		rabbitMQService = nil
	} else {
		logrus.Info("RabbitMQ service initialized")
		defer rabbitMQService.Close()
	}

	logService := services.NewCampaignLogService(logRepo, sseHub, rabbitMQService)
	if rabbitMQService != nil {
		if err := logService.StartRabbitMQConsumer(); err != nil {
			logrus.Warnf("Failed to start RabbitMQ log consumer: %v", err)
		} else {
			defer logService.StopRabbitMQConsumer()
		}
	}

	// One transport for the life of the process
	mailConfig := config.GetMailConfig()
	transport := mailer.NewSMTPTransport(mailConfig)
	defer transport.Close()

	campaignService := services.NewCampaignService(templateRepo, recipientRepo, logService, transport)
	if rabbitMQService != nil {
		campaignService.SetEventPublisher(rabbitMQService)
	}

	gin.SetMode(config.GetEnv("GIN_MODE", gin.ReleaseMode))
	r := router.SetupRouter(&router.Dependencies{
		AuthHandler:           handlers.NewAuthHandler(authService),
		EmailTemplateHandler:  handlers.NewEmailTemplateHandler(services.NewEmailTemplateService(templateRepo)),
		RecipientHandler:      handlers.NewRecipientHandler(services.NewRecipientService(recipientRepo)),
		CampaignHandler:       handlers.NewCampaignHandler(campaignService),
		CampaignLogHandler:    handlers.NewCampaignLogHandler(logService, excel.NewExcelService(), sseHub),
		APIKeyMiddleware:      middleware.NewAPIKeyMiddleware(authConfig.IngestAPIKey),
		BearerTokenMiddleware: middleware.NewBearerTokenMiddleware(authService),
		AllowedOrigins:        config.GetEnv("FRONTEND_URL", ""),
	})

	port := config.GetEnv("PORT", "4000")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// startHeartbeat keeps idle SSE connections open through proxies
func startHeartbeat(hub *services.SSEHub) func() {
	ticker := time.NewTicker(sseHeartbeatInterval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				hub.SendHeartbeat()
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
