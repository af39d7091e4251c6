package main

import (
	"context"
	"embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/calendar"
	"github.com/riaddisiena/backend/config"
	redisclient "github.com/riaddisiena/backend/config/redis"
	"github.com/riaddisiena/backend/controllers/booking_controller"
	"github.com/riaddisiena/backend/controllers/chat_controller"
	"github.com/riaddisiena/backend/controllers/content_controller"
	"github.com/riaddisiena/backend/controllers/legal_controller"
	"github.com/riaddisiena/backend/logger"
	middleware "github.com/riaddisiena/backend/middlewares"
	"github.com/riaddisiena/backend/middlewares/cors"
	"github.com/riaddisiena/backend/nexus"
	"github.com/riaddisiena/backend/routes"
	"github.com/riaddisiena/backend/store"
	"github.com/riaddisiena/backend/utils/mail"
)

//go:embed templates/email/*
var embeddedEmailTemplates embed.FS

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	ctx := context.Background()

	sheetStore, err := store.NewClient(ctx)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to initialize sheet store: %v", err)
		os.Exit(1)
	}
	logger.InfoLogger.Info("Connected to the content spreadsheet")

	mail.InitTemplates(embeddedEmailTemplates)
	logger.InfoLogger.Info("Email templates initialized")

	nexusClient := nexus.New(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())
	r.Use(middleware.RequestID())

	bookingController := booking_controller.NewBookingController(sheetStore, mail.NewSMTPSender(), calendar.New())
	contentController := content_controller.NewContentController(sheetStore)
	legalController := legal_controller.NewLegalController(nexusClient)
	chatController := chat_controller.NewChatController(sheetStore)

	routes.RegisterBookingRoutes(r, bookingController)
	routes.RegisterContentRoutes(r, contentController)
	routes.RegisterLegalRoutes(r, legalController)
	routes.RegisterChatRoutes(r, chatController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok from riad backend"})
	})

	port := config.GetEnv("PORT", "8081")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.InfoLogger.Infof("Listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorLogger.Errorf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.InfoLogger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Errorf("Forced shutdown: %v", err)
	}
	redisclient.CloseRedis()
}
