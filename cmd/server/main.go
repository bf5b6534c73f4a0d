package main

import (
	"log"
	"net/http"
	"time"

	"cafe180/internal/config"
	"cafe180/internal/handlers"
	"cafe180/internal/redis"
	"cafe180/internal/services"
	"cafe180/pkg/telegram"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, notifications will fail")
	}

	// Initialize Redis (optional, submission throttling only)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = redis.Initialize(cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
	}

	// Initialize Telegram client
	telegramClient := telegram.NewClient(cfg.TelegramBotToken)

	// Initialize services
	orderService := services.NewOrderService(services.DeliveryRules{
		MinOrder: cfg.DeliveryMinOrder,
		FreeFrom: cfg.DeliveryFreeFrom,
		Fee:      cfg.DeliveryFee,
	}, cfg.DefaultCity)
	telegramService := services.NewTelegramService(telegramClient, cfg.TelegramChatID)
	guard := services.NewSubmissionGuard(redisClient, time.Duration(cfg.ThrottleTTL)*time.Second)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService, telegramService, guard)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/order", orderHandler.SubmitOrder)
		api.POST("/support", orderHandler.SubmitSupport)
		api.POST("/callback", orderHandler.SubmitCallback)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	log.Printf("Server starting on port %s (profile %s)", cfg.ServerPort, cfg.AppProfile)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
