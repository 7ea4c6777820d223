package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"imovelhub/config"
	"imovelhub/middleware"
	"imovelhub/routes"
	"imovelhub/utils"
	"imovelhub/worker"
)

func main() {
	logger := log.New(os.Stdout, "IMOVELHUB: ", log.Ldate|log.Ltime|log.Lshortfile)

	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if err := utils.InitSentry(); err != nil {
		logger.Printf("Sentry init failed, continuing without error reporting: %v", err)
	}

	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := utils.InitRedis(); err != nil {
		logger.Printf("Redis init failed, continuing without cache: %v", err)
	}

	app := fiber.New()
	app.Use(middleware.CORS())

	// Expiration sweep for trial listings and plan associations
	expiryWorker := worker.NewExpiryWorker(config.DB, log.New(os.Stdout, "EXPIRY: ", log.LstdFlags))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go expiryWorker.Start(ctx)

	routes.SetupRoutes(app, config.DB)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
