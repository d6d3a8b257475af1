package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"inventory-api/internal/config"
	"inventory-api/internal/events"
	"inventory-api/internal/handlers"
	"inventory-api/internal/middleware"
	"inventory-api/internal/models"
	"inventory-api/internal/repository"
	"inventory-api/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.Company{},
		&models.Warehouse{},
		&models.Supplier{},
		&models.Product{},
		&models.Inventory{},
		&models.StockMovement{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client (optional - alert caching degrades gracefully)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Invalid REDIS_URL: %v", err)
			log.Println("Continuing without alert caching...")
		} else {
			redisClient = redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("Warning: Failed to connect to Redis: %v", err)
				log.Println("Continuing without alert caching...")
				redisClient = nil
			} else {
				log.Println("✓ Connected to Redis for alert caching")
			}
			cancel()
		}
	} else {
		log.Println("REDIS_URL not configured, alert caching disabled")
	}

	// Initialize NATS event publisher (optional - graceful degradation if NATS unavailable)
	var eventPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("✓ Connected to NATS JetStream for event publishing")
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	// Initialize repository and services
	inventoryRepo := repository.NewInventoryRepository(db, redisClient)
	productService := services.NewProductService(inventoryRepo, logger)
	movementService := services.NewMovementService(inventoryRepo, logger)
	alertService := services.NewAlertService(inventoryRepo, eventPublisher, logger)

	// Initialize handlers
	inventoryHandler := handlers.NewInventoryHandler(inventoryRepo, productService, movementService, alertService, cfg.DefaultPageSize, cfg.MaxPageSize)
	healthHandler := handlers.NewHealthHandler(db, inventoryRepo)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// Health check endpoints
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.HealthCheck)

	api := router.Group("/api/v1")

	// Company routes
	companies := api.Group("/companies")
	{
		companies.POST("", inventoryHandler.CreateCompany)
		companies.GET("/:companyId", inventoryHandler.GetCompany)

		// Warehouse routes
		warehouses := companies.Group("/:companyId/warehouses")
		{
			warehouses.POST("", inventoryHandler.CreateWarehouse)
			warehouses.GET("", inventoryHandler.ListWarehouses)
			warehouses.GET("/:id", inventoryHandler.GetWarehouse)
			warehouses.PUT("/:id", inventoryHandler.UpdateWarehouse)
			warehouses.DELETE("/:id", inventoryHandler.DeleteWarehouse)
		}

		// Supplier routes
		suppliers := companies.Group("/:companyId/suppliers")
		{
			suppliers.POST("", inventoryHandler.CreateSupplier)
			suppliers.GET("", inventoryHandler.ListSuppliers)
			suppliers.GET("/:id", inventoryHandler.GetSupplier)
			suppliers.PUT("/:id", inventoryHandler.UpdateSupplier)
			suppliers.DELETE("/:id", inventoryHandler.DeleteSupplier)
		}

		// Product routes
		products := companies.Group("/:companyId/products")
		{
			products.POST("", inventoryHandler.CreateProduct)
			products.GET("", inventoryHandler.ListProducts)
			products.GET("/:id", inventoryHandler.GetProduct)
			products.PUT("/:id", inventoryHandler.UpdateProduct)
			products.DELETE("/:id", inventoryHandler.DeleteProduct)
		}

		// Stock level routes
		companies.GET("/:companyId/stock", inventoryHandler.ListStock)

		// Movement log routes
		companies.GET("/:companyId/inventory/movements", inventoryHandler.ListMovements)

		// Low-stock alert routes
		companies.GET("/:companyId/alerts/low-stock", inventoryHandler.GetLowStockAlerts)
	}

	// Movement append endpoint (company scoped via request body)
	api.POST("/inventory/log", inventoryHandler.LogMovement)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Inventory API starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down inventory-api...")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	log.Println("Inventory API stopped")
}
