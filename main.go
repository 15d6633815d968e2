// main.go
package main

import (
	"log"

	"booking-orders/cmd"
	"booking-orders/internal/data/repository"
	"booking-orders/internal/usecase"
	"booking-orders/internal/wire"
	"booking-orders/pkg/cache"
	"booking-orders/pkg/database"
	"booking-orders/pkg/gateway"
	"booking-orders/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to redis
	store, err := cache.NewRedisStore(config.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	logger.Info("Redis connected successfully")

	// Payment gateway client and webhook authenticator
	authenticator, err := gateway.NewAuthenticator(config.Gateway, logger)
	if err != nil {
		logger.Fatal("Failed to initialize webhook authenticator", zap.Error(err))
	}

	gatewayClient := gateway.NewClient(config.Gateway, logger)
	notifier := usecase.NewLogNotifier(logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, store, gatewayClient, authenticator, notifier, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
