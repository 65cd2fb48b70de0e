package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storerating-backend/config"
	"github.com/ikkim/storerating-backend/internal/app"
	"github.com/ikkim/storerating-backend/internal/app/service"
	"github.com/ikkim/storerating-backend/internal/db"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"github.com/ikkim/storerating-backend/pkg/rabbitmq"
	"github.com/ikkim/storerating-backend/pkg/redis"
	"github.com/ikkim/storerating-backend/pkg/util"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting store rating server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
	})

	// Initialize database
	conn, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	hasher := util.NewPasswordHasher(cfg.Security.BcryptCost)

	created, err := db.SeedDefaultAdmin(conn, cfg.Admin, hasher)
	if err != nil {
		logger.Fatal("Failed to seed default admin", err)
	}
	if created {
		logger.Info("Default admin account created", map[string]interface{}{
			"email": cfg.Admin.Email,
		})
	}

	deps := app.Dependencies{
		Config: cfg,
		DB:     conn,
		Hasher: hasher,
	}

	// Token revocation (optional)
	if cfg.Redis.Enabled {
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		tokens := redis.NewTokenStore(client)
		defer tokens.Close()
		deps.Revoker = tokens
	} else {
		logger.Warn("Redis disabled, logout will not revoke tokens", nil)
	}

	// Rating events (optional)
	if cfg.AMQP.URL != "" {
		publisher, err := rabbitmq.NewPublisher(rabbitmq.Config{
			URL:   cfg.AMQP.URL,
			Queue: cfg.AMQP.Queue,
		})
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", err)
		}
		defer publisher.Close()
		deps.Events = service.NewQueueRatingPublisher(publisher)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           app.NewEngine(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
		return
	}

	logger.Info("Server stopped successfully")
}
