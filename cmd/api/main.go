package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"nesswear/internal/config"
	"nesswear/internal/database"
	"nesswear/internal/logger"
	"nesswear/internal/server"
	"nesswear/migrations"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// In-flight requests get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

// connectBackends opens the connections the configuration asks for. The
// database is only needed by the postgres session backend.
func connectBackends(cfg *config.Config, log *zap.Logger) server.Backends {
	var backends server.Backends

	if cfg.Session.Backend == "postgres" {
		dbService, err := database.New(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		log.Info("Database health check", zap.Any("health", dbService.Health()))

		if err := database.RunMigrations(dbService.DB(), migrations.FS, log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		log.Info("Database migrations completed successfully")
		backends.DB = dbService.DB()
	}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil && cfg.Session.Backend == "redis" {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		if err != nil {
			// The rate limiter lets requests through while redis is away
			log.Warn("Redis unreachable at startup", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		backends.Redis = client
	}

	return backends
}

func main() {
	// The catalog API and the storefront both expect bare JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront gateway",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	srv, err := server.NewServer(cfg, log, connectBackends(cfg, log))
	if err != nil {
		log.Fatal("Failed to configure server", zap.Error(err))
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
