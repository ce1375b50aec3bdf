package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/database/migrations"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/lock"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/router"
	"ms-eventplatform/internal/storage"
	qr "ms-eventplatform/internal/tickets/qr_generator"
	tickets "ms-eventplatform/internal/tickets/service"

	"github.com/go-redis/redis/v8"
)

func prepareSchema(ctx context.Context, cfg *config.Config, db *storage.DB, log *logger.Logger) error {
	if cfg.Database.MigrationsDir != "" && db.Dialect == storage.DialectPostgres {
		// The migrator closes the connection it was given, so it gets its own.
		migrationDB, err := storage.Open(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		runner := migrations.NewRunner(migrationDB.Bun, migrations.MigrateOptions{MigrationsDir: cfg.Database.MigrationsDir}, log)
		defer runner.Close()
		return runner.MigrateUp()
	}
	if !cfg.Database.AutoMigrate {
		log.Info("DATABASE", "AUTO_MIGRATE disabled, assuming schema exists")
		return nil
	}
	return storage.CreateSchema(ctx, db)
}

// connectRedis returns nil when Redis is not configured or unreachable; the service then
// verifies every token and relies on row locks alone for ticket scans.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Info("REDIS", "REDIS_ADDR not set, running without claims cache")
		return nil
	}
	client, err := auth.InitializeClaimsCache(ctx, cfg, log)
	if err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unavailable, continuing without it: %v", err))
		return nil
	}
	return client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Service: "event-platform", Dir: cfg.Log.Dir, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", "Starting Event Platform API initialization")
	ctx := context.Background()

	db, err := storage.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	if err := prepareSchema(ctx, cfg, db, log); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to prepare schema: %v", err))
	}

	var (
		claimsCache auth.ClaimsCache
		scanLock    tickets.Locker
	)
	if redisClient := connectRedis(ctx, cfg.Redis, log); redisClient != nil {
		defer redisClient.Close()
		claimsCache = auth.NewRedisClaimsCache(redisClient)
		scanLock = lock.NewRedisLock(redisClient, "ticket_scan", log)
	}

	gate, err := auth.NewGate(cfg.Auth, claimsCache, log)
	if err != nil {
		log.Fatal("AUTH", fmt.Sprintf("Failed to build auth gate: %v", err))
	}

	var publisher kafka.Publisher = kafka.LogPublisher{Logger: log}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, log)
		defer producer.Close()
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, producer.Topics(), log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		publisher = producer
	} else {
		log.Info("KAFKA", "KAFKA_BROKERS not set, domain events will only be logged")
	}

	handler := router.New(router.Deps{
		Config:    cfg,
		DB:        db,
		Gate:      gate,
		Publisher: publisher,
		QR:        qr.NewQRGenerator(cfg.Tickets.QRSecret),
		Locker:    scanLock,
		Logger:    log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Event Platform API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "Event Platform API shutdown complete")
	}
}
