package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sangkips/hotelpos-api/internal/config"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/cache"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/database"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/internal/tasks"
)

// The worker runs the asynq server and the periodic maintenance scheduler.
func main() {
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rdb, err := cache.ConnectRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() { _ = rdb.Close() }()

	processor := tasks.NewProcessor(
		repository.NewIdempotencyRepository(db),
		cache.NewSettingsCache(rdb, cfg.Redis.SettingsTTL),
	)

	redisOpt := tasks.RedisOpt(&cfg.Redis)
	server := tasks.NewServer(redisOpt, &cfg.Queue)
	scheduler, err := tasks.NewScheduler(redisOpt, &cfg.Queue)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	if err := server.Start(tasks.NewServeMux(processor)); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	log.Printf("Worker started with concurrency %d", cfg.Queue.Concurrency)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	scheduler.Shutdown()
	server.Shutdown()
}
