package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/tomasvoj/taskboard/internal/config"
	"github.com/tomasvoj/taskboard/internal/logging"
	"github.com/tomasvoj/taskboard/internal/notify"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Worker error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting worker",
		"env", cfg.Server.Env,
		"queue", cfg.Queue.Name,
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	queue := notify.NewQueue(redisClient, cfg.Queue.Name)
	sender := notify.NewEmailSender(logger)
	worker := notify.NewWorker(queue, sender, logger, cfg.Queue.JobTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return worker.Run(ctx)
}
