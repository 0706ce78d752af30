// Command worker consumes domain events from RabbitMQ and appends one
// line per event to the events log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/config"
	"github.com/iliyamo/museum-desk/internal/logger"
	"github.com/iliyamo/museum-desk/internal/queue"
)

func main() {
	cfg := config.LoadWorker()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: cfg.AMQPURL, LogPath: cfg.EventsLogPath, Log: log}
	log.Info("events worker started", zap.String("queue", queue.QueueName), zap.String("log_path", cfg.EventsLogPath))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("events worker", zap.Error(err))
	}
	log.Info("events worker stopped")
}
