// Command worker consumes task events from RabbitMQ and appends them to an
// audit log file.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/task-tracker-api/internal/config"
	"github.com/iliyamo/task-tracker-api/internal/logging"
	"github.com/iliyamo/task-tracker-api/internal/queue"
)

func main() {
	wc := config.LoadWorkerConfig()
	log := logging.New(wc.LogLevel, wc.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: wc.RabbitURL, LogPath: wc.LogPath, Log: log}
	log.WithField("queue", queue.TaskEventsQueue).Info("task-consumer: starting")
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("task-consumer: stopped")
	}
	log.Info("task-consumer: shut down")
}
