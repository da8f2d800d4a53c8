package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"content-hub/internal/config"
	"content-hub/internal/db"
	"content-hub/internal/logger"
	"content-hub/internal/worker"
	"content-hub/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New("content-worker", cfg.LogLevel, cfg.LogFormat)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			RetryDelayFunc: retryDelay(log),
			Logger:         log,
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(db.NewLeadStore(database), log)
	mux.HandleFunc(tasks.TypeCaptureLead, taskHandler.HandleCaptureLeadTask)

	log.WithField("commit", CommitSHA).Info("Worker starting")
	if err := srv.Run(mux); err != nil {
		return fmt.Errorf("could not run worker: %w", err)
	}
	return nil
}

// retryDelay doubles from 30s per attempt, capped at one hour.
func retryDelay(log *logrus.Logger) asynq.RetryDelayFunc {
	return func(n int, err error, task *asynq.Task) time.Duration {
		delay := 30 * time.Second
		maxDelay := time.Hour
		for i := 0; i < n; i++ {
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
				break
			}
		}

		log.WithError(err).WithFields(logrus.Fields{
			"task":    task.Type(),
			"attempt": n + 1,
			"delay":   delay,
		}).Warn("Task failed, retrying")
		return delay
	}
}
