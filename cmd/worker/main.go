package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journeylink_app/internal/config"
	"journeylink_app/internal/logging"
	"journeylink_app/internal/services"
	"journeylink_app/internal/tasks"
)

const tickInterval = 5 * time.Minute

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogFormat, cfg.LogLevel).With("component", "worker")

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL not set")
		os.Exit(1)
	}
	db, err := services.InitDB(cfg.DatabaseURL, false)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	prefs := services.NewPreferenceService(db)
	env := &tasks.Env{
		Store:    tasks.NewGormStore(db),
		Notifier: services.NewNotifier(prefs, services.NewEmailService(), services.NewWahaService()),
	}
	runner := tasks.NewRunner(env, tasks.GlobalRegistry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker started", "interval", tickInterval, "tasks", tasks.GlobalRegistry.Names())

	// Run once on start, then on every tick
	process(ctx, runner)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			process(ctx, runner)
		case <-ctx.Done():
			logger.Info("Shutting down worker")
			return
		}
	}
}

func process(ctx context.Context, runner *tasks.Runner) {
	ran, err := runner.ProcessDue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("Error processing pending tasks", "error", err)
		}
		return
	}
	if ran > 0 {
		slog.Info("Processed pending tasks", "count", ran)
	}
}
