package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josephfleury/technical-challenge/internal/app"
	"github.com/josephfleury/technical-challenge/internal/config"
	"github.com/josephfleury/technical-challenge/internal/logger"
)

func main() {
	os.Exit(run())
}

// run returns the process exit status: 1 if any request crashed or the
// server could not start, 0 otherwise.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Error("invalid configuration", map[string]any{
			"error": err.Error(),
		})
		return 1
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
		return 1
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- application.Run()
	}()

	logger.Info("solver gateway started", map[string]any{
		"port":         cfg.AppPort,
		"monitor_port": cfg.MonitorPort,
	})

	// nil blocks forever, so crashes only stop the server when asked to
	var crashed <-chan struct{}
	if cfg.ExitOnCrash {
		crashed = application.Outcomes().Crashed()
	}

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	case <-crashed:
		logger.Error("request crashed, shutting down", nil)
	case err := <-runErr:
		if err != nil {
			logger.Error("http server failed", map[string]any{
				"error": err.Error(),
			})
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	summary := application.Outcomes().Snapshot()
	logger.Info("solver gateway stopped", map[string]any{
		"succeeded": summary.Succeeded,
		"rejected":  summary.Rejected,
		"failed":    summary.Failed,
		"crashed":   summary.Crashed,
	})

	if summary.ExitCode() != 0 {
		logger.Error("application crashed, exiting non-zero", nil)
		return summary.ExitCode()
	}
	return exitCode
}
