package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelac/config"
	"hotelac/internal/api"
	"hotelac/internal/journal"
	"hotelac/internal/logger"
	"hotelac/internal/scheduler"
)

func main() {
	logger.SetLevel(logger.InfoLevel)
	defer logger.Close()

	j, err := journal.Open("hotelac.db")
	if err != nil {
		logger.Error("failed to open journal: %v", err)
		os.Exit(1)
	}

	cfg := config.Default()
	sched := scheduler.New(cfg, j)

	// Real-time driving of tick(Δ) is the caller's responsibility
	// (spec.md §5) — this process schedules one simulated second per
	// wall-clock second.
	stopTicking := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sched.Tick(1)
			case <-stopTicking:
				return
			}
		}
	}()

	router := api.NewRouter(sched)
	srv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info("Server is running on port 8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	close(stopTicking)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown: %v", err)
	}
	logger.Info("Server exiting")
}
