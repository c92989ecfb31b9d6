package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modelreports/internal/app"
	"modelreports/internal/config"
	"modelreports/internal/handlers"
	"modelreports/internal/logger"
	"modelreports/internal/metrics"
	"modelreports/internal/services"
)

func main() {
	c, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sugar, err := logger.NewLogger(c.LogLevel, c.LogFile)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.SelectStorage(ctx, c, sugar)
	if err != nil {
		sugar.Errorw("storage init failed", "error", err)
		return
	}

	reports := services.NewReportService(c, store, sugar)
	controller := handlers.NewController(c, reports, sugar, metrics.New())
	server := app.CreateServer(c, app.NewRouter(c, controller), sugar)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("server shutdown", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("Failed to start server", "error", err)
	}
}
