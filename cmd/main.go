package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/edusmart-backend/internal/app"
	"github.com/yungbote/edusmart-backend/internal/observability"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	shutdownOTel := observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: a.Cfg.TraceServiceName,
		Environment: a.Cfg.Environment,
		Version:     os.Getenv("APP_VERSION"),
	})
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(flushCtx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}()

	if err := a.Run(ctx, ":"+a.Cfg.Port); err != nil {
		a.Log.Error("Server failed", "error", err)
		return
	}
	a.Log.Info("Server stopped")
}
