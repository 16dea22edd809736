package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/meetpoint/internal/config"
	"github.com/dropDatabas3/meetpoint/internal/http/server"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

func main() {
	// .env es opcional; el entorno del sistema manda.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Init(logger.Config{Env: "dev", ServiceName: "meetpoint"})
		logger.L().Fatal("config load failed", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "meetpoint",
		Version:     os.Getenv("SERVICE_VERSION"),
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx := context.Background()
	handler, cleanup, err := server.BuildHandler(ctx, cfg)
	if err != nil {
		log.Fatal("wiring failed", logger.Err(err))
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn("cleanup error", logger.Err(err))
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout, 30*time.Second),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("addr", cfg.Server.Addr), logger.String("env", cfg.App.Env))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", logger.Err(err))
		}
	case sig := <-stop:
		log.Info("shutting down", logger.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown error", logger.Err(err))
		}
	}
}
