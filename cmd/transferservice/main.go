// Package main starts the money transfer demonstration service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	app "github.com/bankapp/transfer_service/internal/app"
	"github.com/bankapp/transfer_service/internal/app/httpapi"
	"github.com/bankapp/transfer_service/internal/app/seed"
	"github.com/bankapp/transfer_service/internal/app/services/auth"
	"github.com/bankapp/transfer_service/internal/app/storage/memory"
	"github.com/bankapp/transfer_service/internal/config"
	"github.com/bankapp/transfer_service/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	log := logger.NewDefault("transferservice")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("configuration failed")
	}

	gateway, err := auth.NewGateway(&http.Client{Timeout: cfg.AuthTimeout}, cfg.AuthBaseURL, logger.NewDefault("auth"))
	if err != nil {
		log.WithError(err).Fatal("auth gateway setup failed")
	}

	store := memory.New()
	application := app.New(store, gateway, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SeedEnabled {
		if err := seed.Run(ctx, store, gateway, cfg.SeedClients, logger.NewDefault("seed")); err != nil {
			log.WithError(err).Fatal("seeding failed")
		}
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpapi.NewHandler(application),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed")
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown incomplete")
	}
	log.Info("stopped")
}
