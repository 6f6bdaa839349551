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

	"github.com/satriastudio/studio-be/internal/config"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/server"
	"github.com/satriastudio/studio-be/internal/storage"
	"github.com/satriastudio/studio-be/internal/storage/memory"
	"github.com/satriastudio/studio-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()
	logging.Init(config.AppName)
	log := logging.Logger

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	go func() {
		log.WithField("driver", cfg.StorageDriver).Infof("studio backend listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("graceful shutdown error")
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		logging.Logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return postgres.NewStore(connectCtx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		logging.Logger.Info("no .env file found; relying on existing environment")
	}
}
