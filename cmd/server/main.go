package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/models"
	"blogapi/internal/server"
	"blogapi/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer database.Close()

	blobs, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer blobs.Close()

	srv := server.New(models.NewStore(database), blobs, logger, server.Config{MaxUploadBytes: cfg.MaxUploadBytes})
	go srv.Sweep(ctx, cfg.SweepInterval)

	httpServer := &http.Server{Addr: cfg.Addr(), Handler: srv}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr(), "storage", cfg.StorageDriver)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openStorage(cfg config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverBolt:
		return storage.NewBolt(cfg.StorageBoltPath)
	default:
		return storage.NewLocal(cfg.StorageDir)
	}
}
