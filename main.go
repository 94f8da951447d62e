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
	"time"

	"github.com/joho/godotenv"

	"github.com/wuroud/islamic-hub/config"
	"github.com/wuroud/islamic-hub/handler"
	"github.com/wuroud/islamic-hub/records"
	"github.com/wuroud/islamic-hub/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// resolveMode picks the database mode: the environment override when set,
// otherwise the persisted dbMode flag.
func resolveMode(cfg *config.Config, kv store.KV) (store.Mode, error) {
	if cfg.DBMode != "" {
		return store.ParseMode(cfg.DBMode)
	}
	return records.NewPreferences(kv).Mode()
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// The mode flag lives in local storage, so local storage is opened
	// first to read it.
	kv, err := store.NewKV(cfg.LocalStore, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	mode, err := resolveMode(cfg, kv)
	if err != nil {
		return fmt.Errorf("resolving db mode: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := store.Open(ctx, store.Options{
		Mode:         mode,
		KV:           kv,
		DataDir:      cfg.DataDir,
		Remote:       cfg.RemoteStore,
		RemoteDBPath: cfg.RemoteDBPath,
		RedisURL:     cfg.RedisURL,
		RedisPrefix:  cfg.RedisPrefix,
		Timeout:      cfg.RemoteTimeout,
		Mirror:       cfg.MirrorWrites,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			slog.Warn("closing store", "error", err)
		}
	}()

	db := records.New(stores.Backend, records.Options{Logger: logger})
	if cfg.Seed {
		if err := db.Init(ctx); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	h := handler.New(db, records.NewPreferences(stores.KV), handler.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "mode", db.Mode(),
			"local_store", cfg.LocalStore, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
