package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discogsapi/config"
	"discogsapi/core/auth"
	"discogsapi/db"
	"discogsapi/docs"
	"discogsapi/logger"
	"discogsapi/repository"
)

// Start connects the dependencies, serves HTTP until SIGINT/SIGTERM and then
// shuts down gracefully.
func Start(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	health := map[string]Pinger{"database": db.GormPinger{DB: gdb}}
	if cfg.RedisEnabled() {
		redisClient, err := db.ConnectRedis(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		health["redis"] = db.RedisPinger{Client: redisClient}
		logger.Info("connected to Redis", logger.String("addr", cfg.RedisAddr()))
	}

	apiDocs, err := docs.Load(cfg.DocsServerURL)
	if err != nil {
		return err
	}

	handler := NewRouter(RouterDeps{
		Tracks:       repository.NewGormTrackRepository(gdb),
		Validator:    auth.NewValidator(cfg.AuthUsername, cfg.AuthPassword, cfg.AuthPasswordHash),
		Docs:         apiDocs,
		Health:       health,
		PublicTracks: cfg.PublicTracksEnabled,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			logger.String("addr", cfg.HTTPAddr),
			logger.Bool("publicTracks", cfg.PublicTracksEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down server", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
