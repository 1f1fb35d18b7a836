// cmd/tangentd/main.go: HTTP server for the tangent finder.
//
// Usage:
//
//	go run ./cmd/tangentd -addr :8080 -budget 10s -max-body 1MiB
//
// Every flag can also be set with a TANGENT_* environment variable
// (TANGENT_ADDR, TANGENT_BUDGET, ...).
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

	"golang.org/x/sync/errgroup"

	tangent "github.com/njchilds90/gotangent"
	"github.com/njchilds90/gotangent/internal/api"
	"github.com/njchilds90/gotangent/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tangentd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args, os.Getenv)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	s := &api.Server{
		Finder:         &tangent.Finder{Threshold: cfg.Threshold, Trace: cfg.LogLevel <= slog.LevelDebug, Logger: logger},
		Budget:         cfg.Budget,
		MaxBody:        cfg.MaxBody,
		TrustForwarded: cfg.TrustForwarded,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	}
	if cfg.RateLimit > 0 {
		s.Limiter = api.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Budget + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("tangentd listening", "config", cfg)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Budget+5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
