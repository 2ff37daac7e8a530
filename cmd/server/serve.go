package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procflow/internal/database"
	"procflow/internal/handlers"
	"procflow/internal/ratelimit"
	"procflow/internal/server"
	"procflow/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Migrates the schema, ensures a default admin exists and serves the API until SIGINT/SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, log := a.cfg, a.log

	if err := database.Migrate(a.db); err != nil {
		return err
	}
	if cfg.AdminPassword != "" {
		if err := a.svc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
	}

	shutdownTracing, err := tracing.Init(ctx, log, tracing.Config{
		Enabled:  cfg.TracingEnabled,
		Version:  Version,
		Endpoint: cfg.OTLPEndpoint,
		Insecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return err
	}

	// без REDIS_URL ограничение попыток входа выключено
	var throttle handlers.LoginThrottle
	if cfg.RedisURL != "" {
		limiter, err := ratelimit.New(cfg.RedisURL, cfg.LoginMaxAttempts, cfg.LoginWindow)
		if err != nil {
			return err
		}
		defer limiter.Close()
		throttle = limiter
	} else {
		log.Warn("REDIS_URL not set, login throttling disabled")
	}

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(cfg, server.Deps{
		Handler: handlers.New(a.svc, throttle, log),
		Users:   a.svc,
		Log:     log,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shCtx)
		if terr := shutdownTracing(shCtx); terr != nil {
			log.Warn("tracing shutdown failed", "error", terr)
		}
		return err
	})
	return g.Wait()
}
