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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyhub/internal/app"
	"studyhub/internal/platform/config"
	"studyhub/internal/platform/httpserver"
	"studyhub/internal/platform/logger"
	"studyhub/internal/platform/middleware"
	httptransport "studyhub/internal/transport/http"
)

// main wires the process: configuration, backends, the HTTP server and
// graceful shutdown. Behavior lives in the internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("studyhub stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rt, err := app.Build(ctx, cfg, log, reg)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error("failed to release resources", "error", err)
		}
	}()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst, log,
		middleware.WithDisabled(cfg.RateLimit.Disabled))
	handler := httptransport.New(rt.App, log,
		httptransport.WithLoginLimiter(limiter),
		httptransport.WithSessionCookie(cfg.Session.TTL, !cfg.UsesDevSigningKey()),
	)
	router := httptransport.NewRouter(handler, httptransport.RouterConfig{
		Logger:   log,
		Sessions: rt.App.Sessions,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health:   rt.Health,
	})

	srv := httpserver.New(cfg.Server, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting studyhub", "addr", cfg.Server.Addr, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
