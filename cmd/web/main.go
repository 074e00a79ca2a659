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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/viannadoces/doceria-web/internal/auth"
	"github.com/viannadoces/doceria-web/internal/backend"
	"github.com/viannadoces/doceria-web/internal/contracts"
	"github.com/viannadoces/doceria-web/internal/orders"
	"github.com/viannadoces/doceria-web/internal/reports"
	"github.com/viannadoces/doceria-web/pkg/config"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/pkg/metrics"
	redisclient "github.com/viannadoces/doceria-web/pkg/redis"
	"github.com/viannadoces/doceria-web/pkg/session"
	"github.com/viannadoces/doceria-web/web/render"
	"github.com/viannadoces/doceria-web/web/routes"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "web"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "web",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	redisClient, err := redisclient.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	apiClient, err := backend.NewClient(cfg.Backend)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	renderer, err := render.New(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to parse templates", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Renderer:    renderer,
		Sessions:    sessionManager,
		Redis:       redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:        auth.NewService(apiClient, sessionManager, logg),
		Orders:      orders.NewService(apiClient, logg),
		Contracts:   contracts.NewService(apiClient, redisClient, redisclient.IsNil, cfg.Contracts, logg),
		Reports:     reports.NewService(apiClient, logg),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting web server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "web server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
	}
}
