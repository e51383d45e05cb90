package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/af-corp/llm-router/internal/auth"
	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/gateway"
	"github.com/af-corp/llm-router/internal/ratelimit"
	"github.com/af-corp/llm-router/internal/router"
	"github.com/af-corp/llm-router/internal/telemetry"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config/providers.yaml", "path to the providers configuration file")
	flag.Parse()

	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load configuration
	loader := config.NewLoader(*configPath, bootLogger)
	if err := loader.Load(); err != nil {
		bootLogger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := loader.Config()

	logger := telemetry.NewLogger(os.Stdout, cfg.Telemetry)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loader.Watch(ctx); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	// Build routing table and adapters
	rt, err := router.BuildFromConfig(cfg)
	if err != nil {
		var dup *router.DuplicateModelNameError
		if errors.As(err, &dup) {
			logger.Error("duplicate model name in configuration",
				"name", dup.Name, "first_provider", dup.First, "second_provider", dup.Second)
		} else {
			logger.Error("failed to build router", "error", err)
		}
		os.Exit(1)
	}
	for _, name := range cfg.Providers.Names() {
		p, _ := cfg.Providers.Get(name)
		if p.Enabled && p.MaxRetries > 0 {
			logger.Info("max_retries is accepted but requests are not retried", "provider", name, "max_retries", p.MaxRetries)
		}
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	handler := gateway.NewHandler(rt, metrics)

	var keyStore auth.KeyStore
	if len(cfg.Server.APIKeys) > 0 {
		store := auth.NewStaticKeyStore(cfg.Server.APIKeys)
		logger.Info("api key authentication enabled", "keys", store.Len())
		keyStore = store
	}

	// Connect to Redis
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable (rate limiting disabled)", "error", err)
			rdb.Close()
		} else {
			logger.Info("redis connected", "addr", cfg.RateLimit.RedisAddr)
			defer rdb.Close()
			limiter = ratelimit.NewLimiter(rdb)
		}
	}

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(gateway.RequestID)

	r.Get("/health", handler.Health)
	r.Get("/v1/models", handler.ListModels)
	r.Get("/v1/models/all", handler.ListAllModels)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(keyStore))
		if limiter != nil {
			r.Use(ratelimit.Middleware(limiter, cfg.RateLimit.RequestsPerMinute, metrics))
		}
		r.Post("/v1/chat/completions", handler.ChatCompletions)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var metricsSrv *http.Server
	if cfg.Telemetry.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Telemetry.MetricsPort),
			Handler: mux,
		}
		go func() {
			logger.Info("metrics listening", "addr", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("router starting",
			"addr", addr,
			"version", version,
			"providers", cfg.Providers.Len(),
			"models", len(rt.ListModels()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if metricsSrv != nil {
		metricsSrv.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("router stopped")
}
