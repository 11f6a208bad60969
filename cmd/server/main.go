package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dkoval/flagpole/internal/api"
	"github.com/dkoval/flagpole/internal/cache"
	"github.com/dkoval/flagpole/internal/config"
	"github.com/dkoval/flagpole/internal/evaluation"
	"github.com/dkoval/flagpole/internal/store"
	"github.com/dkoval/flagpole/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("create store")
	}
	defer st.Close()

	if pg, ok := st.(*store.PostgresStore); ok {
		if err := pg.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("database unreachable")
		}
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("migrate database")
		}
	}

	if cfg.CacheEnabled {
		st = cache.Wrap(st)
	}

	telemetry.Init()

	ev := evaluation.New(evaluation.AnonymousVariantPolicy(cfg.AnonVariant))
	srv := api.NewServer(st, ev, api.Options{
		AdminAPIKey:     cfg.AdminAPIKey,
		RateLimitPerIP:  cfg.RateLimitPerIP,
		RateLimitPerKey: cfg.RateLimitPerKey,
		Logger:          logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.AppEnv == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}
