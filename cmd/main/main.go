package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"order-intake/internal/config"
	"order-intake/internal/intake/dispatch"
	"order-intake/internal/intake/handler"
	"order-intake/internal/intake/service"
	"order-intake/internal/metrics"
	"order-intake/internal/storage"
	serverhttp "order-intake/server/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewSQLiteStorage(ctx, cfg.DBPath, cfg.Matching.SupplierDefaults, logger.With().Str("component", "storage").Logger())
	if err != nil {
		logger.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open storage")
	}
	defer func() { _ = store.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	matcher := service.NewMatcher(cfg.Matching.ServiceThresholds(), m)
	parser := service.NewParser(matcher, cfg.Matching.ServiceStaffFood())
	sessions := dispatch.NewSessions(dispatch.Collaborators{
		Catalog:   store,
		Orders:    store,
		Suppliers: store,
	}, logger.With().Str("component", "board").Logger())

	h := handler.New(handler.Deps{
		Catalog:     store,
		Orders:      store,
		Parser:      parser,
		Sessions:    sessions,
		Recorder:    m,
		Logger:      logger,
		MaxUploadMB: cfg.MaxUploadMB,
	})
	r := serverhttp.NewRouter(cfg, logger, h, serverhttp.Observability{
		HTTP:    m,
		Metrics: m.Handler(),
		DB:      store,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().
		Str("addr", cfg.Addr()).
		Str("db", cfg.DBPath).
		Float64("threshold_long", cfg.Matching.Thresholds.Long).
		Float64("threshold_short", cfg.Matching.Thresholds.Short).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("bye")
}
