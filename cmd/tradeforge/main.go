package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradeforge-dashboard/internal/cfg"
	"tradeforge-dashboard/internal/dashboard"
	"tradeforge-dashboard/internal/gateway"
	"tradeforge-dashboard/internal/metrics"
	"tradeforge-dashboard/internal/stats"
	"tradeforge-dashboard/internal/synchronizer"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setupLogging(c)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	client := gateway.NewREST(c.BaseURL, c.RESTTimeout)
	client.SetMetrics(mw)

	syncer := synchronizer.New(client, c.DefaultPortfolioValue, c.PollInterval)
	syncer.SetMetrics(mw)

	formatter := stats.NewFormatter(c.Locale, c.CurrencySymbol)
	dash := dashboard.New(syncer, formatter, c.DefaultPortfolioValue, c.DashboardPort)
	dash.SetMetrics(mw)

	if err := dash.Start(); err != nil {
		log.Fatal().Err(err).Msg("dashboard start failed")
	}
	if err := syncer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("synchronizer start failed")
	}

	log.Info().
		Str("agent", c.BaseURL).
		Dur("poll_interval", c.PollInterval).
		Int("dashboard_port", c.DashboardPort).
		Int("metrics_port", c.MetricsPort).
		Msg("TradeForge dashboard running")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runMetricsServer(gctx, c, syncer)
	})
	g.Go(func() error {
		waitForShutdown(gctx, cancel)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server group exited with error")
	}

	log.Info().Msg("shutting down gracefully...")
	syncer.Stop()
	if err := dash.Stop(); err != nil {
		log.Warn().Err(err).Msg("dashboard shutdown incomplete")
	}
	log.Info().Msg("all components stopped")
}

func setupLogging(c cfg.Settings) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

// runMetricsServer serves Prometheus metrics and a liveness check until ctx
// is cancelled.
func runMetricsServer(ctx context.Context, c cfg.Settings, syncer *synchronizer.Synchronizer) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if syncer.Snapshot().APIConnected {
			_, _ = w.Write([]byte("OK"))
			return
		}
		_, _ = w.Write([]byte("OK (agent disconnected)"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to shutdown metrics server")
		}
	}()

	log.Info().Str("address", server.Addr).Msg("Starting metrics server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// waitForShutdown blocks until a signal arrives or ctx ends, then cancels
// the root context.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}
	cancel()
}
