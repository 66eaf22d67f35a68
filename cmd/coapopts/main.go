// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main provides the coapopts command: a CoAP option inspector that
// decodes datagrams into typed attributes, parses durations and classifies
// option numbers.
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

	"github.com/absmach/coapopts/pkg/attrs"
	"github.com/absmach/coapopts/pkg/config"
	"github.com/absmach/coapopts/pkg/health"
	"github.com/absmach/coapopts/pkg/metrics"
	"github.com/absmach/coapopts/pkg/parser/coap"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: coapopts <command> [arguments]

commands:
  decode <hex>...       decode CoAP datagrams given in hex
  stream                decode one hex datagram per line from stdin
  duration <text>...    parse durations such as "1h 30m" or "250ms"
  classify <number>...  show the properties of option numbers
  options               list the registered option definitions

configuration is read from COAPOPTS_* variables and an optional .env file`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// .env file is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)

	registry, err := cfg.Registry()
	if err != nil {
		logger.Error("Failed to build option registry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	promReg := prometheus.NewRegistry()
	m := metrics.New("coapopts", promReg)
	tr := attrs.New(attrs.Config{
		Registry: registry,
		Logger:   logger,
		Metrics:  m,
	})

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		parser:   coap.New(tr, m),
		in:       os.Stdin,
		out:      os.Stdout,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		checker := health.NewChecker(health.DefaultTTL)
		checker.Register("registry", a.checkRegistry)
		checker.Register("translator", a.checkTranslator)
		startMetricsServer(ctx, g, cfg, promReg, checker, logger)
	}

	g.Go(func() error {
		defer cancel()
		return a.run(ctx, os.Args[1], os.Args[2:])
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("coapopts terminated with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupLogger creates a structured logger with the specified level and format.
// Logs go to stderr so that command output stays on stdout.
func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// startMetricsServer serves Prometheus metrics and health checks until ctx
// is done.
func startMetricsServer(ctx context.Context, g *errgroup.Group, cfg config.Config, reg *prometheus.Registry, checker *health.Checker, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/health", checker.Handler())
	mux.Handle("/live", health.LivenessHandler())
	srv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: mux,
	}

	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Std())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
