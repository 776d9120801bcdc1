// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/awards"
	"github.com/pdiddy/allocations-xref/internal/catalog"
	"github.com/pdiddy/allocations-xref/internal/engine"
	"github.com/pdiddy/allocations-xref/internal/logging"
	"github.com/pdiddy/allocations-xref/internal/metrics"
	"github.com/pdiddy/allocations-xref/internal/secrets"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

// application holds the wired components for one CLI invocation.
type application struct {
	cfg        types.Config
	log        *zap.Logger
	metrics    *metrics.Metrics
	svc        *engine.Service
	dispatcher *engine.Dispatcher
	metricsSrv *http.Server
}

func newApplication(cfg types.Config) (*application, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	key, err := secrets.Resolve(cfg.Awards.APIKey, cfg.SecretsDir, secrets.AwardsAPIKey, log)
	if err != nil {
		return nil, err
	}
	cfg.Awards.APIKey = key

	m := metrics.New()
	cat := catalog.NewClient(nil, cfg.Catalog,
		catalog.WithLogger(log.Named("catalog")),
		catalog.WithMetrics(m))
	awardSvc := awards.NewHTTPService(nil, cfg.Awards, log.Named("awards"))
	xref := awards.NewOrchestrator(awardSvc, cfg.Awards,
		awards.WithLogger(log.Named("xref")),
		awards.WithMetrics(m))
	svc := engine.New(cat, xref, cfg.Search, engine.WithLogger(log.Named("engine")))

	a := &application{
		cfg:        cfg,
		log:        log,
		metrics:    m,
		svc:        svc,
		dispatcher: engine.NewDispatcher(svc),
	}
	if cfg.MetricsAddr != "" {
		a.serveMetrics(cfg.MetricsAddr)
	}
	log.Debug("application ready",
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.String("awards", cfg.Awards.BaseURL),
		zap.Bool("awards_key", key != ""))
	return a, nil
}

func (a *application) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.log.Info("serving metrics", zap.String("addr", addr))
}

// Close stops the metrics server and flushes the logger.
func (a *application) Close() {
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		a.metricsSrv.Shutdown(ctx)
	}
	a.log.Sync()
}
