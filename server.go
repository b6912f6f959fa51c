package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lixenwraith/fixtick/config"
	"github.com/lixenwraith/fixtick/core"
	"github.com/lixenwraith/fixtick/metrics"
	"github.com/lixenwraith/fixtick/status"
)

// newMetricsHandler exposes the status registry and Go runtime metrics
func newMetricsHandler(reg *status.Registry) http.Handler {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		metrics.NewCollector(reg, config.ApplicationName),
		collectors.NewGoCollector(),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	return mux
}

// startMetricsServer serves /metrics on addr in the background
// Listener failures are logged; the demo keeps running without metrics
func startMetricsServer(addr string, reg *status.Registry, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMetricsHandler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	core.Go(func() {
		logger.Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	})

	return srv
}

func stopMetricsServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
