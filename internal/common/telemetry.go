package common

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Metrics struct {
	HttpRequestSeconds       *prometheus.HistogramVec
	PageRendersTotal         *prometheus.CounterVec
	DatasetReloadsTotal      *prometheus.CounterVec
	DataIntegrityErrorsTotal *prometheus.CounterVec
	DatasetLoadedTimestamp   prometheus.Gauge
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HttpRequestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "citibike_http_request_seconds",
				Help:    "Time to serve dashboard HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "code"},
		),
		PageRendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citibike_page_renders_total",
				Help: "Dashboard pages rendered, per page",
			},
			[]string{"page"},
		),
		DatasetReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citibike_dataset_reloads_total",
				Help: "Prepared dataset loads, by result",
			},
			[]string{"result"},
		),
		DataIntegrityErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citibike_data_integrity_errors_total",
				Help: "Prepared data files rejected because a row broke the data contract",
			},
			[]string{"file"},
		),
		DatasetLoadedTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "citibike_dataset_loaded_timestamp_seconds",
				Help: "Unix time of the last successful dataset load",
			},
		),
	}

	registry.MustRegister(
		metrics.HttpRequestSeconds,
		metrics.PageRendersTotal,
		metrics.DatasetReloadsTotal,
		metrics.DataIntegrityErrorsTotal,
		metrics.DatasetLoadedTimestamp,
	)

	return metrics
}

// NewNopMetrics returns metrics registered on a throwaway registry.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

type TelemetryServer struct {
	addr     string
	mux      *http.ServeMux
	registry *prometheus.Registry
	logger   *zap.Logger

	server   *http.Server
	listener net.Listener
}

func NewTelemetryServer(addr string, logger *zap.Logger) *TelemetryServer {
	telemetry := &TelemetryServer{
		addr:     addr,
		registry: prometheus.NewRegistry(),
		mux:      http.NewServeMux(),
		logger:   logger,
	}

	telemetry.mux.Handle(
		"/metrics",
		promhttp.HandlerFor(telemetry.registry, promhttp.HandlerOpts{}),
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "citibike_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	telemetry.registry.MustRegister(
		collectors.NewGoCollector(), // Go runtime metrics
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)

	buildInfo.WithLabelValues(Version, GitCommit).Set(1)

	telemetry.mux.HandleFunc("/debug/pprof/", pprof.Index)
	telemetry.mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	telemetry.mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	telemetry.mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	telemetry.mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return telemetry
}

func (telemetry *TelemetryServer) GetRegistry() *prometheus.Registry {
	return telemetry.registry
}

func (telemetry *TelemetryServer) Handler() http.Handler {
	return telemetry.mux
}

func (telemetry *TelemetryServer) Start() error {
	telemetry.server = &http.Server{
		Addr:              telemetry.addr,
		Handler:           telemetry.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listener, err := net.Listen("tcp", telemetry.addr)
	if err != nil {
		return err
	}

	telemetry.listener = listener

	go func() {
		if err := telemetry.server.Serve(telemetry.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.logger.Error("telemetry server stopped", zap.Error(err))
		}
	}()

	telemetry.logger.Info("telemetry server started", zap.String("addr", listener.Addr().String()))
	return nil
}

func (telemetry *TelemetryServer) Stop(ctx context.Context) error {
	if telemetry.server == nil {
		return nil
	}

	return telemetry.server.Shutdown(ctx)
}
