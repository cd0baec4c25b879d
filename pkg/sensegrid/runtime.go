package sensegrid

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Niewiaro/sensegrid/internal/adapters/mqtt"
	"github.com/Niewiaro/sensegrid/internal/adapters/observability"
	"github.com/Niewiaro/sensegrid/internal/app/ingest"
	"github.com/Niewiaro/sensegrid/internal/ports"
	"github.com/Niewiaro/sensegrid/internal/store"
)

// NotifyFunc is called once per device, on its first sighting.
type NotifyFunc = ingest.NotifyFunc

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	collector     Collector
	table         *Table
	observability Observability
	notify        NotifyFunc
}

// WithCollector injects a custom transport (simulators, replays, other
// brokers) in place of the default MQTT client.
func WithCollector(col Collector) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.collector = col
	}
}

// WithTable lets callers share a pre-built device table across runtimes.
func WithTable(t *Table) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.table = t
	}
}

// WithObservability plugs in a custom metrics/logging backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithNotify registers a first-sighting callback. It runs inline on the
// transport goroutine, so it must be quick and must not block.
func WithNotify(fn NotifyFunc) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.notify = fn
	}
}

// Runtime wires the collector into the ingestion handler and device table,
// and exposes lifecycle hooks for embedding the hub inside any Go service.
type Runtime struct {
	cfg         *Config
	obs         ports.Observability
	table       *store.Table
	collector   ports.Collector
	handler     *ingest.Handler
	metricsSrv  *http.Server
	gaugeStopCh chan struct{}
}

// NewRuntime bootstraps the default adapters (MQTT collector, in-memory
// device table, Prometheus observability with structured logging). Callers
// can use RuntimeOption values to override any dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		logger := observability.NewLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
		obs = observability.NewPromObs(logger)
	}

	table := overrides.table
	if table == nil {
		table = store.NewTable(cfg.Store.HistoryCap)
	}

	var handlerOpts []ingest.Option
	if overrides.notify != nil {
		handlerOpts = append(handlerOpts, ingest.WithNotify(overrides.notify))
	}
	handler := ingest.NewHandler(table, obs, handlerOpts...)

	col := overrides.collector
	if col == nil {
		var err error
		col, err = mqtt.NewCollector(cfg.MQTT)
		if err != nil {
			return nil, err
		}
	}

	return &Runtime{
		cfg:       cfg,
		obs:       obs,
		table:     table,
		collector: col,
		handler:   handler,
	}, nil
}

// Start connects the collector and launches the metrics/state HTTP server.
// It returns once the transport is up; call Run to block on a context
// instead.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	if err := r.collector.Start(r.handler); err != nil {
		return err
	}
	r.obs.LogInfo("collector_started",
		ports.Field{Key: "broker", Value: r.collector.Status().Broker},
	)

	r.startMetrics()
	return nil
}

// Run starts the runtime and blocks until the provided context is
// cancelled, then attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown stops the collector and the HTTP server.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.gaugeStopCh != nil {
		close(r.gaugeStopCh)
		r.gaugeStopCh = nil
	}

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if r.collector != nil {
		if err := r.collector.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Snapshot returns an immutable copy of one device's state.
func (r *Runtime) Snapshot(deviceID string) (Snapshot, bool) {
	return r.table.Snapshot(deviceID)
}

// SnapshotAll copies every known device's state.
func (r *Runtime) SnapshotAll() map[string]Snapshot {
	return r.table.SnapshotAll()
}

// DeviceIDs returns the known device identifiers in sorted order.
func (r *Runtime) DeviceIDs() []string {
	return r.table.DeviceIDs()
}

// DeviceCount returns the number of known devices.
func (r *Runtime) DeviceCount() int {
	return r.table.Len()
}

// Connected reports whether the broker connection is currently up.
func (r *Runtime) Connected() bool {
	return r.collector.Status().State == ports.Connected
}

// Status returns the transport connection status.
func (r *Runtime) Status() ConnStatus {
	return r.collector.Status()
}

// Reader returns the read-only polling view on the device table.
func (r *Runtime) Reader() Reader {
	return r.table
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	registerStateAPI(mux, r.table, r.collector)

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	r.gaugeStopCh = make(chan struct{})
	go r.recordStateGauges(r.gaugeStopCh, time.Second)
}

func (r *Runtime) recordStateGauges(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.obs.SetGauge(observability.MetricKnownDevices, float64(r.table.Len()))
			up := 0.0
			if r.collector.Status().State == ports.Connected {
				up = 1.0
			}
			r.obs.SetGauge(observability.MetricConnectionUp, up)
		}
	}
}
