// Package observability wires structured logging and Prometheus metrics
// behind the ports.Observability interface.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/Niewiaro/sensegrid/internal/ports"
)

// Metric names the rest of the module records against.
const (
	MetricMessagesReceived = "sensegrid_messages_received_total"
	MetricDecodeFailures   = "sensegrid_decode_failures_total"
	MetricSamplesApplied   = "sensegrid_samples_applied_total"
	MetricKnownDevices     = "sensegrid_known_devices"
	MetricConnectionUp     = "sensegrid_connection_up"
	MetricIngestLatency    = "sensegrid_ingest_latency_seconds"
)

type PromObs struct {
	log      *logrus.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs(log *logrus.Logger) *PromObs {
	if log == nil {
		log = logrus.StandardLogger()
	}

	received := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricMessagesReceived,
		Help: "Total raw messages received from the broker.",
	})
	decodeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricDecodeFailures,
		Help: "Messages whose payload could not be decoded.",
	})
	applied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricSamplesApplied,
		Help: "Samples successfully applied to the device table.",
	})
	devices := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricKnownDevices,
		Help: "Number of devices seen since startup.",
	})
	connUp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricConnectionUp,
		Help: "1 while the broker connection is up, 0 otherwise.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    MetricIngestLatency,
		Help:    "Latency from message receipt to table update.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	prometheus.MustRegister(received, decodeFailures, applied, devices, connUp, latency)

	return &PromObs{
		log: log,
		counters: map[string]prometheus.Counter{
			MetricMessagesReceived: received,
			MetricDecodeFailures:   decodeFailures,
			MetricSamplesApplied:   applied,
		},
		gauges: map[string]prometheus.Gauge{
			MetricKnownDevices: devices,
			MetricConnectionUp: connUp,
		},
		histos: map[string]prometheus.Observer{
			MetricIngestLatency: latency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.entry(fields).Info(msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	e := p.entry(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

// LogCritical logs at fatal level without terminating the process;
// shutdown decisions stay with the caller.
func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	e := p.entry(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Log(logrus.FatalLevel, msg)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) entry(fields []ports.Field) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(p.log)
	}
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return p.log.WithFields(lf)
}

var _ ports.Observability = (*PromObs)(nil)
