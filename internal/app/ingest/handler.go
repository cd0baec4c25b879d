// Package ingest turns raw broker messages into device table updates.
package ingest

import (
	"time"

	"github.com/Niewiaro/sensegrid/internal/adapters/observability"
	"github.com/Niewiaro/sensegrid/internal/ports"
	"github.com/Niewiaro/sensegrid/internal/routing"
	"github.com/Niewiaro/sensegrid/internal/store"
)

// NotifyFunc is called once per device, on its first sighting.
type NotifyFunc func(deviceID string)

// Handler is the single entry point for inbound messages. The transport
// calls HandleMessage from its own goroutines; all shared state lives in
// the table, which does its own locking.
type Handler struct {
	table  *store.Table
	obs    ports.Observability
	notify NotifyFunc
}

type Option func(*Handler)

// WithNotify registers a first-sighting callback. It runs inline on the
// transport goroutine, so it must be quick and must not block.
func WithNotify(fn NotifyFunc) Option {
	return func(h *Handler) { h.notify = fn }
}

func NewHandler(table *store.Table, obs ports.Observability, opts ...Option) *Handler {
	h := &Handler{table: table, obs: obs}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleMessage routes, decodes and applies one message. A payload that
// fails to decode is counted and logged but never touches device state.
func (h *Handler) HandleMessage(topic string, payload []byte) {
	start := time.Now()
	h.obs.IncCounter(observability.MetricMessagesReceived, 1)

	deviceID, sample, err := routing.Route(topic, payload)
	if err != nil {
		h.obs.IncCounter(observability.MetricDecodeFailures, 1)
		h.obs.LogError("decode_failed", err,
			ports.Field{Key: "topic", Value: topic},
			ports.Field{Key: "device_id", Value: deviceID},
		)
		return
	}

	created := h.table.Apply(deviceID, sample, time.Now())
	h.obs.IncCounter(observability.MetricSamplesApplied, 1)
	h.obs.ObserveLatency(observability.MetricIngestLatency, time.Since(start).Seconds())

	if created {
		h.obs.SetGauge(observability.MetricKnownDevices, float64(h.table.Len()))
		h.obs.LogInfo("new_device_detected",
			ports.Field{Key: "device_id", Value: deviceID},
			ports.Field{Key: "devices", Value: h.table.Len()},
		)
		if h.notify != nil {
			h.notify(deviceID)
		}
	}
}

var _ ports.MessageHandler = (*Handler)(nil)
