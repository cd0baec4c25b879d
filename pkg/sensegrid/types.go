package sensegrid

import (
	"github.com/Niewiaro/sensegrid/internal/domain"
	"github.com/Niewiaro/sensegrid/internal/ports"
	"github.com/Niewiaro/sensegrid/internal/routing"
	"github.com/Niewiaro/sensegrid/internal/store"
)

// Sample is one decoded telemetry payload with its fields in document order.
type Sample = domain.Sample

// Value is a single scalar reading, numeric or boolean.
type Value = domain.Value

// Snapshot is an immutable copy of one device's state.
type Snapshot = domain.Snapshot

// Table is the concurrent device state store.
type Table = store.Table

// Reader is the read-only polling view on device state.
type Reader = ports.Reader

// Collector delivers raw messages from any pub/sub transport.
type Collector = ports.Collector

// MessageHandler consumes one raw inbound message.
type MessageHandler = ports.MessageHandler

// MessageHandlerFunc adapts a function into a MessageHandler.
type MessageHandlerFunc = ports.MessageHandlerFunc

// Observability emits metrics and structured logs about ingestion.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// ConnState is the observed transport connection state.
type ConnState = ports.ConnState

// ConnStatus pairs the connection state with the broker it refers to.
type ConnStatus = ports.ConnStatus

// Connection states.
const (
	Disconnected = ports.Disconnected
	Connecting   = ports.Connecting
	Connected    = ports.Connected
)

// ParseError reports a payload that could not be decoded, with the raw
// payload attached for diagnostics.
type ParseError = routing.ParseError

// UnknownDevice is the fallback identifier for unroutable topics.
const UnknownDevice = routing.UnknownDevice

// DecodeSample decodes a JSON object payload into a Sample.
func DecodeSample(payload []byte) (*Sample, error) {
	return domain.DecodeSample(payload)
}

// DeviceID extracts the device identifier from a topic.
func DeviceID(topic string) string {
	return routing.DeviceID(topic)
}

// NewTable creates an empty device table with the given history capacity;
// capacity <= 0 selects the default.
func NewTable(capacity int) *Table {
	return store.NewTable(capacity)
}
