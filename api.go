package sensegrid

import (
	base "github.com/Niewiaro/sensegrid/pkg/sensegrid"
)

// Type aliases so consumers can import github.com/Niewiaro/sensegrid
// directly.
type (
	Config             = base.Config
	MQTTConfig         = base.MQTTConfig
	StoreConfig        = base.StoreConfig
	MetricsConfig      = base.MetricsConfig
	LogConfig          = base.LogConfig
	Flow               = base.Flow
	FlowOption         = base.FlowOption
	IngestOption       = base.IngestOption
	Runtime            = base.Runtime
	RuntimeOption      = base.RuntimeOption
	NotifyFunc         = base.NotifyFunc
	Sample             = base.Sample
	Value              = base.Value
	Snapshot           = base.Snapshot
	Table              = base.Table
	Reader             = base.Reader
	Collector          = base.Collector
	MessageHandler     = base.MessageHandler
	MessageHandlerFunc = base.MessageHandlerFunc
	Observability      = base.Observability
	Field              = base.Field
	ConnState          = base.ConnState
	ConnStatus         = base.ConnStatus
	ParseError         = base.ParseError
)

// Connection states.
const (
	Disconnected = base.Disconnected
	Connecting   = base.Connecting
	Connected    = base.Connected
)

// UnknownDevice is the fallback identifier for unroutable topics.
const UnknownDevice = base.UnknownDevice

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func IngestCollector(col Collector) IngestOption {
	return base.IngestCollector(col)
}

func IngestTable(t *Table) IngestOption {
	return base.IngestTable(t)
}

func IngestObservability(obs Observability) IngestOption {
	return base.IngestObservability(obs)
}

func IngestNotify(fn NotifyFunc) IngestOption {
	return base.IngestNotify(fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithCollector(col Collector) RuntimeOption {
	return base.WithCollector(col)
}

func WithTable(t *Table) RuntimeOption {
	return base.WithTable(t)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithNotify(fn NotifyFunc) RuntimeOption {
	return base.WithNotify(fn)
}

// State helpers.
func NewTable(capacity int) *Table {
	return base.NewTable(capacity)
}

func DecodeSample(payload []byte) (*Sample, error) {
	return base.DecodeSample(payload)
}

func DeviceID(topic string) string {
	return base.DeviceID(topic)
}
