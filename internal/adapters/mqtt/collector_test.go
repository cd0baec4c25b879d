package mqtt

import (
	"strings"
	"testing"
	"time"

	"github.com/Niewiaro/sensegrid/internal/ports"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Broker != "localhost" || cfg.Port != 1883 {
		t.Fatalf("unexpected broker defaults: %s:%d", cfg.Broker, cfg.Port)
	}
	if cfg.Topic != "sensor/+" {
		t.Fatalf("unexpected topic default: %s", cfg.Topic)
	}
	if cfg.KeepAlive != 60*time.Second {
		t.Fatalf("unexpected keep-alive default: %s", cfg.KeepAlive)
	}
	if !strings.HasPrefix(cfg.ClientID, "sensegrid-") {
		t.Fatalf("unexpected client id: %s", cfg.ClientID)
	}
}

func TestConfigClientIDsAreUnique(t *testing.T) {
	var a, b Config
	a.ApplyDefaults()
	b.ApplyDefaults()
	if a.ClientID == b.ClientID {
		t.Fatalf("two default configs share client id %s", a.ClientID)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"empty broker", func(c *Config) { c.Broker = "" }},
		{"port too low", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"empty topic", func(c *Config) { c.Topic = "" }},
		{"bad qos", func(c *Config) { c.QoS = 3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tc.mut(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestConfigURL(t *testing.T) {
	cfg := Config{Broker: "broker.hivemq.com", Port: 1883}
	if got := cfg.URL(); got != "tcp://broker.hivemq.com:1883" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestStatusBeforeStart(t *testing.T) {
	c, err := NewCollector(Config{Broker: "localhost"})
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	st := c.Status()
	if st.State != ports.Disconnected {
		t.Fatalf("expected disconnected before start, got %s", st.State)
	}
	if st.Broker != "tcp://localhost:1883" {
		t.Fatalf("unexpected broker in status: %s", st.Broker)
	}
}

func TestStateTransitions(t *testing.T) {
	c, err := NewCollector(Config{Broker: "localhost"})
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	c.setState(ports.Connecting)
	if c.Status().State != ports.Connecting {
		t.Fatalf("expected connecting")
	}
	c.setState(ports.Connected)
	if c.Status().State != ports.Connected {
		t.Fatalf("expected connected")
	}
	c.setState(ports.Disconnected)
	if c.Status().State != ports.Disconnected {
		t.Fatalf("expected disconnected")
	}
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	c, err := NewCollector(Config{Broker: "localhost"})
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("stop before start: %v", err)
	}
}
