package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("MQTT_BROKER", "")
	t.Setenv("MQTT_PORT", "")
	t.Setenv("MQTT_TOPIC", "")
	t.Setenv("MQTT_KEEPALIVE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
mqtt:
  broker: broker.hivemq.com
store:
  history_cap: 50
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MQTT.Broker != "broker.hivemq.com" {
		t.Fatalf("expected broker from file, got %s", cfg.MQTT.Broker)
	}
	if cfg.MQTT.Port != 1883 {
		t.Fatalf("expected default port 1883, got %d", cfg.MQTT.Port)
	}
	if cfg.MQTT.Topic != "sensor/+" {
		t.Fatalf("expected default topic sensor/+, got %s", cfg.MQTT.Topic)
	}
	if cfg.MQTT.KeepAlive != 60*time.Second {
		t.Fatalf("expected default keep-alive 60s, got %s", cfg.MQTT.KeepAlive)
	}
	if cfg.Store.HistoryCap != 50 {
		t.Fatalf("expected history cap 50 from file, got %d", cfg.Store.HistoryCap)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Fatalf("expected default metrics addr :9100, got %s", cfg.Metrics.Addr)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.Log.Level)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("MQTT_BROKER", "")
	t.Setenv("MQTT_PORT", "")
	t.Setenv("MQTT_TOPIC", "")
	t.Setenv("MQTT_KEEPALIVE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load with missing file: %v", err)
	}
	if cfg.MQTT.Broker != "localhost" {
		t.Fatalf("expected default broker localhost, got %s", cfg.MQTT.Broker)
	}
	if cfg.Store.HistoryCap != 100 {
		t.Fatalf("expected default history cap 100, got %d", cfg.Store.HistoryCap)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MQTT_BROKER", "env-broker")
	t.Setenv("MQTT_PORT", "8883")
	t.Setenv("MQTT_TOPIC", "telemetry/#")
	t.Setenv("MQTT_KEEPALIVE", "30")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
mqtt:
  broker: file-broker
  port: 1883
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MQTT.Broker != "env-broker" {
		t.Fatalf("env broker must win over file, got %s", cfg.MQTT.Broker)
	}
	if cfg.MQTT.Port != 8883 {
		t.Fatalf("env port must win over file, got %d", cfg.MQTT.Port)
	}
	if cfg.MQTT.Topic != "telemetry/#" {
		t.Fatalf("env topic must win, got %s", cfg.MQTT.Topic)
	}
	if cfg.MQTT.KeepAlive != 30*time.Second {
		t.Fatalf("env keep-alive must win, got %s", cfg.MQTT.KeepAlive)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
mqtt:
  port: 99999
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for out-of-range port")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("mqtt: [not a mapping"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
