package routing

import (
	"errors"
	"testing"
)

func TestDeviceIDFromTopic(t *testing.T) {
	cases := []struct {
		topic string
		want  string
	}{
		{"sensor/jadwiga", "jadwiga"},
		{"sensor/garaz", "garaz"},
		{"home/sensor/piwnica", "piwnica"},
		{"sensor", UnknownDevice},
		{"", UnknownDevice},
		{"sensor/", UnknownDevice},
	}
	for _, tc := range cases {
		if got := DeviceID(tc.topic); got != tc.want {
			t.Fatalf("DeviceID(%q): expected %q, got %q", tc.topic, tc.want, got)
		}
	}
}

func TestRouteDecodesPayload(t *testing.T) {
	device, sample, err := Route("sensor/jadwiga", []byte(`{"temperature": 21.5}`))
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if device != "jadwiga" {
		t.Fatalf("expected device jadwiga, got %q", device)
	}
	if v, ok := sample.Float("temperature"); !ok || v != 21.5 {
		t.Fatalf("expected temperature 21.5, got %v ok=%v", v, ok)
	}
}

func TestRouteReturnsParseErrorWithRawPayload(t *testing.T) {
	raw := []byte(`not-json-garbage`)
	device, sample, err := Route("sensor/jadwiga", raw)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if sample != nil {
		t.Fatalf("no partial decode allowed, got %v", sample)
	}
	if device != "jadwiga" {
		t.Fatalf("device id should still resolve, got %q", device)
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if string(perr.Payload) != string(raw) {
		t.Fatalf("parse error should carry the raw payload, got %q", perr.Payload)
	}
}
