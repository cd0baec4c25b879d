// Package routing turns one raw transport message into a device identifier
// plus a decoded sample. It is stateless; all state lives in the store.
package routing

import (
	"fmt"
	"strings"

	"github.com/Niewiaro/sensegrid/internal/domain"
)

// UnknownDevice is the identifier assigned when a topic carries no device
// segment. It is a valid device, not an error.
const UnknownDevice = "unknown"

// ParseError reports a payload that could not be decoded. The raw bytes
// are kept for diagnosis; the message is dropped wholesale and no device
// state changes.
type ParseError struct {
	Topic   string
	Payload []byte
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("routing: unparseable payload on %q: %v (raw: %s)", e.Topic, e.Err, e.Payload)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DeviceID extracts the device identifier from a topic: the final segment
// after splitting on "/". Topics with fewer than two segments, or an empty
// trailing segment, resolve to UnknownDevice.
func DeviceID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return UnknownDevice
	}
	last := parts[len(parts)-1]
	if last == "" {
		return UnknownDevice
	}
	return last
}

// Route resolves the device identifier and decodes the payload. On decode
// failure it returns a *ParseError alongside the already-resolved device
// id so callers can still attribute the failure.
func Route(topic string, payload []byte) (string, *domain.Sample, error) {
	device := DeviceID(topic)
	sample, err := domain.DecodeSample(payload)
	if err != nil {
		return device, nil, &ParseError{Topic: topic, Payload: payload, Err: err}
	}
	return device, sample, nil
}
