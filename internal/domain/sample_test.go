package domain

import (
	"testing"
	"time"
)

func TestDecodeSampleKeepsDocumentOrder(t *testing.T) {
	payload := []byte(`{"temperature": 21.5, "flame_status": true, "gas_level": 640, "name": "jadwiga", "humidity_out": 55.2}`)

	s, err := DecodeSample(payload)
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}

	want := []string{"temperature", "flame_status", "gas_level", "humidity_out"}
	got := s.Fields()
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestDecodeSampleTypedAccessors(t *testing.T) {
	s, err := DecodeSample([]byte(`{"temperature": 21.5, "flame_status": true}`))
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}

	if v, ok := s.Float("temperature"); !ok || v != 21.5 {
		t.Fatalf("expected temperature 21.5, got %v ok=%v", v, ok)
	}
	if v, ok := s.Bool("flame_status"); !ok || !v {
		t.Fatalf("expected flame_status true, got %v ok=%v", v, ok)
	}
	if _, ok := s.Float("flame_status"); ok {
		t.Fatalf("Float on a boolean field must report absent")
	}
	if _, ok := s.Bool("temperature"); ok {
		t.Fatalf("Bool on a numeric field must report absent")
	}
	if _, ok := s.Float("smoke"); ok {
		t.Fatalf("missing field must report absent")
	}
}

func TestDecodeSampleSkipsNonScalarValues(t *testing.T) {
	payload := []byte(`{"readings": [1, 2], "meta": {"fw": "1.2"}, "note": null, "sound": 12.5}`)

	s, err := DecodeSample(payload)
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	if s.Len() != 1 || !s.Has("sound") {
		t.Fatalf("expected only the sound field to survive, got %v", s.Fields())
	}
}

func TestDecodeSampleDuplicateKeyKeepsFirstPosition(t *testing.T) {
	s, err := DecodeSample([]byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	fields := s.Fields()
	if len(fields) != 2 || fields[0] != "a" || fields[1] != "b" {
		t.Fatalf("unexpected field order: %v", fields)
	}
	if v, _ := s.Float("a"); v != 3 {
		t.Fatalf("duplicate key should take the last value, got %v", v)
	}
}

func TestDecodeSampleRejectsMalformedPayloads(t *testing.T) {
	cases := []string{
		`not-json-garbage`,
		`[1, 2, 3]`,
		`"just a string"`,
		`{"temperature": 21.5`,
		`{"temperature": 21.5} trailing`,
		``,
	}
	for _, raw := range cases {
		if _, err := DecodeSample([]byte(raw)); err == nil {
			t.Fatalf("expected decode error for %q", raw)
		}
	}
}

func TestSampleMarshalJSONRoundTrip(t *testing.T) {
	s, err := DecodeSample([]byte(`{"temperature": 21.5, "flame_status": false, "gas_level": 640}`))
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	out, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal sample: %v", err)
	}
	want := `{"temperature":21.5,"flame_status":false,"gas_level":640}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestSnapshotDelta(t *testing.T) {
	prev := NewSample([]string{"temperature"}, []Value{Number(21.5)})
	cur := NewSample([]string{"temperature", "smoke"}, []Value{Number(22.0), Number(3)})

	snap := Snapshot{
		DeviceID:   "jadwiga",
		Latest:     cur,
		Previous:   prev,
		History:    []*Sample{prev, cur},
		LastUpdate: time.Now(),
	}

	d, ok := snap.Delta("temperature")
	if !ok || d != 0.5 {
		t.Fatalf("expected delta 0.5, got %v ok=%v", d, ok)
	}
	if _, ok := snap.Delta("smoke"); ok {
		t.Fatalf("delta must suppress itself when previous lacks the field")
	}
}

func TestSnapshotDeltaSuppressedOnFirstMessage(t *testing.T) {
	only := NewSample([]string{"temperature"}, []Value{Number(21.5)})
	snap := Snapshot{DeviceID: "garaz", Latest: only, History: []*Sample{only}}

	if _, ok := snap.Delta("temperature"); ok {
		t.Fatalf("delta must be absent after exactly one message")
	}
	if snap.Empty() {
		t.Fatalf("snapshot with one sample is not empty")
	}
	if !(Snapshot{}).Empty() {
		t.Fatalf("zero snapshot must report empty")
	}
}
