package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Sample is the canonical unit of telemetry in SenseGrid: one decoded
// payload, a field-keyed snapshot of sensor readings at a single point in
// time. Fields keep document order and a Sample is immutable once built.
//
// Payloads are schema-less; any field may be present or absent on any
// message, so lookups return an explicit ok result instead of zero values.
type Sample struct {
	fields []field
	index  map[string]int
}

type field struct {
	name  string
	value Value
}

// Value holds a single decoded field value, either numeric or boolean.
type Value struct {
	num    float64
	b      bool
	isBool bool
}

// Number wraps a numeric reading.
func Number(v float64) Value { return Value{num: v} }

// Boolean wraps a boolean reading.
func Boolean(v bool) Value { return Value{b: v, isBool: true} }

// Float returns the numeric value; ok is false for boolean fields.
func (v Value) Float() (float64, bool) {
	if v.isBool {
		return 0, false
	}
	return v.num, true
}

// Bool returns the boolean value; ok is false for numeric fields.
func (v Value) Bool() (bool, bool) {
	if !v.isBool {
		return false, false
	}
	return v.b, true
}

// IsBool reports whether the value is boolean rather than numeric.
func (v Value) IsBool() bool { return v.isBool }

// String renders the value the way it appeared on the wire.
func (v Value) String() string {
	if v.isBool {
		return strconv.FormatBool(v.b)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// NewSample builds a Sample from explicit name/value pairs, preserving the
// given order. A duplicated name keeps its first position and takes the
// last value, matching JSON object semantics.
func NewSample(names []string, values []Value) *Sample {
	s := &Sample{index: make(map[string]int, len(names))}
	for i := range names {
		if i >= len(values) {
			break
		}
		s.put(names[i], values[i])
	}
	return s
}

func (s *Sample) put(name string, v Value) {
	if at, ok := s.index[name]; ok {
		s.fields[at].value = v
		return
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, field{name: name, value: v})
}

// Len returns the number of retained fields.
func (s *Sample) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Has reports whether the field is present.
func (s *Sample) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Lookup returns the raw value for a field.
func (s *Sample) Lookup(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	at, ok := s.index[name]
	if !ok {
		return Value{}, false
	}
	return s.fields[at].value, true
}

// Float returns the numeric value of a field; ok is false when the field
// is absent or boolean.
func (s *Sample) Float(name string) (float64, bool) {
	v, ok := s.Lookup(name)
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Bool returns the boolean value of a field; ok is false when the field
// is absent or numeric.
func (s *Sample) Bool(name string) (bool, bool) {
	v, ok := s.Lookup(name)
	if !ok {
		return false, false
	}
	return v.Bool()
}

// Fields returns the field names in document order. The slice is a copy.
func (s *Sample) Fields() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.name
	}
	return out
}

// MarshalJSON renders the sample as a JSON object in document order.
func (s *Sample) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(f.value.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeSample parses a raw payload as a JSON object and retains every
// field whose value is numeric or boolean, in document order. Strings,
// nulls, arrays, and nested objects are skipped. A payload that is not a
// single JSON object is rejected wholesale; there is no partial decode.
func DecodeSample(payload []byte) (*Sample, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode payload: expected JSON object, got %v", tok)
	}

	s := &Sample{index: make(map[string]int)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode payload key: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode payload key: unexpected token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode payload field %q: %w", name, err)
		}

		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode payload field %q: %w", name, err)
		}
		switch val := v.(type) {
		case float64:
			s.put(name, Number(val))
		case bool:
			s.put(name, Boolean(val))
		default:
			// Unknown value kinds are tolerated and dropped.
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode payload close: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode payload: trailing data after JSON object")
	}

	return s, nil
}
