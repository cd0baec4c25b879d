package domain

import "time"

// Snapshot is an immutable point-in-time copy of one device's state,
// handed to readers so later ingestion cannot touch data they already
// hold. Samples are shared by pointer; they never mutate after decode.
type Snapshot struct {
	DeviceID   string
	Latest     *Sample
	Previous   *Sample
	History    []*Sample
	LastUpdate time.Time
}

// Empty reports whether no message has been applied for this device yet.
func (s Snapshot) Empty() bool { return s.Latest == nil }

// Delta returns latest minus previous for a numeric field. It suppresses
// itself (ok false) when either side is absent or non-numeric, which is
// why a device with a single message shows no deltas.
func (s Snapshot) Delta(name string) (float64, bool) {
	cur, ok := s.Latest.Float(name)
	if !ok {
		return 0, false
	}
	prev, ok := s.Previous.Float(name)
	if !ok {
		return 0, false
	}
	return cur - prev, true
}
