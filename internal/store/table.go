// Package store holds the concurrent telemetry state: one bounded record
// per device, written by the transport callback and read by pollers.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Niewiaro/sensegrid/internal/domain"
	"github.com/Niewiaro/sensegrid/internal/ports"
)

// DefaultHistoryCap bounds each device's history when no capacity is
// configured.
const DefaultHistoryCap = 100

// Record is the bounded state for one device. It owns a mutex so updates
// to different devices never block each other; the table lock only guards
// the id→record map.
//
// LOCK ORDERING: Table.mu before Record.mu, never the reverse. Records are
// never removed from the map, so a record reference obtained under the
// table lock stays valid after releasing it.
type Record struct {
	mu         sync.Mutex
	id         string
	latest     *domain.Sample
	previous   *domain.Sample
	history    []*domain.Sample
	lastUpdate time.Time
}

// Table maps device identifiers to their records. Keys grow without bound
// as new devices appear; per-device memory is bounded by the history cap.
type Table struct {
	mu       sync.RWMutex
	records  map[string]*Record
	capacity int
}

// NewTable creates an empty table whose records keep at most capacity
// history samples each; capacity <= 0 selects DefaultHistoryCap.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &Table{
		records:  make(map[string]*Record),
		capacity: capacity,
	}
}

// Capacity returns the per-device history bound.
func (t *Table) Capacity() int { return t.capacity }

// GetOrCreate returns the record for deviceID, creating an empty one on
// first sight. Created reports whether this call created it; two
// concurrent first sightings of one id yield exactly one record.
func (t *Table) GetOrCreate(deviceID string) (rec *Record, created bool) {
	t.mu.RLock()
	rec, ok := t.records[deviceID]
	t.mu.RUnlock()
	if ok {
		return rec, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double-check: another goroutine may have created it meanwhile.
	if rec, ok = t.records[deviceID]; ok {
		return rec, false
	}
	rec = &Record{
		id:         deviceID,
		history:    make([]*domain.Sample, 0, t.capacity),
		lastUpdate: time.Now(),
	}
	t.records[deviceID] = rec
	return rec, true
}

// Apply records one sample for deviceID: previous takes the old latest,
// the sample becomes latest and is appended to history, evicting the
// oldest entry past the cap. The mutation runs under the record's own
// lock only; decoding must happen before calling in here.
func (t *Table) Apply(deviceID string, sample *domain.Sample, observedAt time.Time) (created bool) {
	rec, created := t.GetOrCreate(deviceID)
	rec.apply(sample, observedAt, t.capacity)
	return created
}

func (r *Record) apply(sample *domain.Sample, observedAt time.Time, capacity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.latest != nil {
		r.previous = r.latest
	}
	r.latest = sample
	r.history = append(r.history, sample)
	if len(r.history) > capacity {
		r.history = r.history[1:]
	}
	r.lastUpdate = observedAt
}

// Snapshot returns an immutable copy of one device's state, or ok=false
// for an unknown device. The copy never changes under later ingestion.
func (t *Table) Snapshot(deviceID string) (domain.Snapshot, bool) {
	t.mu.RLock()
	rec, ok := t.records[deviceID]
	t.mu.RUnlock()
	if !ok {
		return domain.Snapshot{}, false
	}
	return rec.snapshot(), true
}

func (r *Record) snapshot() domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := make([]*domain.Sample, len(r.history))
	copy(history, r.history)
	return domain.Snapshot{
		DeviceID:   r.id,
		Latest:     r.latest,
		Previous:   r.previous,
		History:    history,
		LastUpdate: r.lastUpdate,
	}
}

// SnapshotAll copies every known device's state. Each device is
// independently consistent; the collection as a whole is not one atomic
// cross-device transaction.
func (t *Table) SnapshotAll() map[string]domain.Snapshot {
	ids := t.DeviceIDs()
	out := make(map[string]domain.Snapshot, len(ids))
	for _, id := range ids {
		if snap, ok := t.Snapshot(id); ok {
			out[id] = snap
		}
	}
	return out
}

// DeviceIDs returns the identifiers known at the instant of the call,
// sorted so consumers iterate in a stable order. The set may be stale by
// the time it is used.
func (t *Table) DeviceIDs() []string {
	t.mu.RLock()
	ids := make([]string, 0, len(t.records))
	for id := range t.records {
		ids = append(ids, id)
	}
	t.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Len returns the number of known devices.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

var _ ports.Reader = (*Table)(nil)
