package ports

import "github.com/Niewiaro/sensegrid/internal/domain"

// Reader is the read-only view a polling consumer holds on device state.
// It must stay cheap enough to call on every poll tick: each call copies
// only the one record it touches, and SnapshotAll is repeated independent
// Snapshot calls, not a cross-device transaction.
type Reader interface {
	Snapshot(deviceID string) (domain.Snapshot, bool)
	SnapshotAll() map[string]domain.Snapshot
	DeviceIDs() []string
	Len() int
}
