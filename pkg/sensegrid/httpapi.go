package sensegrid

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Niewiaro/sensegrid/internal/domain"
	"github.com/Niewiaro/sensegrid/internal/ports"
	"github.com/Niewiaro/sensegrid/internal/store"
)

// deviceSummary is the list entry returned by /api/devices.
type deviceSummary struct {
	DeviceID   string    `json:"device_id"`
	LastUpdate time.Time `json:"last_update"`
	Samples    int       `json:"samples"`
}

// deviceState is the full per-device document returned by
// /api/devices/{id}.
type deviceState struct {
	DeviceID   string           `json:"device_id"`
	Latest     *domain.Sample   `json:"latest,omitempty"`
	Previous   *domain.Sample   `json:"previous,omitempty"`
	History    []*domain.Sample `json:"history,omitempty"`
	LastUpdate time.Time        `json:"last_update"`
}

type statusDoc struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Broker    string `json:"broker"`
	Devices   int    `json:"devices"`
}

// registerStateAPI exposes the device table as read-only JSON endpoints on
// the metrics mux.
func registerStateAPI(mux *http.ServeMux, table *store.Table, col ports.Collector) {
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, req *http.Request) {
		st := col.Status()
		writeJSON(w, statusDoc{
			Connected: st.State == ports.Connected,
			State:     st.State.String(),
			Broker:    st.Broker,
			Devices:   table.Len(),
		})
	})

	mux.HandleFunc("/api/devices", func(w http.ResponseWriter, req *http.Request) {
		ids := table.DeviceIDs()
		out := make([]deviceSummary, 0, len(ids))
		for _, id := range ids {
			snap, ok := table.Snapshot(id)
			if !ok {
				continue
			}
			out = append(out, deviceSummary{
				DeviceID:   id,
				LastUpdate: snap.LastUpdate,
				Samples:    len(snap.History),
			})
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("/api/devices/", func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/api/devices/")
		if id == "" || strings.Contains(id, "/") {
			http.NotFound(w, req)
			return
		}
		snap, ok := table.Snapshot(id)
		if !ok {
			http.NotFound(w, req)
			return
		}
		writeJSON(w, deviceState{
			DeviceID:   snap.DeviceID,
			Latest:     snap.Latest,
			Previous:   snap.Previous,
			History:    snap.History,
			LastUpdate: snap.LastUpdate,
		})
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
