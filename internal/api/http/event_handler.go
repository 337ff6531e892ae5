package http

import (
	"encoding/json"
	"net/http"

	"pe-collective-backend/internal/tracker"
)

// maxBeaconBytes bounds a single analytics beacon
const maxBeaconBytes = 16 << 10

type beacon struct {
	Name     string            `json:"name"`
	ClientID string            `json:"client_id"`
	Params   map[string]string `json:"params"`
}

// EventHandler collects tracker beacons sent by site pages
type EventHandler struct {
	sink  tracker.Sink
	known map[string]bool
}

func NewEventHandler(sink tracker.Sink) *EventHandler {
	known := make(map[string]bool)
	for _, name := range tracker.EventNames() {
		known[name] = true
	}
	return &EventHandler{sink: sink, known: known}
}

// HandleEvent forwards one beacon to the sink; delivery is not confirmed
func (h *EventHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var b beacon
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBeaconBytes)).Decode(&b); err != nil {
		http.Error(w, "Invalid beacon", http.StatusBadRequest)
		return
	}
	if !h.known[b.Name] {
		http.Error(w, "Unknown event", http.StatusBadRequest)
		return
	}

	params := make(map[string]string, len(b.Params)+1)
	for k, v := range b.Params {
		params[k] = v
	}
	if b.ClientID != "" {
		params[tracker.ClientIDParam] = b.ClientID
	}

	h.sink.Track(b.Name, params)
	w.WriteHeader(http.StatusAccepted)
}
