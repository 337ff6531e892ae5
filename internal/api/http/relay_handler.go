package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pe-collective-backend/internal/domain"
	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/service"
)

// RelayHandler exposes the submission relay over HTTP
type RelayHandler struct {
	relay service.RelayService
}

func NewRelayHandler(relay service.RelayService) *RelayHandler {
	return &RelayHandler{relay: relay}
}

// HandleSubmit answers every POST with 200 and an envelope, even on failure
func (h *RelayHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusOK, domain.ErrorEnvelope(fmt.Errorf("failed to read request body: %w", err)))
		return
	}
	writeJSON(w, http.StatusOK, h.relay.Submit(r.Context(), body))
}

// HandleLiveness ignores the request and reports that the relay is up
func (h *RelayHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.relay.Liveness())
}

// HandleHealth reports process health for load balancers
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": domain.StatusOK})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
