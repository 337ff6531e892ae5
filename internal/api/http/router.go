package http

import (
	"net/http"
	"time"

	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/service"
	"pe-collective-backend/internal/tracker"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the relay, collector and health endpoints
func RegisterRoutes(router *mux.Router, relay service.RelayService, sink tracker.Sink) {
	relayHandler := NewRelayHandler(relay)
	eventHandler := NewEventHandler(sink)

	router.Use(corsMiddleware, accessLogMiddleware)

	router.HandleFunc("/submit", relayHandler.HandleSubmit).Methods("POST")
	router.HandleFunc("/submit", relayHandler.HandleLiveness).Methods("GET")
	router.HandleFunc("/events", eventHandler.HandleEvent).Methods("POST")
	router.HandleFunc("/healthz", HandleHealth).Methods("GET")
	router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// corsMiddleware lets the static site post from its own origin
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
