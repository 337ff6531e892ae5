package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"pe-collective-backend/internal/logger"

	"github.com/google/uuid"
)

// LogSink writes every event to the structured logger
type LogSink struct{}

func (LogSink) Track(name string, params map[string]string) {
	args := []any{"event", name}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, params[k])
	}
	logger.WithComponent("tracker").Info("Analytics event", args...)
}

// ClientIDParam carries the browser's analytics client id through params;
// MeasurementSink lifts it out of the event parameters.
const ClientIDParam = "client_id"

// MaxInFlight bounds concurrent Measurement Protocol requests; events beyond it are dropped
const MaxInFlight = 64

// MeasurementSink forwards events to the GA4 Measurement Protocol
type MeasurementSink struct {
	endpoint string
	client   *http.Client
	slots    chan struct{}
	wg       sync.WaitGroup
}

// NewMeasurementSink targets endpoint (normally .../mp/collect) for one GA4 property
func NewMeasurementSink(endpoint, measurementID, apiSecret string, timeout time.Duration) (*MeasurementSink, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid measurement endpoint: %w", err)
	}
	q := u.Query()
	q.Set("measurement_id", measurementID)
	q.Set("api_secret", apiSecret)
	u.RawQuery = q.Encode()

	return &MeasurementSink{
		endpoint: u.String(),
		client:   &http.Client{Timeout: timeout},
		slots:    make(chan struct{}, MaxInFlight),
	}, nil
}

type mpEvent struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

type mpPayload struct {
	ClientID string    `json:"client_id"`
	Events   []mpEvent `json:"events"`
}

// Track posts the event in the background and returns immediately. The
// event is dropped when MaxInFlight sends are already pending.
func (s *MeasurementSink) Track(name string, params map[string]string) {
	clientID := params[ClientIDParam]
	if clientID == "" {
		clientID = uuid.NewString()
	}
	eventParams := make(map[string]string, len(params))
	for k, v := range params {
		if k != ClientIDParam {
			eventParams[k] = v
		}
	}

	body, err := json.Marshal(mpPayload{
		ClientID: clientID,
		Events:   []mpEvent{{Name: name, Params: eventParams}},
	})
	if err != nil {
		logger.Warn("Failed to encode analytics event", "event", name, "error", err)
		return
	}

	select {
	case s.slots <- struct{}{}:
	default:
		logger.Warn("Dropping analytics event; collector backlog full", "event", name)
		return
	}

	s.wg.Add(1)
	go func() {
		defer func() {
			<-s.slots
			s.wg.Done()
		}()
		s.send(name, body)
	}()
}

func (s *MeasurementSink) send(name string, body []byte) {
	logger.ExternalServiceCall("ga4", "mp.collect", "event", name)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err == nil {
		req.Header.Set("Content-Type", "application/json")
		var resp *http.Response
		resp, err = s.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode >= 300 {
				err = fmt.Errorf("collector returned status %d", resp.StatusCode)
			}
		}
	}
	logger.ExternalServiceResult("ga4", "mp.collect", err, "event", name)
}

// Close waits for in-flight events to finish sending
func (s *MeasurementSink) Close() {
	s.wg.Wait()
}
