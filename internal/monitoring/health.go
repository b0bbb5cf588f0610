package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks liveness of the bar pipeline for the health endpoint.
type HealthChecker struct {
	mu        sync.RWMutex
	lastBar   time.Time
	lastPrice float64
	connected bool
	errors    []string
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LastBar   time.Time `json:"last_bar"`
	LastPrice float64   `json:"last_price"`
	Connected bool      `json:"connected"`
	Uptime    string    `json:"uptime"`
	Errors    []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RecordBar notes a processed bar for staleness tracking.
func (h *HealthChecker) RecordBar(t time.Time, price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastBar = t
	h.lastPrice = price
}

// SetConnected flips the data source connectivity flag.
func (h *HealthChecker) SetConnected(connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected = connected
}

// RecordError appends an error to the health report.
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if !h.connected || time.Since(h.lastBar) > time.Hour*24 {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		LastBar:   h.lastBar,
		LastPrice: h.lastPrice,
		Connected: h.connected,
		Uptime:    time.Since(startTime).String(),
		Errors:    h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
