package model

import (
	"sync"
	"time"
)

// EndpointHealth tracks the health status of a model endpoint.
type EndpointHealth struct {
	// Available indicates if the endpoint is currently usable.
	Available bool `json:"available"`

	// LastSuccess is the time of the last successful request.
	LastSuccess time.Time `json:"last_success,omitempty"`

	// LastFailure is the time of the last failed request.
	LastFailure time.Time `json:"last_failure,omitempty"`

	// FailureCount is the number of consecutive failures.
	FailureCount int `json:"failure_count"`

	// CircuitOpen indicates if the circuit breaker has tripped.
	CircuitOpen bool `json:"circuit_open"`

	// CircuitOpenedAt is when the circuit was opened.
	CircuitOpenedAt time.Time `json:"circuit_opened_at,omitempty"`
}

// HealthConfig configures circuit-breaker behavior.
type HealthConfig struct {
	// FailureThreshold is the number of consecutive failures before
	// the circuit opens.
	FailureThreshold int

	// RecoveryTimeout is how long an open circuit stays open before a
	// probe request is allowed through.
	RecoveryTimeout time.Duration
}

// DefaultHealthConfig returns sensible circuit-breaker defaults.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  30 * time.Second,
	}
}

type healthState struct {
	mu       sync.Mutex
	config   HealthConfig
	statuses map[string]*EndpointHealth
}

func newHealthState(cfg HealthConfig) *healthState {
	return &healthState{
		config:   cfg,
		statuses: make(map[string]*EndpointHealth),
	}
}

// MarkEndpointSuccess records a successful request, closing the
// circuit and resetting the failure count.
func (r *Registry) MarkEndpointSuccess(name string) {
	h := r.health
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.statuses[name]
	if status == nil {
		status = &EndpointHealth{}
		h.statuses[name] = status
	}
	status.Available = true
	status.LastSuccess = time.Now()
	status.FailureCount = 0
	status.CircuitOpen = false
}

// MarkEndpointFailure records a failed request, opening the circuit
// once the failure threshold is reached.
func (r *Registry) MarkEndpointFailure(name string) {
	h := r.health
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.statuses[name]
	if status == nil {
		status = &EndpointHealth{Available: true}
		h.statuses[name] = status
	}
	status.LastFailure = time.Now()
	status.FailureCount++
	if status.FailureCount >= h.config.FailureThreshold && !status.CircuitOpen {
		status.CircuitOpen = true
		status.CircuitOpenedAt = time.Now()
		status.Available = false
	}
}

// IsEndpointAvailable reports whether the endpoint may be tried. An
// open circuit allows a probe once the recovery timeout elapses.
func (r *Registry) IsEndpointAvailable(name string) bool {
	h := r.health
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.statuses[name]
	if status == nil {
		return true
	}
	if !status.CircuitOpen {
		return true
	}
	return time.Since(status.CircuitOpenedAt) >= h.config.RecoveryTimeout
}

// EndpointHealthSnapshot returns a copy of the health status for an
// endpoint, or nil if no requests have been recorded.
func (r *Registry) EndpointHealthSnapshot(name string) *EndpointHealth {
	h := r.health
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.statuses[name]
	if status == nil {
		return nil
	}
	cp := *status
	return &cp
}
