package jobs

import (
	"log/slog"
	"sync"
	"time"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/orchestrator"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that
// falls this far behind is dropped rather than allowed to block the
// job's other subscribers.
const subscriberBuffer = 64

// terminalRetention is how long a job's terminal event stays
// replayable for late subscribers.
const terminalRetention = 30 * time.Minute

type subscriber struct {
	ch chan orchestrator.Event
}

// Hub fans progress events out to per-job subscriber sets. Broadcasts
// preserve the orchestrator's emission order; a slow subscriber is
// dropped, never waited on.
type Hub struct {
	mu        sync.Mutex
	subs      map[string]map[*subscriber]struct{}
	terminals map[string]orchestrator.Event
	retention time.Duration
	logger    *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubLogger sets the logger.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithTerminalRetention overrides how long terminal events replay.
func WithTerminalRetention(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.retention = d
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subs:      make(map[string]map[*subscriber]struct{}),
		terminals: make(map[string]orchestrator.Event),
		retention: terminalRetention,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a sink for a job's events and returns the event
// channel plus an unsubscribe function. If the job already terminated,
// the channel immediately replays the synthesized terminal event and
// closes; the unsubscribe function is then a no-op.
func (h *Hub) Subscribe(jobID string) (<-chan orchestrator.Event, func()) {
	h.mu.Lock()

	if terminal, done := h.terminals[jobID]; done {
		h.mu.Unlock()
		ch := make(chan orchestrator.Event, 1)
		ch <- terminal
		close(ch)
		return ch, func() {}
	}

	sub := &subscriber{ch: make(chan orchestrator.Event, subscriberBuffer)}
	set, ok := h.subs[jobID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[jobID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	return sub.ch, func() { h.unsubscribe(jobID, sub) }
}

// Broadcast delivers one event to every subscriber of the job, in
// call order. A terminal event additionally closes all subscribers and
// is retained for late-subscriber replay.
func (h *Hub) Broadcast(jobID string, event orchestrator.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[jobID] {
		select {
		case sub.ch <- event:
		default:
			// Buffer full: this subscriber is too slow to keep.
			h.logger.Warn("Dropping slow stream subscriber", "job_id", jobID)
			close(sub.ch)
			delete(h.subs[jobID], sub)
		}
	}

	if event.IsTerminal() {
		for sub := range h.subs[jobID] {
			close(sub.ch)
		}
		delete(h.subs, jobID)

		h.terminals[jobID] = event
		time.AfterFunc(h.retention, func() { h.expireTerminal(jobID) })
	}
}

// SubscriberCount returns the number of live subscribers for a job.
func (h *Hub) SubscriberCount(jobID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[jobID])
}

// Forget drops all state for a job: open subscribers are closed and
// any retained terminal event is discarded.
func (h *Hub) Forget(jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[jobID] {
		close(sub.ch)
	}
	delete(h.subs, jobID)
	delete(h.terminals, jobID)
}

func (h *Hub) unsubscribe(jobID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[jobID]
	if !ok {
		return
	}
	if _, live := set[sub]; !live {
		return
	}
	close(sub.ch)
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, jobID)
	}
}

func (h *Hub) expireTerminal(jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.terminals, jobID)
}
