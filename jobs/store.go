// Package jobs holds the in-memory generation job store and the
// per-job progress hub. Nothing here is durable: restarting the
// process forgets all jobs, by design of the service contract.
package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/orchestrator"
)

// Capacity and retention defaults.
const (
	// MaxSessions bounds the number of stored jobs. On overflow the
	// oldest non-running job is evicted.
	MaxSessions = 1000

	// JobTTL is how long a non-running job stays retrievable after
	// creation. Running jobs never expire.
	JobTTL = 30 * time.Minute
)

// Status is the job lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status ends the lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress is the coarse position of a run, for status polling.
type Progress struct {
	Phase         string `json:"phase"`
	Iteration     int    `json:"iteration,omitempty"`
	MaxIterations int    `json:"maxIterations,omitempty"`
	CurrentAgent  string `json:"currentAgent,omitempty"`
}

// Job is one generation run record. The owning orchestrator is the
// only writer after creation; transport endpoints read snapshots.
type Job struct {
	ID        string               `json:"jobId"`
	UserID    string               `json:"userId"`
	Status    Status               `json:"status"`
	Progress  Progress             `json:"progress"`
	Result    *orchestrator.Result `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Store is the bounded in-memory job map. Safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	jobs        map[string]*Job
	maxSessions int
	ttl         time.Duration
	now         func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxSessions overrides the capacity bound.
func WithMaxSessions(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithTTL overrides the retention window.
func WithTTL(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithClock injects a clock, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		jobs:        make(map[string]*Job),
		maxSessions: MaxSessions,
		ttl:         JobTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new pending job. When the store is full, the
// oldest non-running job is evicted first; if every job is running,
// creation fails.
func (s *Store) Create(jobID, userID string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[jobID]; exists {
		return Job{}, fmt.Errorf("job %s already exists", jobID)
	}

	if len(s.jobs) >= s.maxSessions {
		if !s.evictOldestLocked() {
			return Job{}, fmt.Errorf("job store full: %d jobs all running", len(s.jobs))
		}
	}

	now := s.now()
	job := &Job{
		ID:        jobID,
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[jobID] = job
	return *job, nil
}

// Get returns a snapshot of the job. Jobs older than the TTL are
// reported absent (and dropped) unless still running.
func (s *Store) Get(jobID string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	if s.expiredLocked(job) {
		delete(s.jobs, jobID)
		return Job{}, false
	}
	return *job, true
}

// Update applies an atomic mutation to one job and bumps UpdatedAt.
func (s *Store) Update(jobID string, patch func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	patch(job)
	job.UpdatedAt = s.now()
	return nil
}

// Delete removes a job.
func (s *Store) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

// ListByUser returns snapshots of the user's unexpired jobs, oldest
// first.
func (s *Store) ListByUser(userID string) []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Job
	for _, job := range s.jobs {
		if job.UserID != userID || s.expiredLocked(job) {
			continue
		}
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of stored jobs, expired entries included
// until their next Get.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// CountRunning returns how many jobs are currently running for the
// user, or globally when userID is empty. The transport uses this for
// its concurrency caps.
func (s *Store) CountRunning(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, job := range s.jobs {
		if job.Status != StatusRunning && job.Status != StatusPending {
			continue
		}
		if userID == "" || job.UserID == userID {
			n++
		}
	}
	return n
}

func (s *Store) expiredLocked(job *Job) bool {
	if job.Status == StatusRunning {
		return false
	}
	return s.now().Sub(job.CreatedAt) >= s.ttl
}

// evictOldestLocked removes the oldest non-running job. Returns false
// when no job is evictable.
func (s *Store) evictOldestLocked() bool {
	var oldest *Job
	for _, job := range s.jobs {
		if job.Status == StatusRunning {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = job
		}
	}
	if oldest == nil {
		return false
	}
	delete(s.jobs, oldest.ID)
	return true
}
