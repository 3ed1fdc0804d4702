package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"FakeNewsDetector/internal/ports"
	"FakeNewsDetector/internal/usecase"
)

// Factory builds a fresh controller for a new session.
type Factory func() *usecase.Controller

// Registry keeps a mapping from session ids to their controllers.
type Registry struct {
	factory     Factory
	ttl         time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*usecase.Controller
}

var _ ports.SessionSweeper = (*Registry)(nil)

// NewRegistry builds an empty registry; ttl <= 0 keeps sessions forever and
// maxSessions <= 0 leaves the number of sessions unbounded.
func NewRegistry(factory Factory, ttl time.Duration, maxSessions int) *Registry {
	return &Registry{
		factory:     factory,
		ttl:         ttl,
		maxSessions: maxSessions,
		sessions:    map[string]*usecase.Controller{},
	}
}

// Get returns the controller of an existing session.
func (r *Registry) Get(id string) (*usecase.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctrl, ok := r.sessions[id]
	return ctrl, ok
}

// Open returns the session for id, creating one under a new id when it is
// unknown. An existing session counts as used, so a sweep never removes a
// session between Open and the first call on its controller. When the
// registry is full the least recently used idle session makes room.
func (r *Registry) Open(id string) (string, *usecase.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctrl, ok := r.sessions[id]; ok && id != "" {
		ctrl.Touch()
		return id, ctrl
	}

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.evictOldestLocked()
	}

	newID := uuid.NewString()
	ctrl := r.factory()
	r.sessions[newID] = ctrl
	return newID, ctrl
}

// evictOldestLocked drops the longest idle session that has no request in
// flight. With every session loading nothing is evicted.
func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, ctrl := range r.sessions {
		if ctrl.Loading() {
			continue
		}
		if at := ctrl.IdleSince(); oldestID == "" || at.Before(oldestAt) {
			oldestID, oldestAt = id, at
		}
	}
	if oldestID != "" {
		delete(r.sessions, oldestID)
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the ttl. Sessions with a
// request in flight are kept.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, ctrl := range r.sessions {
		if ctrl.Loading() {
			continue
		}
		if now.Sub(ctrl.IdleSince()) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
