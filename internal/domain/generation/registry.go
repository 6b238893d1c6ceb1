package generation

import (
	"context"
	"sync"
	"time"
)

// ===============================================
// Active generation registry
// ===============================================

// activeGeneration tracks one in-flight run for a thread.
type activeGeneration struct {
	messagePublicID string
	cancel          context.CancelFunc
	startedAt       time.Time
}

// Registry enforces the one-active-generation-per-thread rule. A slot is
// held from Acquire until Release; Stop cancels the run but leaves the
// slot to the run loop to release.
type Registry struct {
	mu     sync.Mutex
	active map[uint]*activeGeneration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[uint]*activeGeneration)}
}

// Acquire claims the generation slot for a thread. It returns false when
// another run already holds it.
func (r *Registry) Acquire(threadID uint, messagePublicID string, cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.active[threadID]; exists {
		return false
	}
	r.active[threadID] = &activeGeneration{
		messagePublicID: messagePublicID,
		cancel:          cancel,
		startedAt:       time.Now(),
	}
	return true
}

// Release frees the slot for a thread. Safe to call when no run is active.
func (r *Registry) Release(threadID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, threadID)
}

// Stop cancels the active run for a thread, if any. The run loop observes
// the cancellation, persists the partial message, and releases the slot.
func (r *Registry) Stop(threadID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen, exists := r.active[threadID]
	if !exists {
		return false
	}
	gen.cancel()
	return true
}

// Active returns the public ID of the message an active run is streaming
// into, if the thread has one.
func (r *Registry) Active(threadID uint) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen, exists := r.active[threadID]
	if !exists {
		return "", false
	}
	return gen.messagePublicID, true
}

// Len returns the number of active runs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// SweepStale cancels every run older than maxAge and returns the public
// IDs of the messages they were streaming into. Slots are released by the
// cancelled run loops, not here.
func (r *Registry) SweepStale(maxAge time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var swept []string
	for _, gen := range r.active {
		if gen.startedAt.Before(cutoff) {
			gen.cancel()
			swept = append(swept, gen.messagePublicID)
		}
	}
	return swept
}
