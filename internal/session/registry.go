package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/emotion"
)

// Registry tracks live sessions: each active session owns one sample
// buffer and the stop function of its sampler tasks. Built once at
// startup and injected into the API and the bus handler.
type Registry struct {
	mu             sync.Mutex
	sessions       map[uuid.UUID]*live
	bufferCapacity int
}

type live struct {
	buffer *emotion.Buffer
	stop   func()
}

func NewRegistry(bufferCapacity int) *Registry {
	return &Registry{
		sessions:       make(map[uuid.UUID]*live),
		bufferCapacity: bufferCapacity,
	}
}

// Begin allocates a buffer for the session and registers the sampler
// stop obtained from begin. Returns false if the session is already live.
func (r *Registry) Begin(id uuid.UUID, begin func(*emotion.Buffer) (stop func())) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		return false
	}
	buf := emotion.NewBuffer(r.bufferCapacity)
	// begin runs under the lock so a concurrent End cannot observe the
	// session without its stop function.
	r.sessions[id] = &live{buffer: buf, stop: begin(buf)}
	return true
}

// Buffer returns the live buffer for a session.
func (r *Registry) Buffer(id uuid.UUID) (*emotion.Buffer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return entry.buffer, true
}

// End stops the session's sampler and discards its buffer. Returns
// false if the session was not live.
func (r *Registry) End(id uuid.UUID) bool {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	if entry.stop != nil {
		entry.stop()
	}
	entry.buffer.Clear()
	return true
}

// EndAll stops every live session; used during shutdown.
func (r *Registry) EndAll() {
	r.mu.Lock()
	entries := make([]*live, 0, len(r.sessions))
	for id, entry := range r.sessions {
		entries = append(entries, entry)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, entry := range entries {
		if entry.stop != nil {
			entry.stop()
		}
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
