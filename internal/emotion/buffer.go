package emotion

import (
	"sync"
	"time"
)

// Sample is one classifier reading. Age and Gender are optional; the
// zero value means the classifier did not report them.
type Sample struct {
	Vector     Vector    `json:"vector"`
	Confidence float64   `json:"confidence"`
	CapturedAt time.Time `json:"captured_at"`
	Age        int       `json:"age,omitempty"`
	Gender     string    `json:"gender,omitempty"`
}

// Buffer keeps the most recent samples for a session, bounded by a
// fixed capacity. Append, Latest, WindowedAverage and Clear are safe
// for concurrent use; the sampling and autosave goroutines share one
// Buffer per session.
type Buffer struct {
	mu       sync.Mutex
	samples  []Sample
	capacity int
}

// NewBuffer creates a buffer holding at most capacity samples.
// Non-positive capacities fall back to 10.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 10
	}
	return &Buffer{capacity: capacity}
}

// Append adds s at the end, evicting from the front until the buffer
// is back within capacity.
func (b *Buffer) Append(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = append(b.samples, s)
	if n := len(b.samples) - b.capacity; n > 0 {
		b.samples = append(b.samples[:0:0], b.samples[n:]...)
	}
}

// Latest returns the most recently appended sample.
func (b *Buffer) Latest() (Sample, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.samples) == 0 {
		return Sample{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// WindowedAverage returns the channel-wise mean of the samples captured
// within window of now. The second return is false when no sample falls
// inside the window.
func (b *Buffer) WindowedAverage(window time.Duration) (Vector, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := time.Now().Add(-window)
	var sum Vector
	count := 0
	for _, s := range b.samples {
		if s.CapturedAt.Before(cutoff) {
			continue
		}
		sum = sum.Add(s.Vector)
		count++
	}
	if count == 0 {
		return Vector{}, false
	}
	return sum.Scale(1 / float64(count)), true
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Snapshot returns a copy of the buffered samples in insertion order.
func (b *Buffer) Snapshot() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Sample, len(b.samples))
	copy(out, b.samples)
	return out
}
