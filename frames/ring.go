// Package frames stores recent screen captures and correlates them with
// speech time windows.
package frames

import (
	"sync"
	"time"
)

// DefaultCapacity bounds how many frames are retained at once.
const DefaultCapacity = 20

// Frame is one captured still image of the display.
// Immutable once created.
type Frame struct {
	CapturedAt time.Time
	Data       []byte
}

// Ring is a bounded FIFO store of frames. Insertion order equals capture
// order equals timestamp order; once capacity is exceeded the oldest
// frames are evicted first.
type Ring struct {
	mu       sync.Mutex
	capacity int
	frames   []Frame
}

// NewRing creates a ring with the given capacity. Non-positive capacity
// falls back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		capacity: capacity,
		frames:   make([]Frame, 0, capacity),
	}
}

// Append adds a frame to the tail, evicting from the head until the ring
// is within capacity.
func (r *Ring) Append(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames = append(r.frames, f)
	if excess := len(r.frames) - r.capacity; excess > 0 {
		r.frames = append(r.frames[:0], r.frames[excess:]...)
	}
}

// Snapshot returns a copy of the current contents in insertion order.
// The copy is stable under subsequent appends.
func (r *Ring) Snapshot() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Len returns the number of buffered frames.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}
