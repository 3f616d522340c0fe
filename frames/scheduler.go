package frames

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the sampling cadence while capture is active.
const DefaultInterval = time.Second

// Source produces one still frame of the primary display. Implementations
// may be slow or fail; the scheduler tolerates both.
type Source interface {
	Acquire(ctx context.Context) ([]byte, error)
}

// Scheduler drives periodic frame acquisition into a ring.
type Scheduler struct {
	source   Source
	ring     *Ring
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc

	// inFlight guarantees at most one outstanding acquisition. Ticks that
	// fire while one is pending are dropped, not queued.
	inFlight atomic.Bool
}

// NewScheduler creates a scheduler feeding ring from source. A
// non-positive interval falls back to DefaultInterval.
func NewScheduler(source Source, ring *Ring, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		source:   source,
		ring:     ring,
		interval: interval,
	}
}

// Start begins the periodic tick. Calling Start while already running is
// a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.run(ctx)
	slog.Info("screen capture started", "interval", s.interval)
}

// Stop cancels the periodic tick. Calling Stop while not running is a
// no-op. An acquisition already in flight is allowed to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	slog.Info("screen capture stopped")
}

// Running reports whether the periodic tick is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.inFlight.CompareAndSwap(false, true) {
				slog.Debug("skipping capture tick, acquisition in flight")
				continue
			}
			go func() {
				defer s.inFlight.Store(false)
				s.acquire(ctx)
			}()
		}
	}
}

// acquire performs one acquisition. Failures never escalate past a single
// tick: no frame is appended and the scheduler keeps running.
func (s *Scheduler) acquire(ctx context.Context) {
	data, err := s.source.Acquire(ctx)
	if err != nil {
		slog.Debug("frame acquisition failed", "error", err)
		return
	}
	if len(data) == 0 {
		slog.Debug("frame acquisition returned no data")
		return
	}
	s.ring.Append(Frame{CapturedAt: time.Now(), Data: data})
}
