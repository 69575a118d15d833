package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultUpdateInterval is how often the open record's time is refreshed.
const DefaultUpdateInterval = 5 * time.Second

// Scheduler periodically persists the open visit record's elapsed time.
// The host calls Start when a page opens, Flush on teardown, and Stop to
// end the background loop.
type Scheduler struct {
	m        *Manager
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler for m. A non-positive interval uses
// DefaultUpdateInterval.
func NewScheduler(m *Manager, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	return &Scheduler{m: m, interval: interval}
}

// Start launches the update loop. It is a no-op if already running. The
// loop also ends when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	ticker := time.NewTicker(s.interval)
	go func(done chan struct{}) {
		defer close(done)
		defer ticker.Stop()
		slog.Debug("Time tracker started", "interval", s.interval)

		for {
			select {
			case <-ticker.C:
				if _, err := s.m.UpdateTimeSpent(ctx); err != nil {
					slog.Warn("Time tracker update failed", "error", err)
				}
			case <-ctx.Done():
				slog.Debug("Time tracker stopped", "reason", ctx.Err())
				return
			}
		}
	}(s.done)
}

// Stop ends the update loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the update loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Flush records the open visit's elapsed time immediately. It is the
// teardown hook and may be called whether or not the loop is running.
func (s *Scheduler) Flush(ctx context.Context) (int, error) {
	return s.m.UpdateTimeSpent(ctx)
}
