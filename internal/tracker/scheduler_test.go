package tracker

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestSchedulerUpdatesOpenRecord(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t)
	ctx := context.Background()
	mustTrack(t, f.m, "feed")
	f.clock.Advance(9 * time.Second)

	s := NewScheduler(f.m, 5*time.Millisecond)
	s.Start(ctx)
	s.Start(ctx) // second start is a no-op
	if !s.Running() {
		t.Fatal("expected scheduler to be running")
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.m.TotalTimeSpent(ctx) != 9 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for scheduled update, total=%d", f.m.TotalTimeSpent(ctx))
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Fatal("expected scheduler to be stopped")
	}
}

func TestSchedulerStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := NewScheduler(f.m, time.Hour)
	s.Start(ctx)
	cancel()
	s.Stop()
}

func TestSchedulerFlush(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := NewScheduler(f.m, 0)
	if s.interval != DefaultUpdateInterval {
		t.Fatalf("expected default interval, got %v", s.interval)
	}

	mustTrack(t, f.m, "article-1")
	f.clock.Advance(42 * time.Second)

	spent, err := s.Flush(ctx)
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if spent != 42 || f.m.Path(ctx)[0].TimeSpentSeconds != 42 {
		t.Fatalf("expected flushed 42s, got %d / %+v", spent, f.m.Path(ctx))
	}
}
