package tracker

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/retronet/internal/store"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fixture struct {
	m     *Manager
	store *store.MemoryStore
	clock *fakeClock
	gen   *fakeGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMemory()
	clock := newFakeClock()
	gen := &fakeGenerator{}
	m, err := New(context.Background(), s, gen,
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewPCG(7, 11))),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return &fixture{m: m, store: s, clock: clock, gen: gen}
}
