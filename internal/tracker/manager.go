// Package tracker implements the visitor-side state manager: session
// identity, the visit path with time on page, the user profile, content
// generation through the relay, and template variable injection.
//
// All state lives in a store.Store partition. Values are JSON-encoded and
// every write goes straight through to the store.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ashureev/retronet/internal/relay"
	"github.com/ashureev/retronet/internal/store"
)

// Persisted keys.
const (
	KeySessionID      = "sessionId"
	KeySessionStart   = "sessionStart"
	KeyUserPath       = "userPath"
	KeyCurrentPage    = "currentPage"
	KeyPageStartTime  = "pageStartTime"
	KeyPageTitle      = "currentPageTitle"
	KeyUserGoals      = "userGoals"
	KeyUserInterests  = "userInterests"
	KeyUserFavourites = "userFavourites"
	KeyUserRole       = "userRole"
	KeyAPIKey         = "claudeApiKey"
)

// preservedKeys survive ClearAllData.
var preservedKeys = map[string]bool{
	KeyAPIKey: true,
}

// Manager owns all persisted visitor state for one storage partition.
type Manager struct {
	store  store.Store
	gen    relay.Generator
	now    func() time.Time
	logger *slog.Logger

	// mu serializes read-modify-write cycles on the path, which the
	// scheduler updates from its own goroutine.
	mu sync.Mutex

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRand overrides the random source used for session ids and author names.
func WithRand(r *rand.Rand) Option {
	return func(m *Manager) { m.rand = r }
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a Manager over s and ensures a session and an empty path
// exist. gen may be nil, in which case every generation call falls back.
func New(ctx context.Context, s store.Store, gen relay.Generator, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:  s,
		gen:    gen,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rand == nil {
		seed := uint64(m.now().UnixNano())
		m.rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	if err := m.initialize(ctx, ""); err != nil {
		return nil, err
	}
	return m, nil
}

// initialize creates any missing session keys. A session id equal to
// avoid is never issued.
func (m *Manager) initialize(ctx context.Context, avoid string) error {
	if _, err := m.ensureSession(ctx, avoid); err != nil {
		return err
	}
	if _, ok, err := m.store.Get(ctx, KeyUserPath); err != nil || !ok {
		if err := m.writeJSON(ctx, KeyUserPath, []any{}); err != nil {
			return err
		}
	}
	return nil
}

// readJSON decodes key into dst. Missing keys, store errors and malformed
// values all report false and leave dst untouched.
func (m *Manager) readJSON(ctx context.Context, key string, dst any) bool {
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn("State read failed, using default", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		m.logger.Debug("Malformed persisted value, using default", "key", key, "error", err)
		return false
	}
	return true
}

func (m *Manager) writeJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (m *Manager) intN(n int) int {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	return m.rand.IntN(n)
}
