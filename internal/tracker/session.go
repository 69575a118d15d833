package tracker

import (
	"context"
	"time"

	"github.com/ashureev/retronet/internal/domain"
	"github.com/ashureev/retronet/internal/identity"
)

// GetOrCreateSession returns the persisted session, creating it on first
// access. It never fails; a write error is logged and the in-memory
// session is still returned.
func (m *Manager) GetOrCreateSession(ctx context.Context) domain.Session {
	s, err := m.ensureSession(ctx, "")
	if err != nil {
		m.logger.Warn("Failed to persist session", "error", err)
	}
	return s
}

// SessionID is shorthand for GetOrCreateSession(ctx).ID.
func (m *Manager) SessionID(ctx context.Context) string {
	return m.GetOrCreateSession(ctx).ID
}

func (m *Manager) ensureSession(ctx context.Context, avoid string) (domain.Session, error) {
	var s domain.Session

	if !m.readJSON(ctx, KeySessionID, &s.ID) || !identity.IsValidSessionID(s.ID) {
		s.ID = m.newSessionID(avoid)
		if err := m.writeJSON(ctx, KeySessionID, s.ID); err != nil {
			return s, err
		}
		m.logger.Info("Session created", "session_id", s.ID)
	}

	if !m.readJSON(ctx, KeySessionStart, &s.StartedAt) || s.StartedAt.IsZero() {
		s.StartedAt = m.now().UTC().Truncate(time.Millisecond)
		if err := m.writeJSON(ctx, KeySessionStart, s.StartedAt); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (m *Manager) newSessionID(avoid string) string {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	for {
		id := identity.NewSessionID(m.rand)
		if id != avoid {
			return id
		}
	}
}
