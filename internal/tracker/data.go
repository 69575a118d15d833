package tracker

import (
	"context"
	"fmt"

	"github.com/ashureev/retronet/internal/domain"
)

// ClearAllData removes every persisted key except the preserved API key
// entry, then starts a fresh session with an empty path. The new session
// id always differs from the old one.
func (m *Manager) ClearAllData(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var previous string
	m.readJSON(ctx, KeySessionID, &previous)

	keys, err := m.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	removed := 0
	for _, key := range keys {
		if preservedKeys[key] {
			continue
		}
		if err := m.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		removed++
	}

	if err := m.initialize(ctx, previous); err != nil {
		return fmt.Errorf("reinitialize: %w", err)
	}
	m.logger.Info("Visitor data cleared", "keys_removed", removed, "previous_session_id", previous)
	return nil
}

// ExportData returns a read-only snapshot of all tracked state for
// diagnostics.
func (m *Manager) ExportData(ctx context.Context) domain.Snapshot {
	session := m.GetOrCreateSession(ctx)
	profile := m.Profile(ctx)
	path := m.Path(ctx)

	return domain.Snapshot{
		SessionID:      session.ID,
		UserGoals:      profile.Goals,
		UserInterests:  profile.Interests,
		UserFavourites: profile.Favourites,
		UserRole:       profile.Role,
		UserPath:       path,
		TotalTimeSpent: path.TotalSeconds(),
		SessionStart:   session.StartedAt,
	}
}
