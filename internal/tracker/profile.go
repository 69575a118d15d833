package tracker

import (
	"context"

	"github.com/ashureev/retronet/internal/domain"
)

// Goals returns the stored goals, or "".
func (m *Manager) Goals(ctx context.Context) string {
	return m.readString(ctx, KeyUserGoals)
}

// SetGoals overwrites the stored goals.
func (m *Manager) SetGoals(ctx context.Context, goals string) error {
	return m.writeJSON(ctx, KeyUserGoals, goals)
}

// Interests returns the stored interests, or an empty slice.
func (m *Manager) Interests(ctx context.Context) []string {
	return m.readStrings(ctx, KeyUserInterests)
}

// SetInterests overwrites the stored interests.
func (m *Manager) SetInterests(ctx context.Context, interests []string) error {
	return m.writeJSON(ctx, KeyUserInterests, nonNil(interests))
}

// Favourites returns the stored favourites, or an empty slice.
func (m *Manager) Favourites(ctx context.Context) []string {
	return m.readStrings(ctx, KeyUserFavourites)
}

// SetFavourites overwrites the stored favourites.
func (m *Manager) SetFavourites(ctx context.Context, favourites []string) error {
	return m.writeJSON(ctx, KeyUserFavourites, nonNil(favourites))
}

// Role returns the stored role, or "".
func (m *Manager) Role(ctx context.Context) string {
	return m.readString(ctx, KeyUserRole)
}

// SetRole overwrites the stored role.
func (m *Manager) SetRole(ctx context.Context, role string) error {
	return m.writeJSON(ctx, KeyUserRole, role)
}

// Profile returns every profile attribute at once.
func (m *Manager) Profile(ctx context.Context) domain.UserProfile {
	return domain.UserProfile{
		Goals:      m.Goals(ctx),
		Interests:  m.Interests(ctx),
		Favourites: m.Favourites(ctx),
		Role:       m.Role(ctx),
	}
}

// PageTitle returns the title used for {{PAGE_TITLE}}, or "Page".
func (m *Manager) PageTitle(ctx context.Context) string {
	if t := m.readString(ctx, KeyPageTitle); t != "" {
		return t
	}
	return "Page"
}

// SetPageTitle overwrites the current page title.
func (m *Manager) SetPageTitle(ctx context.Context, title string) error {
	return m.writeJSON(ctx, KeyPageTitle, title)
}

// APIKey returns the cached API key entry, or "". The key is kept only
// as preserved data; generation always goes through the relay.
func (m *Manager) APIKey(ctx context.Context) string {
	return m.readString(ctx, KeyAPIKey)
}

// SetAPIKey stores the API key entry.
func (m *Manager) SetAPIKey(ctx context.Context, key string) error {
	return m.writeJSON(ctx, KeyAPIKey, key)
}

func (m *Manager) readString(ctx context.Context, key string) string {
	var s string
	if !m.readJSON(ctx, key, &s) {
		return ""
	}
	return s
}

func (m *Manager) readStrings(ctx context.Context, key string) []string {
	var out []string
	if !m.readJSON(ctx, key, &out) || out == nil {
		return []string{}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
