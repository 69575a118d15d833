package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/ashureev/retronet/internal/domain"
)

// TrackPageVisit appends a new open record for pageName and marks it as
// the current page. The previous record keeps whatever time it last had.
func (m *Manager) TrackPageVisit(ctx context.Context, pageName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	path := m.readPath(ctx)
	path = append(path, domain.VisitRecord{
		Page:      pageName,
		EnteredAt: now.UTC().Truncate(time.Millisecond),
	})

	if err := m.writeJSON(ctx, KeyUserPath, path); err != nil {
		return fmt.Errorf("track page visit: %w", err)
	}
	if err := m.writeJSON(ctx, KeyCurrentPage, pageName); err != nil {
		return fmt.Errorf("track page visit: %w", err)
	}
	if err := m.writeJSON(ctx, KeyPageStartTime, now.UnixMilli()); err != nil {
		return fmt.Errorf("track page visit: %w", err)
	}
	m.logger.Debug("Page visit tracked", "page", pageName, "path_length", len(path))
	return nil
}

// UpdateTimeSpent writes the whole seconds elapsed since the current
// record was opened into that record and returns it. With no open record
// it does nothing and returns 0.
func (m *Manager) UpdateTimeSpent(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.readPath(ctx)
	cur := path.Current()
	if cur == nil {
		return 0, nil
	}
	var startMillis int64
	if !m.readJSON(ctx, KeyPageStartTime, &startMillis) {
		return 0, nil
	}

	elapsed := int(m.now().Sub(time.UnixMilli(startMillis)) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	cur.TimeSpentSeconds = elapsed

	if err := m.writeJSON(ctx, KeyUserPath, path); err != nil {
		return elapsed, fmt.Errorf("update time spent: %w", err)
	}
	return elapsed, nil
}

// TotalTimeSpent sums time spent across every record, including the
// open one as of its last update.
func (m *Manager) TotalTimeSpent(ctx context.Context) int {
	return m.Path(ctx).TotalSeconds()
}

// Path returns the visit path in chronological order.
func (m *Manager) Path(ctx context.Context) domain.VisitPath {
	return m.readPath(ctx)
}

// CurrentPage returns the most recently tracked page name, or "".
func (m *Manager) CurrentPage(ctx context.Context) string {
	var page string
	m.readJSON(ctx, KeyCurrentPage, &page)
	return page
}

func (m *Manager) readPath(ctx context.Context) domain.VisitPath {
	var path domain.VisitPath
	if !m.readJSON(ctx, KeyUserPath, &path) || path == nil {
		return domain.VisitPath{}
	}
	return path
}
