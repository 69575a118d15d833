package domain

import (
	"time"
)

// Session identifies one browsing instance.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
}

// VisitRecord is one entry in the visit path.
type VisitRecord struct {
	Page             string    `json:"page"`
	EnteredAt        time.Time `json:"timestamp"`
	TimeSpentSeconds int       `json:"timeSpent"`
}

// VisitPath is the chronological log of visited pages. Only the last
// record is ever open for time updates.
type VisitPath []VisitRecord

// Current returns the last record, or nil when the path is empty.
func (p VisitPath) Current() *VisitRecord {
	if len(p) == 0 {
		return nil
	}
	return &p[len(p)-1]
}

// TotalSeconds sums time spent over every record, open or closed.
func (p VisitPath) TotalSeconds() int {
	total := 0
	for _, v := range p {
		total += v.TimeSpentSeconds
	}
	return total
}

// Pages returns the page names in visit order.
func (p VisitPath) Pages() []string {
	pages := make([]string, 0, len(p))
	for _, v := range p {
		pages = append(pages, v.Page)
	}
	return pages
}
