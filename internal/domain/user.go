// Package domain contains core domain types for RetroNet.
package domain

import "time"

// UserProfile holds the visitor's self-reported attributes.
type UserProfile struct {
	Goals      string   `json:"userGoals"`
	Interests  []string `json:"userInterests"`
	Favourites []string `json:"userFavourites"`
	Role       string   `json:"userRole"`
}

// FirstInterest returns the first interest or fallback when none is set.
func (p UserProfile) FirstInterest(fallback string) string {
	if len(p.Interests) == 0 || p.Interests[0] == "" {
		return fallback
	}
	return p.Interests[0]
}

// Preview is a generated teaser for one of the fake articles.
type Preview struct {
	Title  string `json:"title"`
	Hook   string `json:"hook"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// Snapshot is a point-in-time diagnostic view of all tracked state.
type Snapshot struct {
	SessionID      string    `json:"sessionId"`
	UserGoals      string    `json:"userGoals"`
	UserInterests  []string  `json:"userInterests"`
	UserFavourites []string  `json:"userFavourites"`
	UserRole       string    `json:"userRole"`
	UserPath       VisitPath `json:"userPath"`
	TotalTimeSpent int       `json:"totalTimeSpent"`
	SessionStart   time.Time `json:"sessionStart"`
}
