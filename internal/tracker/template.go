package tracker

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Fixed decorative template values.
const (
	SiteName     = "RetroNet"
	adminTitle   = "Database Admin Panel"
	dbServer     = "localhost:3306"
	dbName       = "user_profiles"
	adminUser    = "admin"
	tableCount   = "12"
	totalRows    = "847294"
	dbSize       = "2.4 GB"
	currentTable = "user_sessions"
)

// TemplateTokens lists every placeholder InjectVariables understands.
var TemplateTokens = []string{
	"PAGE_TITLE", "SITE_NAME", "YEAR", "AUTHOR", "DATE", "USER_ID", "SESSION_START",
	"ADMIN_TITLE", "DB_SERVER", "DB_NAME", "ADMIN_USER", "TABLE_COUNT", "TOTAL_ROWS",
	"DB_SIZE", "CURRENT_TABLE",
}

// TemplateValues computes the current value for each template token.
func (m *Manager) TemplateValues(ctx context.Context) map[string]string {
	now := m.now()
	session := m.GetOrCreateSession(ctx)

	return map[string]string{
		"PAGE_TITLE":    m.PageTitle(ctx),
		"SITE_NAME":     SiteName,
		"YEAR":          strconv.Itoa(now.Year()),
		"AUTHOR":        m.AuthorName(),
		"DATE":          now.Format("January 2, 2006"),
		"USER_ID":       session.ID,
		"SESSION_START": session.StartedAt.UTC().Format(time.RFC3339),
		"ADMIN_TITLE":   adminTitle,
		"DB_SERVER":     dbServer,
		"DB_NAME":       dbName,
		"ADMIN_USER":    adminUser,
		"TABLE_COUNT":   tableCount,
		"TOTAL_ROWS":    totalRows,
		"DB_SIZE":       dbSize,
		"CURRENT_TABLE": currentTable,
	}
}

// InjectVariables replaces every {{TOKEN}} occurrence in tmpl in a single
// pass. Unknown placeholders are left as is, and substituted values are
// never rescanned.
func (m *Manager) InjectVariables(ctx context.Context, tmpl string) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	values := m.TemplateValues(ctx)
	pairs := make([]string, 0, 2*len(TemplateTokens))
	for _, tok := range TemplateTokens {
		pairs = append(pairs, "{{"+tok+"}}", values[tok])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
