package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kevelmun/portfolio/internal/contact"
)

// CategoryCount is the number of terminal views for one category.
type CategoryCount struct {
	Category string `json:"category"`
	Views    int64  `json:"views"`
}

// Stats summarizes site activity for the admin dashboard.
type Stats struct {
	TotalVisitors    int64                `json:"total_visitors"`
	UniqueVisitors   int64                `json:"unique_visitors"`
	VisitorsToday    int64                `json:"visitors_today"`
	VisitorsThisWeek int64                `json:"visitors_this_week"`
	TotalContacts    int64                `json:"total_contacts"`
	TerminalViews    []CategoryCount      `json:"terminal_views"`
	RecentVisitors   []Visit              `json:"recent_visitors"`
	RecentContacts   []contact.Submission `json:"recent_contacts"`
}

// Stats computes the dashboard summary. "Today" starts at midnight UTC
// of now; "this week" is the trailing seven days.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE at >= ?`, []any{unix(midnight)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE at >= ?`, []any{unix(weekAgo)}},
		{&stats.TotalContacts, `SELECT COUNT(*) FROM contact_messages`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("store: stats: %w", err)
		}
	}

	var err error
	if stats.TerminalViews, err = s.terminalViews(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentContacts, err = s.ListContacts(ctx, 10); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) terminalViews(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS views
		FROM terminal_views
		GROUP BY category
		ORDER BY views DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("store: terminal views: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Views); err != nil {
			return nil, fmt.Errorf("store: terminal views: %w", err)
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}
