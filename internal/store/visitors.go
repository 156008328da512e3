package store

import (
	"context"
	"fmt"
	"time"
)

// Visit is one tracked page view. IP addresses are stored only as salted
// hashes.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	At        time.Time `json:"timestamp"`
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, at) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, unix(v.At))
	if err != nil {
		return fmt.Errorf("store: record visit: %w", err)
	}
	return nil
}

// RecentVisitors returns the latest visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, at
		FROM visitors
		ORDER BY at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &at); err != nil {
			return nil, fmt.Errorf("store: scan visit: %w", err)
		}
		v.At = fromUnix(at)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// PurgeVisitorsBefore deletes visits older than cutoff and returns how
// many were removed.
func (s *Store) PurgeVisitorsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE at < ?`, unix(cutoff))
	if err != nil {
		return 0, fmt.Errorf("store: purge visitors: %w", err)
	}
	return res.RowsAffected()
}

// RecordTerminalView stores that a terminal category was opened.
func (s *Store) RecordTerminalView(ctx context.Context, category string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO terminal_views (category, at) VALUES (?, ?)`, category, unix(at))
	if err != nil {
		return fmt.Errorf("store: record terminal view: %w", err)
	}
	return nil
}
