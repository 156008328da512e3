package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kevelmun/portfolio/internal/contact"
)

// SaveContact stores a submission, assigning an ID when it has none, and
// returns the stored value.
func (s *Store) SaveContact(ctx context.Context, sub contact.Submission) (contact.Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.Message.Name, sub.Message.Email, sub.Message.Message, unix(sub.CreatedAt))
	if err != nil {
		return contact.Submission{}, fmt.Errorf("store: save contact: %w", err)
	}
	return sub, nil
}

// ListContacts returns stored submissions, newest first.
func (s *Store) ListContacts(ctx context.Context, limit int) ([]contact.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list contacts: %w", err)
	}
	defer rows.Close()

	var subs []contact.Submission
	for rows.Next() {
		var sub contact.Submission
		var created int64
		if err := rows.Scan(&sub.ID, &sub.Message.Name, &sub.Message.Email, &sub.Message.Message, &created); err != nil {
			return nil, fmt.Errorf("store: scan contact: %w", err)
		}
		sub.CreatedAt = fromUnix(created)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// DeleteContact removes a submission. It reports whether a row existed.
func (s *Store) DeleteContact(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("store: delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: delete contact: %w", err)
	}
	return n > 0, nil
}
