package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// maxRecentSearches bounds the recent_searches table.
const maxRecentSearches = 100

// AddRecentSearch records a submitted query. Blank queries are ignored.
// Repeating a query moves it to the front.
func (s *Store) AddRecentSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recent_searches (query, uses, last_used) VALUES (?, 1, ?)
			ON CONFLICT(query) DO UPDATE SET uses = uses + 1, last_used = excluded.last_used`,
			query, s.now().UnixNano()); err != nil {
			return fmt.Errorf("failed to record search: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM recent_searches WHERE query NOT IN (
				SELECT query FROM recent_searches ORDER BY last_used DESC LIMIT ?
			)`, maxRecentSearches); err != nil {
			return fmt.Errorf("failed to trim searches: %w", err)
		}
		return nil
	})
}

// RecentSearches returns up to limit queries, most recent first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = maxRecentSearches
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT query FROM recent_searches ORDER BY last_used DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ClearRecentSearches forgets all recorded queries.
func (s *Store) ClearRecentSearches(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_searches`); err != nil {
		return fmt.Errorf("failed to clear searches: %w", err)
	}
	return nil
}
