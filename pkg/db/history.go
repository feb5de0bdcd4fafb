package db

import (
	"fmt"
	"strings"
)

// maxHistory caps how many delivered titles are kept for deduplication.
const maxHistory = 50

// HistoryEntry is one previously delivered idea.
type HistoryEntry struct {
	Title  string
	Source string
	SeenAt string
}

// AddHistory records delivered titles and prunes the table down to the most
// recent maxHistory rows.
func (db *DB) AddHistory(entries []HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if e.Title == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO idea_history (title, source) VALUES (?, ?)",
			e.Title, e.Source,
		); err != nil {
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	}

	if _, err := tx.Exec(`
		DELETE FROM idea_history WHERE id NOT IN (
			SELECT id FROM idea_history ORDER BY id DESC LIMIT ?
		)`, maxHistory,
	); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	return tx.Commit()
}

// RecentTitles returns up to limit of the most recently delivered titles,
// newest first.
func (db *DB) RecentTitles(limit int) ([]string, error) {
	rows, err := db.Query(
		"SELECT title FROM idea_history ORDER BY id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// RecentEntries returns full history rows for the history command.
func (db *DB) RecentEntries(limit int) ([]HistoryEntry, error) {
	rows, err := db.Query(
		"SELECT title, COALESCE(source, ''), seen_at FROM idea_history ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Title, &e.Source, &e.SeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SeenTitles returns a lookup set of lowercased title prefixes for
// deduplication against collected items.
func (db *DB) SeenTitles() (map[string]bool, error) {
	titles, err := db.RecentTitles(maxHistory)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(titles))
	for _, t := range titles {
		seen[historyKey(t)] = true
	}
	return seen, nil
}

// historyKey normalizes a title for dedup comparison: lowercased, first 50
// characters.
func historyKey(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	if len(key) > 50 {
		key = key[:50]
	}
	return key
}

// HistoryKey exposes the normalization for callers comparing collected
// titles against SeenTitles.
func HistoryKey(title string) string {
	return historyKey(title)
}
