package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Counter windows. Day counters reset at midnight, hour counters on the
// hour, both implicitly through the window key.
const (
	WindowDay  = "2006-01-02"
	WindowHour = "2006-01-02 15"
)

// Allow checks a named counter against max for the current window and
// increments it when under the limit. Returns false without incrementing
// when the limit is reached.
func (db *DB) Allow(name, windowFormat string, max int) (bool, error) {
	window := time.Now().Format(windowFormat)

	var count int
	err := db.QueryRow(
		"SELECT count FROM usage_counters WHERE name = ? AND window = ?",
		name, window,
	).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to read usage counter: %w", err)
	}

	if count >= max {
		return false, nil
	}

	_, err = db.Exec(`
		INSERT INTO usage_counters (name, window, count) VALUES (?, ?, 1)
		ON CONFLICT(name, window) DO UPDATE SET count = count + 1`,
		name, window,
	)
	if err != nil {
		return false, fmt.Errorf("failed to increment usage counter: %w", err)
	}
	return true, nil
}

// UsageCount returns the current counter value for the active window.
func (db *DB) UsageCount(name, windowFormat string) (int, error) {
	window := time.Now().Format(windowFormat)

	var count int
	err := db.QueryRow(
		"SELECT count FROM usage_counters WHERE name = ? AND window = ?",
		name, window,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read usage counter: %w", err)
	}
	return count, nil
}
