package db

import (
	"database/sql"
	"fmt"
	"time"
)

// BudgetStatus describes the current month's spend.
type BudgetStatus struct {
	Month      string
	TotalSpend float64
	Runs       int
	Limit      float64
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

// CheckBudget reports whether the current month's spend is below the limit.
// Months roll over implicitly: a new month starts at zero spend.
func (db *DB) CheckBudget(limit float64) (bool, error) {
	status, err := db.BudgetStatus(limit)
	if err != nil {
		return false, err
	}
	return status.TotalSpend < limit, nil
}

// BudgetStatus returns the spend recorded for the current month.
func (db *DB) BudgetStatus(limit float64) (BudgetStatus, error) {
	status := BudgetStatus{Month: currentMonth(), Limit: limit}

	err := db.QueryRow(
		"SELECT total_spend, runs FROM budget_months WHERE month = ?",
		status.Month,
	).Scan(&status.TotalSpend, &status.Runs)
	if err == sql.ErrNoRows {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to read budget: %w", err)
	}
	return status, nil
}

// RecordSpending adds an amount to the current month's spend and bumps the
// run counter.
func (db *DB) RecordSpending(amount float64) error {
	_, err := db.Exec(`
		INSERT INTO budget_months (month, total_spend, runs, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(month) DO UPDATE SET
			total_spend = total_spend + excluded.total_spend,
			runs = runs + 1,
			updated_at = CURRENT_TIMESTAMP`,
		currentMonth(), amount,
	)
	if err != nil {
		return fmt.Errorf("failed to record spending: %w", err)
	}
	return nil
}

// FormatStatus renders the status line shown at the start of a run.
func (s BudgetStatus) FormatStatus() string {
	remaining := s.Limit - s.TotalSpend
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("Budget: $%.3f / $%.2f (Remaining: $%.2f)", s.TotalSpend, s.Limit, remaining)
}
