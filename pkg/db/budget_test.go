package db

import (
	"strings"
	"testing"
)

func TestBudgetStatus_EmptyMonth(t *testing.T) {
	database := setupTestDB(t)

	status, err := database.BudgetStatus(5.0)
	if err != nil {
		t.Fatalf("BudgetStatus() error = %v", err)
	}
	if status.TotalSpend != 0 {
		t.Errorf("TotalSpend = %v, want 0", status.TotalSpend)
	}
	if status.Runs != 0 {
		t.Errorf("Runs = %d, want 0", status.Runs)
	}
}

func TestRecordSpending_Accumulates(t *testing.T) {
	database := setupTestDB(t)

	if err := database.RecordSpending(0.02); err != nil {
		t.Fatalf("RecordSpending() error = %v", err)
	}
	if err := database.RecordSpending(0.03); err != nil {
		t.Fatalf("RecordSpending() error = %v", err)
	}

	status, err := database.BudgetStatus(5.0)
	if err != nil {
		t.Fatalf("BudgetStatus() error = %v", err)
	}
	if status.TotalSpend < 0.049 || status.TotalSpend > 0.051 {
		t.Errorf("TotalSpend = %v, want 0.05", status.TotalSpend)
	}
	if status.Runs != 2 {
		t.Errorf("Runs = %d, want 2", status.Runs)
	}
}

func TestCheckBudget(t *testing.T) {
	database := setupTestDB(t)

	ok, err := database.CheckBudget(1.0)
	if err != nil {
		t.Fatalf("CheckBudget() error = %v", err)
	}
	if !ok {
		t.Error("CheckBudget() = false for empty month, want true")
	}

	if err := database.RecordSpending(1.0); err != nil {
		t.Fatal(err)
	}

	ok, err = database.CheckBudget(1.0)
	if err != nil {
		t.Fatalf("CheckBudget() error = %v", err)
	}
	if ok {
		t.Error("CheckBudget() = true at the limit, want false")
	}
}

func TestFormatStatus(t *testing.T) {
	s := BudgetStatus{TotalSpend: 1.5, Limit: 5.0}
	got := s.FormatStatus()
	if !strings.Contains(got, "$1.500") || !strings.Contains(got, "$5.00") || !strings.Contains(got, "$3.50") {
		t.Errorf("FormatStatus() = %q, want spend, limit, and remaining", got)
	}
}

func TestFormatStatus_OverLimitClampsRemaining(t *testing.T) {
	s := BudgetStatus{TotalSpend: 6.0, Limit: 5.0}
	if got := s.FormatStatus(); !strings.Contains(got, "Remaining: $0.00") {
		t.Errorf("FormatStatus() = %q, want remaining clamped to $0.00", got)
	}
}
