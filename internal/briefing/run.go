// Package briefing runs the collect-rank-deliver pipeline.
package briefing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/db"
)

// Counter names used with the state store.
const (
	counterRuns    = "briefing_runs"
	counterFetches = "news_fetches"
)

// Source produces briefing candidates. Collection is best-effort; sources
// return whatever they could gather.
type Source interface {
	Collect(ctx context.Context) []models.NewsItem
}

// Deliverer writes the ranked items somewhere and reports how many made it.
type Deliverer interface {
	Deliver(ctx context.Context, items []models.NewsItem) int
}

// Ranker filters and orders collected items.
type Ranker interface {
	Rank(items []models.NewsItem, seen map[string]bool, maxItems int) []models.NewsItem
}

// StateStore is the slice of pkg/db the runner needs.
type StateStore interface {
	BudgetStatus(limit float64) (db.BudgetStatus, error)
	Allow(name, windowFormat string, max int) (bool, error)
	SeenTitles() (map[string]bool, error)
	AddHistory(entries []db.HistoryEntry) error
	RecordSpending(amount float64) error
}

// Runner wires the briefing pipeline. All collaborators are injected so the
// flow is testable without network access.
type Runner struct {
	Config    models.BriefingConfig
	Store     StateStore
	Sources   []Source
	Enrich    func(ctx context.Context, items []models.NewsItem) []models.NewsItem
	Ranker    Ranker
	Deliverer Deliverer
	DryRun    bool
	Logger    *slog.Logger
}

// ErrNothingDelivered signals that every delivery attempt failed.
var ErrNothingDelivered = fmt.Errorf("no items were delivered")

// Run executes one briefing. Budget and rate-limit stops are normal
// outcomes, not errors.
func (r *Runner) Run(ctx context.Context) error {
	fmt.Printf("🚀 Briefing run: %s\n", time.Now().Format("2006-01-02 15:04"))

	status, err := r.Store.BudgetStatus(r.Config.MonthlyBudgetUSD)
	if err != nil {
		return fmt.Errorf("failed to read budget: %w", err)
	}
	fmt.Println(status.FormatStatus())

	if status.TotalSpend >= r.Config.MonthlyBudgetUSD {
		fmt.Println("❌ Budget limit reached. Stopping.")
		return nil
	}

	if ok, err := r.Store.Allow(counterRuns, db.WindowDay, r.Config.MaxRunsPerDay); err != nil {
		return fmt.Errorf("failed to check run limit: %w", err)
	} else if !ok {
		fmt.Printf("⚠️ Daily run limit (%d) reached. Stopping.\n", r.Config.MaxRunsPerDay)
		return nil
	}

	if ok, err := r.Store.Allow(counterFetches, db.WindowHour, r.Config.MaxFetchesPerHr); err != nil {
		return fmt.Errorf("failed to check fetch limit: %w", err)
	} else if !ok {
		fmt.Printf("⚠️ Hourly fetch limit (%d) reached. Stopping.\n", r.Config.MaxFetchesPerHr)
		return nil
	}

	fmt.Println("🔍 Collecting items...")
	var collected []models.NewsItem
	for _, source := range r.Sources {
		collected = append(collected, source.Collect(ctx)...)
	}
	r.Logger.Info("collection complete", "items", len(collected))

	if r.Enrich != nil {
		collected = r.Enrich(ctx, collected)
	}

	seen, err := r.Store.SeenTitles()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	ranked := r.Ranker.Rank(collected, seen, r.Config.MaxItems)
	if len(ranked) == 0 {
		fmt.Println("📭 No new ideas (all findings were too old or duplicates).")
		return nil
	}

	if r.DryRun {
		fmt.Printf("📋 Dry run: %d items would be delivered\n", len(ranked))
		for _, item := range ranked {
			fmt.Printf("  [%.1f] %s (%s)\n", item.Score, item.Title, item.Source)
		}
		return nil
	}

	fmt.Printf("📤 Delivering %d items...\n", len(ranked))
	delivered := r.Deliverer.Deliver(ctx, ranked)
	if delivered == 0 {
		return ErrNothingDelivered
	}

	entries := make([]db.HistoryEntry, 0, len(ranked))
	for _, item := range ranked {
		entries = append(entries, db.HistoryEntry{Title: item.Title, Source: item.Source})
	}
	if err := r.Store.AddHistory(entries); err != nil {
		r.Logger.Warn("failed to record history", "error", err)
	}
	if err := r.Store.RecordSpending(r.Config.RunCostUSD); err != nil {
		r.Logger.Warn("failed to record spending", "error", err)
	}

	fmt.Printf("✅ Briefing complete: %d/%d items delivered\n", delivered, len(ranked))
	return nil
}
