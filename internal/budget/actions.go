// Package budget exposes budget inspection commands.
package budget

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/db"
)

// StatusAction prints the current month's spend.
func StatusAction(c *cli.Context) error {
	cfg, store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	status, err := store.BudgetStatus(cfg.MonthlyBudgetUSD)
	if err != nil {
		return fmt.Errorf("failed to read budget: %w", err)
	}

	fmt.Printf("Month: %s\n", status.Month)
	fmt.Println(status.FormatStatus())
	fmt.Printf("Runs this month: %d\n", status.Runs)
	fmt.Printf("State database: %s\n", store.Path())
	return nil
}

// RecordAction manually adds spend, e.g. for costs incurred outside the
// tool.
func RecordAction(c *cli.Context) error {
	amount := c.Float64("amount")
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.4f", amount)
	}

	_, store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RecordSpending(amount); err != nil {
		return err
	}
	fmt.Printf("✅ Recorded $%.4f\n", amount)
	return nil
}

func openStore(c *cli.Context) (models.BriefingConfig, *db.DB, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := models.LoadBriefingConfig(c.String("config"))
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cfg, nil, err
	}

	store, err := db.Open(cfg.DataDir)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return cfg, store, nil
}
