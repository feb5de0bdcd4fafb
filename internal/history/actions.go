// Package history exposes the delivered-idea history command.
package history

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/db"
)

// ListAction prints recently delivered titles, newest first.
func ListAction(c *cli.Context) error {
	cfg, err := models.LoadBriefingConfig(c.String("config"))
	if err != nil {
		return err
	}

	store, err := db.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer store.Close()

	entries, err := store.RecentEntries(c.Int("limit"))
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No delivered ideas yet.")
		return nil
	}

	for _, e := range entries {
		source := e.Source
		if source == "" {
			source = "unknown"
		}
		fmt.Printf("%s  [%s]  %s\n", e.SeenAt, source, e.Title)
	}
	return nil
}
