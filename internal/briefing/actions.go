package briefing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/collectors"
	"github.com/briefbot/notion-brief/pkg/db"
	"github.com/briefbot/notion-brief/pkg/discord"
	"github.com/briefbot/notion-brief/pkg/fetcher"
	"github.com/briefbot/notion-brief/pkg/notion"
)

// BriefingAction runs one collect-rank-deliver cycle.
func BriefingAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadBriefingConfig(c.String("config"))
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := db.Open(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	deliverer, err := buildDeliverer(c.String("delivery"), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	httpFetcher := fetcher.NewFetcher(20 * time.Second)
	enricher := collectors.NewEnricher(httpFetcher, logger)

	runner := &Runner{
		Config: cfg,
		Store:  store,
		Sources: []Source{
			collectors.NewRSSCollector(cfg.Feeds, time.Duration(cfg.MaxAgeHours)*time.Hour, cfg.WorkerCount, logger),
			collectors.NewHackerNewsCollector(httpFetcher, cfg.TrendingItems, logger),
		},
		Enrich:    enricher.Enrich,
		Ranker:    collectors.NewAggregator(logger),
		Deliverer: deliverer,
		DryRun:    c.Bool("dry-run"),
		Logger:    logger,
	}

	if err := runner.Run(c.Context); err != nil {
		logger.Error("briefing run failed", "error", err)
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(2)
	}
	return nil
}

// buildDeliverer resolves the delivery backend from the --delivery flag.
func buildDeliverer(method string, logger *slog.Logger) (Deliverer, error) {
	switch method {
	case "", "notion":
		creds, err := models.CredentialsFromEnv()
		if err != nil {
			return nil, err
		}
		client := notion.NewClient(creds.Token, creds.DatabaseID)
		return &notionDeliverer{deliverer: notion.NewDeliverer(client, logger), logger: logger}, nil

	case "discord":
		url := os.Getenv(models.EnvDiscordURL)
		if url == "" {
			return nil, fmt.Errorf("missing required environment variable %s", models.EnvDiscordURL)
		}
		return discord.NewWebhook(url, logger), nil
	}
	return nil, fmt.Errorf("unknown delivery method %q (want notion or discord)", method)
}

// notionDeliverer verifies the database connection once before delivering.
type notionDeliverer struct {
	deliverer *notion.Deliverer
	logger    *slog.Logger
}

func (n *notionDeliverer) Deliver(ctx context.Context, items []models.NewsItem) int {
	if err := n.deliverer.TestConnection(ctx); err != nil {
		n.logger.Error("failed to connect to Notion database", "error", err)
		fmt.Fprintln(os.Stderr, "❌ Check NOTION_TOKEN and NOTION_DATABASE_ID, and that the database is shared with your integration")
		return 0
	}
	return n.deliverer.Deliver(ctx, items)
}
