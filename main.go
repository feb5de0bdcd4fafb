package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/briefbot/notion-brief/internal/briefing"
	"github.com/briefbot/notion-brief/internal/budget"
	"github.com/briefbot/notion-brief/internal/history"
	"github.com/briefbot/notion-brief/internal/publish"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "notion-brief",
		Usage: "Publish Markdown to Notion and run daily briefings",
		Commands: []*cli.Command{
			{
				Name:      "publish",
				Usage:     "Convert a Markdown file and create a Notion page from it",
				ArgsUsage: "[markdown-file]",
				Action:    publish.PublishAction,
			},
			{
				Name:   "briefing",
				Usage:  "Collect, rank, and deliver briefing items",
				Action: briefing.BriefingAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML config file (feeds, limits)",
					},
					&cli.StringFlag{
						Name:  "delivery",
						Value: "notion",
						Usage: "Delivery backend: notion or discord",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print ranked items without delivering",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Only log errors",
					},
				},
			},
			{
				Name:  "budget",
				Usage: "Inspect or adjust the monthly budget",
				Subcommands: []*cli.Command{
					{
						Name:   "status",
						Usage:  "Show this month's spend",
						Action: budget.StatusAction,
						Flags:  []cli.Flag{configFlag()},
					},
					{
						Name:   "record",
						Usage:  "Record spend manually",
						Action: budget.RecordAction,
						Flags: []cli.Flag{
							configFlag(),
							&cli.Float64Flag{
								Name:     "amount",
								Usage:    "Amount in USD",
								Required: true,
							},
						},
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List recently delivered ideas",
				Action: history.ListAction,
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum entries to show",
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(c *cli.Context) error {
					fmt.Println(version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a YAML config file",
	}
}
