package notion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jomei/notionapi"

	"github.com/briefbot/notion-brief/models"
)

// summaryLimit keeps quote blocks under Notion's rich-text length cap.
const summaryLimit = 1900

// Deliverer writes briefing items into a Notion database. The database
// schema is fetched once and cached so optional properties are only set when
// the target database actually has them.
type Deliverer struct {
	client *Client
	logger *slog.Logger

	properties notionapi.PropertyConfigs
	titleProp  string
}

// NewDeliverer wraps a client for batch delivery.
func NewDeliverer(client *Client, logger *slog.Logger) *Deliverer {
	return &Deliverer{
		client:    client,
		logger:    logger,
		titleProp: "Title",
	}
}

// TestConnection verifies the database is reachable and caches its schema.
func (d *Deliverer) TestConnection(ctx context.Context) error {
	db, err := d.client.Databases.Get(ctx, notionapi.DatabaseID(d.client.DatabaseID))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	d.properties = db.Properties
	for name, config := range db.Properties {
		if config.GetType() == notionapi.PropertyConfigTypeTitle {
			d.titleProp = name
			break
		}
	}

	d.logger.Info("connected to Notion database", "properties", len(d.properties))
	return nil
}

// Deliver adds each item as a page, continuing past per-item failures.
// Returns the number of pages created.
func (d *Deliverer) Deliver(ctx context.Context, items []models.NewsItem) int {
	delivered := 0
	for i, item := range items {
		fmt.Printf("   [%d/%d] %s\n", i+1, len(items), truncate(item.Title, 50))
		if err := d.AddItem(ctx, item, nil); err != nil {
			d.logger.Warn("failed to add item", "title", item.Title, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// AddItem creates a database entry for one item. When blocks is nil the page
// body is built from the item's summary and link; otherwise the given blocks
// are used verbatim. The create call is retried once on failure.
func (d *Deliverer) AddItem(ctx context.Context, item models.NewsItem, blocks []notionapi.Block) error {
	children := blocks
	if children == nil {
		children = d.defaultContent(item)
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(d.client.DatabaseID),
		},
		Properties: d.buildProperties(item),
		Children:   children,
	}

	op := func() error {
		_, err := d.client.Pages.Create(ctx, req)
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(time.Second),
		backoff.WithMaxInterval(5*time.Second),
	), 1)
	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}

// buildProperties sets the title plus any optional columns present in the
// cached schema, mirroring the "works with a bare database" contract: only
// the title column is required.
func (d *Deliverer) buildProperties(item models.NewsItem) notionapi.Properties {
	props := notionapi.Properties{
		d.titleProp: notionapi.TitleProperty{
			Title: []notionapi.RichText{{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: truncate(item.Title, 90)},
			}},
		},
	}

	if d.hasProperty("Source", notionapi.PropertyConfigTypeSelect) {
		props["Source"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: truncate(item.Source, 30)},
		}
	}
	if item.Link != "" && d.hasProperty("Link", notionapi.PropertyConfigTypeURL) {
		props["Link"] = notionapi.URLProperty{URL: item.Link}
	}
	if d.hasProperty("Score", notionapi.PropertyConfigTypeNumber) {
		props["Score"] = notionapi.NumberProperty{Number: item.Score}
	}
	if d.hasProperty("Status", notionapi.PropertyConfigTypeSelect) {
		props["Status"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: "New"},
		}
	}
	if config, ok := d.properties["Category"]; ok {
		name := "Trending"
		if item.Category == "ai_news" {
			name = "AI"
		}
		switch config.GetType() {
		case notionapi.PropertyConfigTypeSelect:
			props["Category"] = notionapi.SelectProperty{
				Select: notionapi.Option{Name: name},
			}
		case notionapi.PropertyConfigTypeMultiSelect:
			props["Category"] = notionapi.MultiSelectProperty{
				MultiSelect: []notionapi.Option{{Name: name}},
			}
		}
	}

	return props
}

func (d *Deliverer) hasProperty(name string, t notionapi.PropertyConfigType) bool {
	config, ok := d.properties[name]
	return ok && config.GetType() == t
}

// defaultContent builds the minimalist page body: the summary as a quote
// block plus a link paragraph.
func (d *Deliverer) defaultContent(item models.NewsItem) []notionapi.Block {
	summary := item.Summary
	if summary == "" {
		summary = "No summary provided."
	}

	children := []notionapi.Block{
		notionapi.QuoteBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeQuote,
			},
			Quote: notionapi.Quote{
				RichText: []notionapi.RichText{{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: truncate(summary, summaryLimit)},
				}},
			},
		},
	}

	if item.Link != "" {
		children = append(children, notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: []notionapi.RichText{
					{
						Type: notionapi.ObjectTypeText,
						Text: &notionapi.Text{Content: "🔗 "},
					},
					{
						Type: notionapi.ObjectTypeText,
						Text: &notionapi.Text{
							Content: "View Discussion",
							Link:    &notionapi.Link{Url: item.Link},
						},
					},
				},
			},
		})
	}

	return children
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
