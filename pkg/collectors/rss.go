// Package collectors gathers briefing candidates from RSS feeds and the
// HackerNews front page.
package collectors

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mmcdole/gofeed"

	"github.com/briefbot/notion-brief/models"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// RSSCollector fetches feeds concurrently and filters entries down to fresh,
// unseen items.
type RSSCollector struct {
	feeds   []string
	maxAge  time.Duration
	workers int
	logger  *slog.Logger
}

// NewRSSCollector builds a collector for the given feed URLs.
func NewRSSCollector(feeds []string, maxAge time.Duration, workers int, logger *slog.Logger) *RSSCollector {
	if workers < 1 {
		workers = 1
	}
	return &RSSCollector{
		feeds:   feeds,
		maxAge:  maxAge,
		workers: workers,
		logger:  logger,
	}
}

// Collect fetches all feeds with a small worker pool and returns fresh,
// deduplicated items. Feed failures are logged and skipped; a run never
// fails because one feed is down.
func (c *RSSCollector) Collect(ctx context.Context) []models.NewsItem {
	jobs := make(chan string, len(c.feeds))
	results := make(chan []models.NewsItem, len(c.feeds))

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// gofeed.Parser initializes internal state lazily and is not
			// safe for concurrent use, so each worker gets its own.
			parser := gofeed.NewParser()
			for url := range jobs {
				feed, err := c.fetchFeed(ctx, parser, url)
				if err != nil {
					c.logger.Warn("feed fetch failed", "feed", url, "error", err)
					results <- nil
					continue
				}
				results <- c.itemsFromFeed(feed)
			}
		}()
	}

	for _, url := range c.feeds {
		jobs <- url
	}
	close(jobs)
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	var items []models.NewsItem
	for batch := range results {
		for _, item := range batch {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			items = append(items, item)
		}
	}

	c.logger.Info("RSS collection complete", "feeds", len(c.feeds), "items", len(items))
	return items
}

// fetchFeed fetches one feed with retries and exponential backoff.
func (c *RSSCollector) fetchFeed(ctx context.Context, parser *gofeed.Parser, url string) (*gofeed.Feed, error) {
	var feed *gofeed.Feed
	op := func() error {
		var err error
		feed, err = parser.ParseURLWithContext(url, ctx)
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(2*time.Second),
		backoff.WithMaxInterval(10*time.Second),
	), 2)
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return feed, nil
}

func (c *RSSCollector) itemsFromFeed(feed *gofeed.Feed) []models.NewsItem {
	cutoff := time.Now().Add(-c.maxAge)

	var items []models.NewsItem
	for _, entry := range feed.Items {
		published := publishedTime(entry)
		if published.IsZero() || published.Before(cutoff) {
			continue
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		items = append(items, models.NewsItem{
			ID:        models.ItemID(title, entry.Link),
			Title:     title,
			Source:    feed.Title,
			Link:      entry.Link,
			Summary:   cleanSummary(entry.Description),
			Published: published,
			Category:  "ai_news",
		})
	}
	return items
}

func publishedTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Time{}
}

// cleanSummary strips markup and collapses whitespace in a feed entry's
// description.
func cleanSummary(raw string) string {
	text := tagPattern.ReplaceAllString(raw, " ")
	return strings.Join(strings.Fields(text), " ")
}
