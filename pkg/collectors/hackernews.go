package collectors

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/fetcher"
)

const hackerNewsURL = "https://news.ycombinator.com/"

// HackerNewsCollector scrapes the front page as the trending-topics source.
type HackerNewsCollector struct {
	fetcher  *fetcher.Fetcher
	maxItems int
	logger   *slog.Logger
}

func NewHackerNewsCollector(f *fetcher.Fetcher, maxItems int, logger *slog.Logger) *HackerNewsCollector {
	return &HackerNewsCollector{
		fetcher:  f,
		maxItems: maxItems,
		logger:   logger,
	}
}

// Collect fetches the front page and returns the top stories. Failures are
// logged and produce an empty result; trending items are best-effort.
func (c *HackerNewsCollector) Collect(ctx context.Context) []models.NewsItem {
	doc, err := c.fetcher.GetDocument(ctx, hackerNewsURL)
	if err != nil {
		c.logger.Warn("HackerNews fetch failed", "error", err)
		return nil
	}

	items := ParseFrontPage(doc, c.maxItems)
	c.logger.Info("HackerNews collection complete", "items", len(items))
	return items
}

// ParseFrontPage extracts stories from a HackerNews front-page document.
// Each story row (tr.athing) is followed by a subtext row carrying the
// score.
func ParseFrontPage(doc *goquery.Document, maxItems int) []models.NewsItem {
	var items []models.NewsItem

	rows := doc.Find("tr.athing")
	subtexts := doc.Find("td.subtext")

	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if len(items) >= maxItems {
			return false
		}

		anchor := row.Find("span.titleline a").First()
		title := strings.TrimSpace(anchor.Text())
		link, _ := anchor.Attr("href")
		if title == "" || link == "" {
			return true
		}

		score := 0.0
		if i < subtexts.Length() {
			score = parseScore(subtexts.Eq(i).Find("span.score").Text())
		}

		items = append(items, models.NewsItem{
			ID:        models.ItemID(title, link),
			Title:     title,
			Source:    "HackerNews",
			Link:      link,
			Summary:   "Trending on the HackerNews front page.",
			Published: time.Now(),
			Score:     score,
			Category:  "trending",
		})
		return true
	})

	return items
}

// parseScore reads the leading number out of "123 points".
func parseScore(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return float64(n)
}
