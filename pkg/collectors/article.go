package collectors

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/fetcher"
)

// minSummaryLength below which an item is worth enriching from its linked
// page.
const minSummaryLength = 80

// excerptLength caps the extracted text used as a replacement summary.
const excerptLength = 300

// Enricher fills in missing summaries by extracting readable text from the
// item's linked page.
type Enricher struct {
	fetcher *fetcher.Fetcher
	logger  *slog.Logger
}

func NewEnricher(f *fetcher.Fetcher, logger *slog.Logger) *Enricher {
	return &Enricher{fetcher: f, logger: logger}
}

// Enrich replaces thin summaries with an article excerpt. Extraction
// failures leave the item unchanged.
func (e *Enricher) Enrich(ctx context.Context, items []models.NewsItem) []models.NewsItem {
	for i, item := range items {
		if len(item.Summary) >= minSummaryLength || item.Link == "" {
			continue
		}

		excerpt, err := e.extract(ctx, item.Link)
		if err != nil {
			e.logger.Debug("article extraction failed", "link", item.Link, "error", err)
			continue
		}
		if excerpt != "" {
			items[i].Summary = excerpt
		}
	}
	return items
}

func (e *Enricher) extract(ctx context.Context, link string) (string, error) {
	parsedURL, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	body, err := e.fetcher.GetBytes(ctx, link)
	if err != nil {
		return "", err
	}

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), parsedURL)
	if err != nil {
		return "", err
	}

	if article.Excerpt != "" {
		return Excerpt(article.Excerpt, excerptLength), nil
	}
	return Excerpt(article.TextContent, excerptLength), nil
}

// Excerpt collapses whitespace and truncates at a word boundary.
func Excerpt(text string, max int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= max {
		return collapsed
	}

	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
