// Package discord delivers briefing items through a channel webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/briefbot/notion-brief/models"
)

// embedColor is the accent used on every briefing embed.
const embedColor = 0x5865F2

// Discord caps embeds per message at 10.
const maxEmbedsPerMessage = 10

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

// Webhook posts briefing items to a Discord channel.
type Webhook struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewWebhook(url string, logger *slog.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Deliver sends items in embed batches. Returns the number of items
// delivered.
func (w *Webhook) Deliver(ctx context.Context, items []models.NewsItem) int {
	delivered := 0
	for start := 0; start < len(items); start += maxEmbedsPerMessage {
		end := start + maxEmbedsPerMessage
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		payload := webhookPayload{Embeds: make([]embed, 0, len(batch))}
		if start == 0 {
			payload.Content = fmt.Sprintf("📰 **Daily Briefing** — %d new ideas", len(items))
		}
		for _, item := range batch {
			payload.Embeds = append(payload.Embeds, itemEmbed(item))
		}

		if err := w.send(ctx, payload); err != nil {
			w.logger.Warn("Discord delivery failed", "error", err)
			return delivered
		}
		delivered += len(batch)
	}
	return delivered
}

func itemEmbed(item models.NewsItem) embed {
	return embed{
		Title:       item.Title,
		Description: item.TruncatedSummary(300),
		URL:         item.Link,
		Color:       embedColor,
		Footer: &embedFooter{
			Text: fmt.Sprintf("%s · score %.1f", item.Source, item.Score),
		},
	}
}

func (w *Webhook) send(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("webhook rejected with status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
