package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// NewsItem is a single candidate item collected for a briefing run.
type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"`
	Published time.Time `json:"published"`
	Score     float64   `json:"score"`
	Category  string    `json:"category"` // "ai_news" or "trending"
}

// ItemID derives a stable identifier from title and link, used for
// deduplication within and across sources.
func ItemID(title, link string) string {
	sum := md5.Sum([]byte(strings.ToLower(title + link)))
	return hex.EncodeToString(sum[:])[:12]
}

// TruncatedSummary returns the summary capped at n runes for logs and
// history records.
func (n NewsItem) TruncatedSummary(max int) string {
	runes := []rune(n.Summary)
	if len(runes) <= max {
		return n.Summary
	}
	return string(runes[:max]) + "..."
}
