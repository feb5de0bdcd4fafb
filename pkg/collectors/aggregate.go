package collectors

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/pemistahl/lingua-go"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/db"
)

// boostKeywords raise an item's rank when they appear in the title.
var boostKeywords = []string{
	"agent", "llm", "open source", "open-source", "automation",
	"workflow", "local", "fine-tun", "benchmark", "framework",
}

// Aggregator merges collected items, drops duplicates and non-English
// entries, scores the survivors, and returns the top slice.
type Aggregator struct {
	detector lingua.LanguageDetector
	logger   *slog.Logger
}

// NewAggregator builds an aggregator with a language detector restricted to
// the languages the feeds realistically carry; a small set keeps detection
// fast and accurate.
func NewAggregator(logger *slog.Logger) *Aggregator {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Chinese,
		).
		Build()

	return &Aggregator{
		detector: detector,
		logger:   logger,
	}
}

// Rank filters and orders items, returning at most maxItems. The seen set
// holds history keys of previously delivered titles.
func (a *Aggregator) Rank(items []models.NewsItem, seen map[string]bool, maxItems int) []models.NewsItem {
	unique := make(map[string]bool)
	var kept []models.NewsItem

	for _, item := range items {
		if unique[item.ID] {
			continue
		}
		unique[item.ID] = true

		if seen[db.HistoryKey(item.Title)] {
			a.logger.Debug("dropping previously delivered item", "title", item.Title)
			continue
		}
		if !a.isEnglish(item) {
			a.logger.Debug("dropping non-English item", "title", item.Title)
			continue
		}

		item.Score = a.score(item)
		kept = append(kept, item)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if len(kept) > maxItems {
		kept = kept[:maxItems]
	}
	return kept
}

// isEnglish keeps items whose title reads as English. Detection failure
// keeps the item; dropping on uncertainty would starve short titles.
func (a *Aggregator) isEnglish(item models.NewsItem) bool {
	text := strings.TrimSpace(item.Title + " " + item.Summary)
	if text == "" {
		return false
	}

	language, ok := a.detector.DetectLanguageOf(text)
	if !ok {
		return true
	}
	return language == lingua.English
}

// score combines the source score with freshness and keyword boosts.
func (a *Aggregator) score(item models.NewsItem) float64 {
	score := item.Score

	age := time.Since(item.Published)
	switch {
	case age < 6*time.Hour:
		score += 2
	case age < 24*time.Hour:
		score += 1
	}

	title := strings.ToLower(item.Title)
	for _, kw := range boostKeywords {
		if strings.Contains(title, kw) {
			score += 1.5
			break
		}
	}

	return score
}
