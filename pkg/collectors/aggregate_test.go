package collectors

import (
	"testing"
	"time"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/db"
)

func englishItem(title string, score float64, age time.Duration) models.NewsItem {
	return models.NewsItem{
		ID:        models.ItemID(title, "https://example.com/"+title),
		Title:     title,
		Summary:   "A longer English summary describing the story in detail.",
		Published: time.Now().Add(-age),
		Score:     score,
	}
}

func TestRank_DedupAndSeen(t *testing.T) {
	agg := NewAggregator(testLogger())

	a := englishItem("Building reliable systems with checkpoints", 10, time.Hour)
	b := englishItem("Already delivered story from yesterday", 50, time.Hour)

	seen := map[string]bool{db.HistoryKey(b.Title): true}
	got := agg.Rank([]models.NewsItem{a, a, b}, seen, 10)

	if len(got) != 1 {
		t.Fatalf("Rank() = %d items, want 1", len(got))
	}
	if got[0].Title != a.Title {
		t.Errorf("kept %q, want the unseen item", got[0].Title)
	}
}

func TestRank_OrdersByScoreAndCaps(t *testing.T) {
	agg := NewAggregator(testLogger())

	low := englishItem("Quiet update to the release process", 1, 48*time.Hour)
	mid := englishItem("Database migration retrospective", 10, 48*time.Hour)
	high := englishItem("Storage engine rewrite ships today", 100, 48*time.Hour)

	got := agg.Rank([]models.NewsItem{low, high, mid}, nil, 2)
	if len(got) != 2 {
		t.Fatalf("Rank() = %d items, want 2", len(got))
	}
	if got[0].Title != high.Title || got[1].Title != mid.Title {
		t.Errorf("order = [%q, %q], want highest first", got[0].Title, got[1].Title)
	}
}

func TestRank_DropsNonEnglish(t *testing.T) {
	agg := NewAggregator(testLogger())

	german := models.NewsItem{
		ID:        "de1",
		Title:     "Die Bundesregierung stellt neue Pläne für die Digitalisierung vor",
		Summary:   "Eine ausführliche Zusammenfassung der geplanten Maßnahmen und Gesetze.",
		Published: time.Now(),
	}
	english := englishItem("New plans for infrastructure announced", 5, time.Hour)

	got := agg.Rank([]models.NewsItem{german, english}, nil, 10)
	if len(got) != 1 || got[0].Title != english.Title {
		t.Fatalf("Rank() kept %d items, want only the English one", len(got))
	}
}

func TestScore_FreshnessAndKeywordBoost(t *testing.T) {
	agg := NewAggregator(testLogger())

	fresh := englishItem("An agent framework for pipelines", 0, time.Hour)
	stale := englishItem("Plain report without special terms", 0, 48*time.Hour)

	freshScore := agg.score(fresh)
	staleScore := agg.score(stale)

	// Fresh (<6h) adds 2, the keyword match adds 1.5.
	if freshScore != 3.5 {
		t.Errorf("score(fresh) = %v, want 3.5", freshScore)
	}
	if staleScore != 0 {
		t.Errorf("score(stale) = %v, want 0", staleScore)
	}
}
