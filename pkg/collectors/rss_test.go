package collectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rssFixture(now time.Time) string {
	fresh := now.Add(-2 * time.Hour).Format(time.RFC1123Z)
	stale := now.Add(-72 * time.Hour).Format(time.RFC1123Z)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Test Feed</title>
  <item>
    <title>Fresh story about agents</title>
    <link>https://example.com/fresh</link>
    <description>&lt;p&gt;A fresh   story.&lt;/p&gt;</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Stale story</title>
    <link>https://example.com/stale</link>
    <description>Too old.</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Fresh story about agents</title>
    <link>https://example.com/fresh</link>
    <description>Duplicate entry.</description>
    <pubDate>%s</pubDate>
  </item>
</channel>
</rss>`, fresh, stale, fresh)
}

func TestRSSCollector_FreshnessAndDedup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFixture(time.Now()))
	}))
	defer server.Close()

	collector := NewRSSCollector([]string{server.URL}, 24*time.Hour, 2, testLogger())
	items := collector.Collect(context.Background())

	if len(items) != 1 {
		t.Fatalf("Collect() = %d items, want 1 (stale filtered, duplicate removed)", len(items))
	}

	item := items[0]
	if item.Title != "Fresh story about agents" {
		t.Errorf("Title = %q", item.Title)
	}
	if item.Source != "Test Feed" {
		t.Errorf("Source = %q, want feed title", item.Source)
	}
	if item.Summary != "A fresh story." {
		t.Errorf("Summary = %q, want markup stripped and whitespace collapsed", item.Summary)
	}
	if item.Category != "ai_news" {
		t.Errorf("Category = %q, want ai_news", item.Category)
	}
	if item.ID == "" {
		t.Error("ID must be derived from title and link")
	}
}

func TestRSSCollector_FeedFailureIsSkipped(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(time.Now()))
	}))
	defer good.Close()

	collector := NewRSSCollector([]string{bad.URL, good.URL}, 24*time.Hour, 2, testLogger())
	items := collector.Collect(context.Background())

	if len(items) != 1 {
		t.Errorf("Collect() = %d items, want 1 from the healthy feed", len(items))
	}
}

func TestRSSCollector_ConcurrentFeeds(t *testing.T) {
	const feedCount = 4

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Feed %s</title>
  <item>
    <title>Story from %s</title>
    <link>https://example.com%s</link>
    <description>A summary.</description>
    <pubDate>%s</pubDate>
  </item>
</channel>
</rss>`, r.URL.Path, r.URL.Path, r.URL.Path, time.Now().Add(-time.Hour).Format(time.RFC1123Z))
	}))
	defer server.Close()

	feeds := make([]string, feedCount)
	for i := range feeds {
		feeds[i] = fmt.Sprintf("%s/feed%d", server.URL, i)
	}

	// All workers parse at once; run with -race to catch shared parser state.
	collector := NewRSSCollector(feeds, 24*time.Hour, feedCount, testLogger())
	items := collector.Collect(context.Background())

	if len(items) != feedCount {
		t.Errorf("Collect() = %d items, want %d (one per feed)", len(items), feedCount)
	}
}

func TestCleanSummary(t *testing.T) {
	got := cleanSummary("<p>Hello   <b>world</b></p>\n\n<br/>done")
	if got != "Hello world done" {
		t.Errorf("cleanSummary() = %q, want %q", got, "Hello world done")
	}
}
