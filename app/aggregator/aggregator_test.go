package aggregator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/larusv/frettavakt/app/cache"
	"github.com/larusv/frettavakt/app/datefilter"
	"github.com/larusv/frettavakt/app/feed"
	"github.com/larusv/frettavakt/app/registry"
)

var testNow = time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)

// testRegistry builds a three-source registry: alpha (frettir, sport),
// beta (frettir), gamma (frettir), with a "sport" category.
func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"alpha.yml": `
name: Alpha
url: https://alpha.example
feeds:
  - id: frettir
    url: https://alpha.example/rss
    description: Alpha news
  - id: sport
    url: https://alpha.example/rss/sport
    description: Alpha sports
categories:
  sport:
    - source: alpha
      feed: sport
`,
		"beta.yml": `
name: Beta
url: https://beta.example
feeds:
  - id: frettir
    url: https://beta.example/rss
    description: Beta news
`,
		"gamma.yml": `
name: Gamma
url: https://gamma.example
feeds:
  - id: frettir
    url: https://gamma.example/rss
    description: Gamma news
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	reg, err := registry.NewFromDir(dir)
	if err != nil {
		t.Fatalf("Failed to build test registry: %v", err)
	}
	return reg
}

// fakeFetcher serves canned responses and counts calls per feed. Like the
// real fetcher, its responses are sorted by publication date descending.
type fakeFetcher struct {
	mu        sync.Mutex
	calls     map[string]int
	responses map[string]*feed.Response
	errs      map[string]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls:     make(map[string]int),
		responses: make(map[string]*feed.Response),
		errs:      make(map[string]error),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, sourceID, feedID string) (*feed.Response, error) {
	key := sourceID + "/" + feedID

	f.mu.Lock()
	f.calls[key]++
	f.mu.Unlock()

	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if resp, ok := f.responses[key]; ok {
		return resp, nil
	}
	return nil, &feed.FetchError{Source: sourceID, Feed: feedID, Err: fmt.Errorf("no canned response")}
}

func (f *fakeFetcher) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeFetcher) serve(sourceID, feedID string, items ...feed.Item) {
	f.responses[sourceID+"/"+feedID] = &feed.Response{
		Source:    sourceID,
		Feed:      feedID,
		FetchedAt: testNow,
		Count:     len(items),
		Items:     items,
	}
}

func item(title, sourceID string, age time.Duration) feed.Item {
	return feed.Item{
		Title:     title,
		Source:    sourceID,
		Published: testNow.Add(-age),
	}
}

func setup(t *testing.T) (*Aggregator, *fakeFetcher, *cache.Cache) {
	t.Helper()
	fetcher := newFakeFetcher()
	feedCache := cache.New(5 * time.Minute)
	agg := New(testRegistry(t), fetcher, feedCache)
	agg.now = func() time.Time { return testNow }
	return agg, fetcher, feedCache
}

func TestGetNews_LimitSlicing(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir",
		item("newest", "alpha", 10*time.Minute),
		item("middle", "alpha", 20*time.Minute),
		item("oldest", "alpha", 30*time.Minute),
	)

	resp, err := agg.GetNews(context.Background(), "alpha", "frettir", 2, datefilter.Range{})
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}

	if resp.Count != 2 || len(resp.Items) != 2 {
		t.Fatalf("Expected 2 items, got count=%d len=%d", resp.Count, len(resp.Items))
	}
	if resp.Items[0].Title != "newest" || resp.Items[1].Title != "middle" {
		t.Errorf("Expected the 2 most recent items, got %s, %s", resp.Items[0].Title, resp.Items[1].Title)
	}
}

func TestGetNews_DefaultsToPrimaryFeed(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir", item("a", "alpha", time.Minute))

	resp, err := agg.GetNews(context.Background(), "alpha", "", 10, datefilter.Range{})
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}
	if resp.Feed != "frettir" {
		t.Errorf("Expected primary feed 'frettir', got '%s'", resp.Feed)
	}
}

func TestGetNews_UnknownIdentifiers(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir", item("a", "alpha", time.Minute))

	if _, err := agg.GetNews(context.Background(), "nosuchsource", "frettir", 10, datefilter.Range{}); err == nil {
		t.Error("Expected error for unknown source")
	}
	if _, err := agg.GetNews(context.Background(), "alpha", "nosuchfeed", 10, datefilter.Range{}); err == nil {
		t.Error("Expected error for unknown feed")
	}
	// Identifier errors must not consume fetches.
	if n := fetcher.callCount("alpha/nosuchfeed"); n != 0 {
		t.Errorf("Expected no fetch for unknown feed, got %d", n)
	}
}

func TestGetNews_CacheRoundTrip(t *testing.T) {
	agg, fetcher, feedCache := setup(t)
	fetcher.serve("alpha", "frettir",
		item("a", "alpha", time.Minute),
		item("b", "alpha", 2*time.Minute),
	)

	first, err := agg.GetNews(context.Background(), "alpha", "frettir", 10, datefilter.Range{})
	if err != nil {
		t.Fatalf("First GetNews failed: %v", err)
	}
	second, err := agg.GetNews(context.Background(), "alpha", "frettir", 10, datefilter.Range{})
	if err != nil {
		t.Fatalf("Second GetNews failed: %v", err)
	}

	if n := fetcher.callCount("alpha/frettir"); n != 1 {
		t.Errorf("Expected exactly 1 upstream fetch, got %d", n)
	}
	if len(first.Items) != len(second.Items) || first.Items[0].Title != second.Items[0].Title {
		t.Error("Expected identical item content from the cache")
	}

	stats := feedCache.Stats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", stats.Hits)
	}
}

func TestGetNews_CacheExpiryTriggersRefetch(t *testing.T) {
	fetcher := newFakeFetcher()
	feedCache := cache.New(time.Nanosecond)
	agg := New(testRegistry(t), fetcher, feedCache)
	fetcher.serve("alpha", "frettir", item("a", "alpha", time.Minute))

	if _, err := agg.GetNews(context.Background(), "alpha", "frettir", 10, datefilter.Range{}); err != nil {
		t.Fatalf("First GetNews failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := agg.GetNews(context.Background(), "alpha", "frettir", 10, datefilter.Range{}); err != nil {
		t.Fatalf("Second GetNews failed: %v", err)
	}

	if n := fetcher.callCount("alpha/frettir"); n != 2 {
		t.Errorf("Expected refetch after TTL expiry, got %d fetches", n)
	}
	if misses := feedCache.Stats().Misses; misses != 2 {
		t.Errorf("Expected 2 cache misses, got %d", misses)
	}
}

func TestGetNews_DateFilterUsesFullCandidatePool(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir",
		item("10 min old", "alpha", 10*time.Minute),
		item("20 min old", "alpha", 20*time.Minute),
		item("30 min old", "alpha", 30*time.Minute),
		item("2 hours old", "alpha", 2*time.Hour),
		item("3 hours old", "alpha", 3*time.Hour),
	)

	since := testNow.Add(-time.Hour)
	dateRange := datefilter.Range{Since: &since}

	resp, err := agg.GetNews(context.Background(), "alpha", "frettir", 2, dateRange)
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}

	// The filter sees the whole cached set, then the limit applies.
	if resp.Count != 2 {
		t.Fatalf("Expected 2 items, got %d", resp.Count)
	}
	for _, it := range resp.Items {
		if it.Published.Before(since) {
			t.Errorf("Item '%s' is older than the since bound", it.Title)
		}
	}
}

func TestAllNews_MergesAndSorts(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir", item("alpha old", "alpha", 3*time.Hour))
	fetcher.serve("beta", "frettir", item("beta new", "beta", 5*time.Minute))
	fetcher.serve("gamma", "frettir", item("gamma mid", "gamma", time.Hour))

	result := agg.AllNews(context.Background(), 10)

	if result.Count != 3 {
		t.Fatalf("Expected 3 items, got %d", result.Count)
	}
	want := []string{"beta new", "gamma mid", "alpha old"}
	for i, title := range want {
		if result.Items[i].Title != title {
			t.Errorf("Position %d: expected '%s', got '%s'", i, title, result.Items[i].Title)
		}
	}
}

func TestAllNews_FailureIsolation(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir", item("alpha", "alpha", time.Minute))
	fetcher.errs["beta/frettir"] = &feed.FetchError{Source: "beta", Feed: "frettir", Err: fmt.Errorf("connection refused")}
	fetcher.serve("gamma", "frettir", item("gamma", "gamma", 2*time.Minute))

	result := agg.AllNews(context.Background(), 10)

	if result.Count != 2 {
		t.Fatalf("Expected items from the 2 healthy sources, got %d", result.Count)
	}
	for _, it := range result.Items {
		if it.Source == "beta" {
			t.Error("Expected no items from the failing source")
		}
	}
}

func TestAllNews_ZeroDatesSinkToEnd(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir", feed.Item{Title: "undated", Source: "alpha"})
	fetcher.serve("beta", "frettir", item("dated", "beta", time.Hour))
	fetcher.serve("gamma", "frettir")

	result := agg.AllNews(context.Background(), 10)

	if result.Count != 2 {
		t.Fatalf("Expected 2 items, got %d", result.Count)
	}
	if result.Items[len(result.Items)-1].Title != "undated" {
		t.Errorf("Expected undated item last, got '%s'", result.Items[len(result.Items)-1].Title)
	}
}

func TestAllNews_TotalTruncation(t *testing.T) {
	agg, fetcher, _ := setup(t)
	var alphaItems, betaItems, gammaItems []feed.Item
	for i := 0; i < 10; i++ {
		alphaItems = append(alphaItems, item(fmt.Sprintf("alpha %d", i), "alpha", time.Duration(i)*time.Minute))
		betaItems = append(betaItems, item(fmt.Sprintf("beta %d", i), "beta", time.Duration(i)*time.Minute+time.Second))
		gammaItems = append(gammaItems, item(fmt.Sprintf("gamma %d", i), "gamma", time.Duration(i)*time.Minute+2*time.Second))
	}
	fetcher.serve("alpha", "frettir", alphaItems...)
	fetcher.serve("beta", "frettir", betaItems...)
	fetcher.serve("gamma", "frettir", gammaItems...)

	result := agg.AllNews(context.Background(), 2)

	// limit * number of sources queried
	if result.Count != 6 {
		t.Errorf("Expected 6 items (2 per 3 sources), got %d", result.Count)
	}
}

func TestByCategory(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "sport", item("sport item", "alpha", time.Minute))

	result := agg.ByCategory(context.Background(), "sport", 10)

	if result.Category != "sport" {
		t.Errorf("Expected category 'sport', got '%s'", result.Category)
	}
	if result.Count != 1 || result.Items[0].Title != "sport item" {
		t.Errorf("Expected the sport feed item, got %+v", result.Items)
	}
	// The category must not touch the main feeds.
	if n := fetcher.callCount("alpha/frettir"); n != 0 {
		t.Errorf("Expected no main-feed fetch for category query, got %d", n)
	}
}

func TestByCategory_UnknownFallsBackToAllNews(t *testing.T) {
	agg, fetcher, _ := setup(t)
	fetcher.serve("alpha", "frettir", item("alpha", "alpha", time.Minute))
	fetcher.serve("beta", "frettir", item("beta", "beta", 2*time.Minute))
	fetcher.serve("gamma", "frettir", item("gamma", "gamma", 3*time.Minute))

	result := agg.ByCategory(context.Background(), "nosuchcategory", 10)

	if result.Category != "nosuchcategory" {
		t.Errorf("Expected requested category echoed back, got '%s'", result.Category)
	}
	if result.Count != 3 {
		t.Errorf("Expected all-news fallback with 3 items, got %d", result.Count)
	}
}
