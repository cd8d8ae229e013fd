// Package aggregator orchestrates concurrent multi-feed queries over the
// cache and fetcher: all-news, by-category, and free-text search.
package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/larusv/frettavakt/app/cache"
	"github.com/larusv/frettavakt/app/datefilter"
	"github.com/larusv/frettavakt/app/feed"
	"github.com/larusv/frettavakt/app/registry"
)

// FetcherInterface is the single-feed fetch contract the aggregator
// depends on. Tests substitute a fake with call accounting.
type FetcherInterface interface {
	Fetch(ctx context.Context, sourceID, feedID string) (*feed.Response, error)
}

var _ FetcherInterface = (*feed.Fetcher)(nil)

// SearchFetchLimit is the per-source candidate pool for search queries,
// larger than typical display limits so matches are not starved by a
// source's newest items.
const SearchFetchLimit = 30

type Aggregator struct {
	registry *registry.Registry
	fetcher  FetcherInterface
	cache    *cache.Cache
	now      func() time.Time
}

func New(reg *registry.Registry, fetcher FetcherInterface, c *cache.Cache) *Aggregator {
	return &Aggregator{
		registry: reg,
		fetcher:  fetcher,
		cache:    c,
		now:      time.Now,
	}
}

// fetchCached returns the full (up-to-cap) response for one feed,
// consulting the cache first and repopulating it on a miss.
func (a *Aggregator) fetchCached(ctx context.Context, sourceID, feedID string) (*feed.Response, error) {
	if resp, ok := a.cache.Get(sourceID, feedID); ok {
		return resp, nil
	}

	resp, err := a.fetcher.Fetch(ctx, sourceID, feedID)
	if err != nil {
		return nil, err
	}

	a.cache.Put(sourceID, feedID, resp)
	return resp, nil
}

// GetNews returns one source feed's latest items, sliced to limit. An
// empty feed id selects the source's primary feed; an unknown feed id
// fails with registry.NotFoundError listing the valid feeds. When a date
// range is active the full cached item set is filtered before the limit
// is applied.
func (a *Aggregator) GetNews(ctx context.Context, sourceID, feedID string, limit int, dateRange datefilter.Range) (*feed.Response, error) {
	if feedID == "" {
		src, err := a.registry.Source(sourceID)
		if err != nil {
			return nil, err
		}
		feedID = src.PrimaryFeed().ID
	}

	// Resolve before fetching so identifier errors never depend on cache
	// state or network reachability.
	if _, _, err := a.registry.Feed(sourceID, feedID); err != nil {
		return nil, err
	}

	resp, err := a.fetchCached(ctx, sourceID, feedID)
	if err != nil {
		return nil, err
	}

	items := dateRange.Apply(resp.Items)
	return resp.WithItems(items).Limit(limit), nil
}

// Result is a merged multi-feed item list.
type Result struct {
	Category  string      `json:"category,omitempty"`
	FetchedAt time.Time   `json:"fetchedAt"`
	Count     int         `json:"count"`
	Items     []feed.Item `json:"items"`
}

// AllNews fetches the curated main feeds of every source concurrently,
// merges the successes, and truncates to limit items per source queried.
func (a *Aggregator) AllNews(ctx context.Context, limit int) *Result {
	refs := a.registry.MainFeeds()
	items := a.collect(ctx, refs, 0)
	items = truncateTotal(items, limit, len(refs))

	return &Result{
		FetchedAt: a.now(),
		Count:     len(items),
		Items:     items,
	}
}

// ByCategory fetches the feeds of a named category. An unrecognized
// category falls back to the all-news set.
func (a *Aggregator) ByCategory(ctx context.Context, category string, limit int) *Result {
	refs, ok := a.registry.CategoryFeeds(category)
	if !ok {
		slog.Debug("Unknown category, falling back to all news", "category", category)
		result := a.AllNews(ctx, limit)
		result.Category = category
		return result
	}

	items := a.collect(ctx, refs, 0)
	items = truncateTotal(items, limit, len(refs))

	return &Result{
		Category:  category,
		FetchedAt: a.now(),
		Count:     len(items),
		Items:     items,
	}
}

// collect launches one fetch per feed ref and waits for all of them to
// settle. A failed fetch contributes zero items and is logged; it never
// aborts or voids the other contributions. The merged list is sorted by
// publication date descending, items with zero dates sinking to the end.
func (a *Aggregator) collect(ctx context.Context, refs []registry.FeedRef, perFeedLimit int) []feed.Item {
	type contribution struct {
		ref   registry.FeedRef
		items []feed.Item
		err   error
	}

	results := make(chan contribution, len(refs))
	var wg sync.WaitGroup

	for _, ref := range refs {
		wg.Add(1)
		go func(ref registry.FeedRef) {
			defer wg.Done()
			resp, err := a.fetchCached(ctx, ref.Source, ref.Feed)
			if err != nil {
				results <- contribution{ref: ref, err: err}
				return
			}
			items := resp.Items
			if perFeedLimit > 0 && len(items) > perFeedLimit {
				items = items[:perFeedLimit]
			}
			results <- contribution{ref: ref, items: items}
		}(ref)
	}

	wg.Wait()
	close(results)

	var merged []feed.Item
	for c := range results {
		if c.err != nil {
			slog.Warn("Feed fetch failed, contributing no items", "source", c.ref.Source, "feed", c.ref.Feed, "error", c.err)
			continue
		}
		merged = append(merged, c.items...)
	}

	sortByPublished(merged)
	return merged
}

func sortByPublished(items []feed.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
}

func truncateTotal(items []feed.Item, limit, sourceCount int) []feed.Item {
	if limit <= 0 || sourceCount <= 0 {
		return items
	}
	total := limit * sourceCount
	if len(items) > total {
		return items[:total]
	}
	return items
}
