package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/larusv/frettavakt/app/aggregator"
	"github.com/larusv/frettavakt/app/cache"
	"github.com/larusv/frettavakt/app/datefilter"
	"github.com/larusv/frettavakt/app/health"
	"github.com/larusv/frettavakt/app/registry"
)

// GetNewsTool fetches the latest items from one source feed, from a named
// category, or from all sources at once.
type GetNewsTool struct {
	agg *aggregator.Aggregator
}

func NewGetNewsTool(agg *aggregator.Aggregator) *GetNewsTool {
	return &GetNewsTool{agg: agg}
}

func (t *GetNewsTool) Name() string { return "get_news" }

func (t *GetNewsTool) Description() string {
	return "Get latest Icelandic news. Pass a source id (e.g. 'ruv', 'mbl', 'visir') with an optional feed id, a category (e.g. 'innlent', 'ithrottir'), or source 'all' for the merged front pages. Supports since/until date expressions like 'today' or '2 hours ago'."
}

func (t *GetNewsTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": "Source id, or 'all' for every source's main feed",
			},
			"feed": map[string]any{
				"type":        "string",
				"description": "Feed id within the source (default: frettir)",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Category name; overrides source/feed when set",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum items to return (1-50, default 10); per source for aggregate queries",
			},
			"format": map[string]any{
				"type":        "string",
				"description": "Response format: 'json' (default) for the structured record, 'text' for a human-readable listing",
			},
			"since": map[string]any{
				"type":        "string",
				"description": "Only items published at or after this date expression",
			},
			"until": map[string]any{
				"type":        "string",
				"description": "Only items published at or before this date expression",
			},
		},
		"required": []string{"source"},
	}
}

func (t *GetNewsTool) Call(ctx context.Context, args map[string]any) *ToolCallResult {
	source := stringArg(args, "source", "all")
	limit := intArg(args, "limit", 10, 1, 50)
	asText := stringArg(args, "format", "json") == "text"

	if category := stringArg(args, "category", ""); category != "" {
		return mergedResult(t.agg.ByCategory(ctx, category, limit), asText)
	}
	if source == "all" {
		return mergedResult(t.agg.AllNews(ctx, limit), asText)
	}

	dateRange := datefilter.ParseRange(stringArg(args, "since", ""), stringArg(args, "until", ""), time.Now())

	resp, err := t.agg.GetNews(ctx, source, stringArg(args, "feed", registry.PrimaryFeedID), limit, dateRange)
	if err != nil {
		return ErrorResult(err)
	}
	if asText {
		return TextResult(renderResponse(resp))
	}
	return SuccessResult(resp)
}

func mergedResult(result *aggregator.Result, asText bool) *ToolCallResult {
	if asText {
		return TextResult(renderMerged(result))
	}
	return SuccessResult(result)
}

// ListFeedsTool lists the feed catalog grouped by source.
type ListFeedsTool struct {
	registry *registry.Registry
}

func NewListFeedsTool(reg *registry.Registry) *ListFeedsTool {
	return &ListFeedsTool{registry: reg}
}

func (t *ListFeedsTool) Name() string { return "list_feeds" }

func (t *ListFeedsTool) Description() string {
	return "List the available Icelandic news sources and their feeds, or the feeds of one source."
}

func (t *ListFeedsTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": "Source id, or 'all' (default) for the whole catalog",
			},
		},
	}
}

type feedCatalogEntry struct {
	Source string          `json:"source"`
	Name   string          `json:"name"`
	URL    string          `json:"url"`
	Feeds  []registry.Feed `json:"feeds"`
}

type feedCatalog struct {
	Sources    []feedCatalogEntry `json:"sources"`
	Categories []string           `json:"categories"`
	FeedCount  int                `json:"feedCount"`
}

func (t *ListFeedsTool) Call(ctx context.Context, args map[string]any) *ToolCallResult {
	sourceID := stringArg(args, "source", "all")

	var sources []registry.Source
	if sourceID == "all" {
		sources = t.registry.Sources()
	} else {
		src, err := t.registry.Source(sourceID)
		if err != nil {
			return ErrorResult(err)
		}
		sources = []registry.Source{*src}
	}

	catalog := feedCatalog{
		Categories: t.registry.Categories(),
	}
	for _, src := range sources {
		catalog.Sources = append(catalog.Sources, feedCatalogEntry{
			Source: src.ID,
			Name:   src.Name,
			URL:    src.URL,
			Feeds:  src.Feeds,
		})
		catalog.FeedCount += len(src.Feeds)
	}

	return SuccessResult(catalog)
}

// SearchNewsTool searches item titles and descriptions across sources.
type SearchNewsTool struct {
	agg *aggregator.Aggregator
}

func NewSearchNewsTool(agg *aggregator.Aggregator) *SearchNewsTool {
	return &SearchNewsTool{agg: agg}
}

func (t *SearchNewsTool) Name() string { return "search_news" }

func (t *SearchNewsTool) Description() string {
	return "Search current Icelandic news by keyword across sources. Case-insensitive unless case_sensitive is set."
}

func (t *SearchNewsTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search text matched against titles and descriptions",
			},
			"sources": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Source ids to search (default: all)",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum items to return (1-100, default 20)",
			},
			"case_sensitive": map[string]any{
				"type":        "boolean",
				"description": "Match case exactly (default false)",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchNewsTool) Call(ctx context.Context, args map[string]any) *ToolCallResult {
	query := stringArg(args, "query", "")
	if query == "" {
		return ErrorResult(fmt.Errorf("query is required"))
	}

	result := t.agg.Search(ctx, query,
		stringSliceArg(args, "sources"),
		intArg(args, "limit", 20, 1, 100),
		boolArg(args, "case_sensitive", false))

	return SuccessResult(result)
}

// CheckFeedsTool sweeps configured feeds and reports per-feed health.
type CheckFeedsTool struct {
	checker *health.Checker
}

func NewCheckFeedsTool(checker *health.Checker) *CheckFeedsTool {
	return &CheckFeedsTool{checker: checker}
}

func (t *CheckFeedsTool) Name() string { return "check_feeds" }

func (t *CheckFeedsTool) Description() string {
	return "Check the reachability and latency of every configured feed. Returns one healthy/failed entry per feed."
}

func (t *CheckFeedsTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sources": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Source ids to check (default: all)",
			},
			"timeout_ms": map[string]any{
				"type":        "integer",
				"description": "Per-feed timeout in milliseconds (1000-30000, default 10000)",
			},
		},
	}
}

type checkFeedsResult struct {
	CheckedAt time.Time       `json:"checkedAt"`
	Healthy   int             `json:"healthy"`
	Failed    int             `json:"failed"`
	Results   []health.Result `json:"results"`
}

func (t *CheckFeedsTool) Call(ctx context.Context, args map[string]any) *ToolCallResult {
	timeout := time.Duration(intArg(args, "timeout_ms", 10000, 1000, 30000)) * time.Millisecond

	results := t.checker.CheckAll(ctx, stringSliceArg(args, "sources"), timeout)

	summary := checkFeedsResult{
		CheckedAt: time.Now(),
		Results:   results,
	}
	for _, r := range results {
		if r.Status == health.StatusHealthy {
			summary.Healthy++
		} else {
			summary.Failed++
		}
	}

	return SuccessResult(summary)
}

// CacheStatsTool reports cache statistics, optionally clearing the cache.
type CacheStatsTool struct {
	cache *cache.Cache
}

func NewCacheStatsTool(c *cache.Cache) *CacheStatsTool {
	return &CacheStatsTool{cache: c}
}

func (t *CacheStatsTool) Name() string { return "cache_stats" }

func (t *CacheStatsTool) Description() string {
	return "Show feed cache hit/miss statistics. Set clear_cache to empty the cache and zero the counters; the returned stats are the state before clearing."
}

func (t *CacheStatsTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clear_cache": map[string]any{
				"type":        "boolean",
				"description": "Clear all entries and reset counters (default false)",
			},
		},
	}
}

func (t *CacheStatsTool) Call(ctx context.Context, args map[string]any) *ToolCallResult {
	stats := t.cache.Stats()
	if boolArg(args, "clear_cache", false) {
		t.cache.Clear()
	}
	return SuccessResult(stats)
}
