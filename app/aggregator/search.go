package aggregator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/larusv/frettavakt/app/feed"
	"github.com/larusv/frettavakt/app/registry"
)

// SearchResult is a matched, merged item list for one query.
type SearchResult struct {
	Query         string      `json:"query"`
	CaseSensitive bool        `json:"caseSensitive"`
	Sources       []string    `json:"sources"`
	FetchedAt     time.Time   `json:"fetchedAt"`
	Count         int         `json:"count"`
	Items         []feed.Item `json:"items"`
}

// Search queries the primary feed of the selected sources (all sources
// when none are named), matching items whose title or description
// contains the query. Matching is case-insensitive by default using
// Unicode case folding, so "frétt" finds "Frétt". Unknown source ids in
// the selection are skipped with a warning; they never fail the search.
func (a *Aggregator) Search(ctx context.Context, query string, sources []string, limit int, caseSensitive bool) *SearchResult {
	if len(sources) == 0 {
		sources = a.registry.SourceIDs()
	}

	var refs []registry.FeedRef
	var selected []string
	for _, id := range sources {
		src, err := a.registry.Source(id)
		if err != nil {
			slog.Warn("Unknown source in search selection, skipping", "source", id)
			continue
		}
		refs = append(refs, registry.FeedRef{Source: src.ID, Feed: src.PrimaryFeed().ID})
		selected = append(selected, src.ID)
	}

	merged := a.collect(ctx, refs, SearchFetchLimit)

	match := newMatcher(query, caseSensitive)
	matched := make([]feed.Item, 0, len(merged))
	for _, item := range merged {
		if match(item.Title) || match(item.Description) {
			matched = append(matched, item)
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return &SearchResult{
		Query:         query,
		CaseSensitive: caseSensitive,
		Sources:       selected,
		FetchedAt:     a.now(),
		Count:         len(matched),
		Items:         matched,
	}
}

// newMatcher returns a substring predicate for the query. The insensitive
// form folds rather than lowercases so Icelandic letters compare the way
// readers expect.
func newMatcher(query string, caseSensitive bool) func(string) bool {
	if caseSensitive {
		return func(s string) bool {
			return strings.Contains(s, query)
		}
	}

	fold := cases.Fold()
	folded := fold.String(query)
	return func(s string) bool {
		return strings.Contains(fold.String(s), folded)
	}
}
