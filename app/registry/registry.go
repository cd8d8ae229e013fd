package registry

import (
	"fmt"
	"sort"
)

// Registry is the immutable source/feed catalog. It is built once at
// process start, either from the compiled-in table or from a YAML sources
// directory, and is read-only afterwards.
type Registry struct {
	sources    []Source
	byID       map[string]*Source
	categories map[string][]FeedRef
}

// New builds a registry from the compiled-in Icelandic source table.
func New() *Registry {
	reg, err := build(defaultSources, defaultCategories)
	if err != nil {
		// The compiled-in table is validated by tests; a bad entry is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("invalid built-in source table: %v", err))
	}
	return reg
}

func build(sources []Source, categories map[string][]FeedRef) (*Registry, error) {
	reg := &Registry{
		sources:    sources,
		byID:       make(map[string]*Source, len(sources)),
		categories: categories,
	}

	for i := range reg.sources {
		src := &reg.sources[i]
		if err := validateSource(src); err != nil {
			return nil, err
		}
		if _, dup := reg.byID[src.ID]; dup {
			return nil, fmt.Errorf("duplicate source id '%s'", src.ID)
		}
		reg.byID[src.ID] = src
	}

	for category, refs := range categories {
		for _, ref := range refs {
			src, ok := reg.byID[ref.Source]
			if !ok {
				return nil, fmt.Errorf("category '%s' references unknown source '%s'", category, ref.Source)
			}
			if src.feed(ref.Feed) == nil {
				return nil, fmt.Errorf("category '%s' references unknown feed '%s/%s'", category, ref.Source, ref.Feed)
			}
		}
	}

	return reg, nil
}

func validateSource(src *Source) error {
	if src.ID == "" {
		return fmt.Errorf("source id is required")
	}
	if src.Name == "" {
		return fmt.Errorf("source '%s': name is required", src.ID)
	}
	if len(src.Feeds) == 0 {
		return fmt.Errorf("source '%s': at least one feed is required", src.ID)
	}
	seen := make(map[string]bool, len(src.Feeds))
	for _, f := range src.Feeds {
		if f.ID == "" {
			return fmt.Errorf("source '%s': feed id is required", src.ID)
		}
		if f.URL == "" {
			return fmt.Errorf("source '%s': feed '%s' has no URL", src.ID, f.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("source '%s': duplicate feed id '%s'", src.ID, f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

// Sources returns all sources in declaration order.
func (r *Registry) Sources() []Source {
	return r.sources
}

// SourceIDs returns all source ids in declaration order.
func (r *Registry) SourceIDs() []string {
	ids := make([]string, 0, len(r.sources))
	for i := range r.sources {
		ids = append(ids, r.sources[i].ID)
	}
	return ids
}

// Source looks up a source by id.
func (r *Registry) Source(id string) (*Source, error) {
	src, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Kind: "source", Key: id, Valid: r.SourceIDs()}
	}
	return src, nil
}

// Feed looks up a feed by source and feed id. An unknown feed id fails
// with a NotFoundError listing the source's valid feeds; there is no
// silent fallback to another feed.
func (r *Registry) Feed(sourceID, feedID string) (*Source, *Feed, error) {
	src, err := r.Source(sourceID)
	if err != nil {
		return nil, nil, err
	}
	f := src.feed(feedID)
	if f == nil {
		return nil, nil, &NotFoundError{Kind: "feed", Key: feedID, Valid: src.FeedIDs()}
	}
	return src, f, nil
}

// MainFeeds returns the curated all-news set: each source's primary feed.
func (r *Registry) MainFeeds() []FeedRef {
	refs := make([]FeedRef, 0, len(r.sources))
	for i := range r.sources {
		src := &r.sources[i]
		if pf := src.PrimaryFeed(); pf != nil {
			refs = append(refs, FeedRef{Source: src.ID, Feed: pf.ID})
		}
	}
	return refs
}

// CategoryFeeds returns the (source, feed) pairs of a named category. The
// second return is false for unrecognized categories; the caller decides
// the fallback (the aggregator falls back to all-news).
func (r *Registry) CategoryFeeds(category string) ([]FeedRef, bool) {
	refs, ok := r.categories[category]
	return refs, ok
}

// Categories returns the known category names, sorted.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeedCount returns the total number of feeds across all sources.
func (r *Registry) FeedCount() int {
	n := 0
	for i := range r.sources {
		n += len(r.sources[i].Feeds)
	}
	return n
}
