// Package health sweeps configured feeds and records per-feed outcomes.
package health

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/larusv/frettavakt/app/aggregator"
	"github.com/larusv/frettavakt/app/feed"
	"github.com/larusv/frettavakt/app/registry"
)

const (
	StatusHealthy = "healthy"
	StatusFailed  = "failed"
)

// Result is one feed's outcome within a sweep. Ephemeral: produced fresh
// per invocation.
type Result struct {
	Source          string `json:"source"`
	SourceName      string `json:"sourceName"`
	Feed            string `json:"feed"`
	FeedDescription string `json:"feedDescription"`
	Status          string `json:"status"`
	Items           int    `json:"items,omitempty"`
	Error           string `json:"error,omitempty"`
	LatencyMS       int64  `json:"latencyMs"`
}

// Checker exercises the fetcher directly across the registry, bypassing
// the cache, to measure per-feed reachability and latency.
type Checker struct {
	registry *registry.Registry
	fetcher  aggregator.FetcherInterface
}

func NewChecker(reg *registry.Registry, fetcher aggregator.FetcherInterface) *Checker {
	return &Checker{
		registry: reg,
		fetcher:  fetcher,
	}
}

// CheckAll sweeps every feed of the selected sources (all sources when
// none are named) concurrently, each fetch under its own timeout. The
// sweep itself never fails: it always returns one result per feed
// examined, and one feed timing out cannot keep another from being
// checked or reported. Unknown source ids in the selection are skipped.
func (c *Checker) CheckAll(ctx context.Context, sources []string, timeout time.Duration) []Result {
	if len(sources) == 0 {
		sources = c.registry.SourceIDs()
	}

	type target struct {
		src *registry.Source
		fd  registry.Feed
	}

	var targets []target
	for _, id := range sources {
		src, err := c.registry.Source(id)
		if err != nil {
			slog.Warn("Unknown source in health check selection, skipping", "source", id)
			continue
		}
		for _, fd := range src.Feeds {
			targets = append(targets, target{src: src, fd: fd})
		}
	}

	results := make([]Result, len(targets))
	var wg sync.WaitGroup

	for i, tg := range targets {
		wg.Add(1)
		go func(i int, tg target) {
			defer wg.Done()
			results[i] = c.checkFeed(ctx, tg.src, tg.fd, timeout)
		}(i, tg)
	}

	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Source != results[j].Source {
			return results[i].Source < results[j].Source
		}
		return results[i].Feed < results[j].Feed
	})

	return results
}

func (c *Checker) checkFeed(ctx context.Context, src *registry.Source, fd registry.Feed, timeout time.Duration) Result {
	result := Result{
		Source:          src.ID,
		SourceName:      src.Name,
		Feed:            fd.ID,
		FeedDescription: fd.Description,
	}

	feedCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.fetcher.Fetch(feedCtx, src.ID, fd.ID)
	result.LatencyMS = time.Since(started).Milliseconds()

	if err != nil {
		result.Status = StatusFailed
		var timeoutErr *feed.TimeoutError
		switch {
		case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
			result.Error = "timed out after " + timeout.String()
		default:
			result.Error = err.Error()
		}
		return result
	}

	result.Status = StatusHealthy
	result.Items = resp.Count
	return result
}
