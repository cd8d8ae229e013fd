package feed

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/larusv/frettavakt/app/registry"
)

// Fetcher retrieves and parses one feed URL into a normalized Response.
// It performs no retries and no caching; both are the caller's concern.
type Fetcher struct {
	registry     *registry.Registry
	client       *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
	timeout      time.Duration
	now          func() time.Time
}

func NewFetcher(reg *registry.Registry, client *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		registry:     reg,
		client:       client,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
		timeout:      timeout,
		now:          time.Now,
	}
}

// Fetch resolves the feed via the registry, retrieves and parses it, and
// returns up to FetchCap normalized items sorted by publication date
// descending. Unknown identifiers fail with registry.NotFoundError;
// network and parse failures surface as FetchError or TimeoutError.
func (f *Fetcher) Fetch(ctx context.Context, sourceID, feedID string) (*Response, error) {
	src, fd, err := f.registry.Feed(sourceID, feedID)
	if err != nil {
		return nil, err
	}

	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline).Round(time.Millisecond)
	}

	data, err := f.fetchRaw(ctx, fd.URL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Source: sourceID, Feed: feedID, Timeout: timeout}
		}
		return nil, &FetchError{Source: sourceID, Feed: feedID, Err: err}
	}

	parsed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{Source: sourceID, Feed: feedID, Err: fmt.Errorf("failed to parse feed: %w", err)}
	}

	fetchedAt := f.now()
	items := make([]Item, 0, min(len(parsed.Items), FetchCap))
	for _, raw := range parsed.Items {
		if len(items) >= FetchCap {
			break
		}
		items = append(items, f.normalizeItem(raw, src, fd, fetchedAt))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})

	return &Response{
		Source:          src.ID,
		SourceName:      src.Name,
		Feed:            fd.ID,
		FeedDescription: fd.Description,
		FetchedAt:       fetchedAt,
		Count:           len(items),
		Items:           items,
	}, nil
}

func (f *Fetcher) fetchRaw(ctx context.Context, url string) ([]byte, error) {
	// Apply the fetcher's own timeout only when the caller did not set a
	// deadline; the health checker brings its own per-feed deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (f *Fetcher) normalizeItem(raw *gofeed.Item, src *registry.Source, fd *registry.Feed, fetchedAt time.Time) Item {
	item := Item{
		Title:           cmp.Or(strings.TrimSpace(raw.Title), "No title"),
		Link:            raw.Link,
		Description:     normalizeDescription(raw),
		Published:       fetchedAt,
		Author:          extractAuthor(raw),
		Source:          src.ID,
		SourceName:      src.Name,
		Feed:            fd.ID,
		FeedDescription: fd.Description,
	}

	if raw.PublishedParsed != nil {
		item.Published = *raw.PublishedParsed
	} else if raw.UpdatedParsed != nil {
		item.Published = *raw.UpdatedParsed
	}

	return item
}

func normalizeDescription(raw *gofeed.Item) string {
	text := plainText(raw.Description)
	if text == "" {
		text = plainText(raw.Content)
	}
	if text == "" {
		return "No description"
	}
	return truncate(text, DescriptionLimit)
}

func extractAuthor(raw *gofeed.Item) string {
	if len(raw.Authors) > 0 && raw.Authors[0] != nil {
		if name := strings.TrimSpace(raw.Authors[0].Name); name != "" {
			return name
		}
	}
	if raw.Author != nil {
		return strings.TrimSpace(cmp.Or(raw.Author.Name, raw.Author.Email))
	}
	return ""
}
