package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/larusv/frettavakt/app/aggregator"
	"github.com/larusv/frettavakt/app/feed"
)

// Plain-text renderings for tools that accept format=text. The JSON shape
// stays the canonical machine-parseable record; these are display views of
// the same data.

func renderResponse(resp *feed.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%s/%s)\n", resp.SourceName, resp.FeedDescription, resp.Source, resp.Feed)
	fmt.Fprintf(&b, "%d items, fetched %s\n", resp.Count, resp.FetchedAt.Format(time.RFC3339))
	writeItems(&b, resp.Items)
	return b.String()
}

func renderMerged(result *aggregator.Result) string {
	var b strings.Builder
	if result.Category != "" {
		fmt.Fprintf(&b, "Category %q\n", result.Category)
	} else {
		b.WriteString("All sources\n")
	}
	fmt.Fprintf(&b, "%d items, fetched %s\n", result.Count, result.FetchedAt.Format(time.RFC3339))
	writeItems(&b, result.Items)
	return b.String()
}

func writeItems(b *strings.Builder, items []feed.Item) {
	if len(items) == 0 {
		b.WriteString("\nNo items.\n")
		return
	}

	for i, item := range items {
		fmt.Fprintf(b, "\n%d. %s\n", i+1, item.Title)
		fmt.Fprintf(b, "   %s | %s/%s", item.Published.Format("2006-01-02 15:04"), item.Source, item.Feed)
		if item.Author != "" {
			fmt.Fprintf(b, " | %s", item.Author)
		}
		b.WriteString("\n")
		if item.Description != "" {
			fmt.Fprintf(b, "   %s\n", item.Description)
		}
		if item.Link != "" {
			fmt.Fprintf(b, "   %s\n", item.Link)
		}
	}
}
