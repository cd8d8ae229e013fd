package feed

import (
	"time"
)

// Fetch and normalization limits. Fetches always collect up to FetchCap
// items regardless of the caller's requested limit, so one cached fetch
// can satisfy differing limit requests.
const (
	FetchCap         = 50
	DescriptionLimit = 300
)

// Item is one normalized article. It carries denormalized source and feed
// context so it can be displayed standalone outside its fetch.
type Item struct {
	Title           string    `json:"title"`
	Link            string    `json:"link"`
	Description     string    `json:"description"`
	Published       time.Time `json:"published"`
	Author          string    `json:"author,omitempty"`
	Source          string    `json:"source"`
	SourceName      string    `json:"sourceName"`
	Feed            string    `json:"feed"`
	FeedDescription string    `json:"feedDescription"`
}

// Response is the result of fetching one source feed.
type Response struct {
	Source          string    `json:"source"`
	SourceName      string    `json:"sourceName"`
	Feed            string    `json:"feed"`
	FeedDescription string    `json:"feedDescription"`
	FetchedAt       time.Time `json:"fetchedAt"`
	Count           int       `json:"count"`
	Items           []Item    `json:"items"`
}

// Limit returns a copy of the response sliced to at most n items. The
// receiver is left untouched so cached responses stay full-size.
func (r *Response) Limit(n int) *Response {
	out := *r
	if n > 0 && len(out.Items) > n {
		out.Items = out.Items[:n]
	}
	out.Count = len(out.Items)
	return &out
}

// WithItems returns a copy of the response holding the given item set.
func (r *Response) WithItems(items []Item) *Response {
	out := *r
	out.Items = items
	out.Count = len(items)
	return &out
}
