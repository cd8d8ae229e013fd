package feed

import (
	"fmt"
	"time"
)

// FetchError is a network or parse failure for one feed. It wraps the
// underlying cause and carries the source and feed context.
type FetchError struct {
	Source string
	Feed   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed %s/%s: %v", e.Source, e.Feed, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TimeoutError is a bounded wait exceeded during a feed fetch. It is
// distinct from FetchError so callers can tell transient slowness from
// hard failure.
type TimeoutError struct {
	Source  string
	Feed    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("feed %s/%s timed out after %s", e.Source, e.Feed, e.Timeout)
}
