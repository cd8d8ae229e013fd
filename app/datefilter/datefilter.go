// Package datefilter parses date expressions and filters normalized items
// by publication time.
package datefilter

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/larusv/frettavakt/app/feed"
)

var relativePattern = regexp.MustCompile(`^(\d+)\s+(minute|hour|day|week)s?\s+ago$`)

// Parse resolves a date expression into an absolute instant relative to
// now. Recognized forms: "today", "yesterday", "<N> <unit> ago" with unit
// minute/hour/day/week, and general date strings. Unparseable input
// returns false: a malformed expression means no filter, never an error,
// so a caller's typo cannot abort a whole query.
func Parse(expr string, now time.Time) (time.Time, bool) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return time.Time{}, false
	}

	switch expr {
	case "today":
		return startOfDay(now), true
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), true
	}

	if m := relativePattern.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		switch m[2] {
		case "minute":
			return now.Add(-time.Duration(n) * time.Minute), true
		case "hour":
			return now.Add(-time.Duration(n) * time.Hour), true
		case "day":
			return now.AddDate(0, 0, -n), true
		case "week":
			return now.AddDate(0, 0, -7*n), true
		}
	}

	parsed, err := dateparse.ParseAny(expr)
	if err != nil {
		slog.Debug("Unparseable date expression ignored", "expr", expr, "error", err)
		return time.Time{}, false
	}
	return parsed, true
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Range is an optional [Since, Until] publication window, bounds
// inclusive. A nil bound is open.
type Range struct {
	Since *time.Time
	Until *time.Time
}

// ParseRange builds a Range from two expressions, dropping whichever does
// not parse.
func ParseRange(sinceExpr, untilExpr string, now time.Time) Range {
	var r Range
	if since, ok := Parse(sinceExpr, now); ok {
		r.Since = &since
	}
	if until, ok := Parse(untilExpr, now); ok {
		r.Until = &until
	}
	return r
}

// Active reports whether the range constrains anything.
func (r Range) Active() bool {
	return r.Since != nil || r.Until != nil
}

// Apply filters items to those published within the range.
func (r Range) Apply(items []feed.Item) []feed.Item {
	if !r.Active() {
		return items
	}

	out := make([]feed.Item, 0, len(items))
	for _, item := range items {
		if r.Since != nil && item.Published.Before(*r.Since) {
			continue
		}
		if r.Until != nil && item.Published.After(*r.Until) {
			continue
		}
		out = append(out, item)
	}
	return out
}
