package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larusv/frettavakt/app/datefilter"
	"github.com/larusv/frettavakt/app/feed"
	"github.com/larusv/frettavakt/app/health"
	"github.com/larusv/frettavakt/app/registry"
)

func (h *Handler) GetNews(c *gin.Context) {
	source := c.Param("source")
	limit := queryInt(c, "limit", 10, 1, feed.FetchCap)
	dateRange := datefilter.ParseRange(c.Query("since"), c.Query("until"), time.Now())

	resp, err := h.aggregator.GetNews(c.Request.Context(), source, c.Query("feed"), limit, dateRange)
	if err != nil {
		h.renderFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetAllNews(c *gin.Context) {
	limit := queryInt(c, "limit", 10, 1, feed.FetchCap)
	c.JSON(http.StatusOK, h.aggregator.AllNews(c.Request.Context(), limit))
}

func (h *Handler) GetNewsByCategory(c *gin.Context) {
	limit := queryInt(c, "limit", 10, 1, feed.FetchCap)
	c.JSON(http.StatusOK, h.aggregator.ByCategory(c.Request.Context(), c.Param("category"), limit))
}

func (h *Handler) SearchNews(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter 'q'"})
		return
	}

	result := h.aggregator.Search(c.Request.Context(), query,
		querySlice(c, "sources"),
		queryInt(c, "limit", 20, 1, 100),
		c.Query("case_sensitive") == "true")

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListFeeds(c *gin.Context) {
	sources := h.registry.Sources()

	catalog := make([]gin.H, 0, len(sources))
	for _, src := range sources {
		catalog = append(catalog, gin.H{
			"source": src.ID,
			"name":   src.Name,
			"url":    src.URL,
			"feeds":  src.Feeds,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sources":    catalog,
		"categories": h.registry.Categories(),
		"total":      h.registry.FeedCount(),
	})
}

func (h *Handler) ListSourceFeeds(c *gin.Context) {
	src, err := h.registry.Source(c.Param("source"))
	if err != nil {
		h.renderFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source": src.ID,
		"name":   src.Name,
		"url":    src.URL,
		"feeds":  src.Feeds,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"sources":    len(h.registry.Sources()),
		"feeds":      h.registry.FeedCount(),
		"categories": len(h.registry.Categories()),
	})
}

func (h *Handler) CheckFeeds(c *gin.Context) {
	timeout := time.Duration(queryInt(c, "timeout_ms", 10000, 1000, 30000)) * time.Millisecond

	results := h.checker.CheckAll(c.Request.Context(), querySlice(c, "sources"), timeout)

	healthy := 0
	for _, r := range results {
		if r.Status == health.StatusHealthy {
			healthy++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"checkedAt": time.Now(),
		"healthy":   healthy,
		"failed":    len(results) - healthy,
		"results":   results,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

// ClearStats returns the statistics as of before clearing, then empties
// the cache and zeroes the counters.
func (h *Handler) ClearStats(c *gin.Context) {
	stats := h.cache.Stats()
	h.cache.Clear()
	c.JSON(http.StatusOK, gin.H{
		"cleared": true,
		"stats":   stats,
	})
}

// renderFetchError maps domain errors to HTTP statuses: unknown
// identifiers are 404s carrying the valid alternatives, timeouts are 504s,
// and other fetch failures are 502s.
func (h *Handler) renderFetchError(c *gin.Context, err error) {
	var notFound *registry.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown " + notFound.Kind + ": " + notFound.Key,
			"valid": notFound.Valid,
		})
		return
	}

	var timeout *feed.TimeoutError
	if errors.As(err, &timeout) {
		slog.Error("Feed fetch timed out", "source", timeout.Source, "feed", timeout.Feed)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		return
	}

	var fetchErr *feed.FetchError
	if errors.As(err, &fetchErr) {
		slog.Error("Feed fetch failed", "source", fetchErr.Source, "feed", fetchErr.Feed, "error", fetchErr.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	slog.Error("Request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func queryInt(c *gin.Context, key string, fallback, low, high int) int {
	n := fallback
	if raw := c.Query(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			n = parsed
		}
	}
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}

func querySlice(c *gin.Context, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
