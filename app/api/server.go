package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP router with all routes configured. The MCP
// handler is optional; when nil the /mcp endpoint is not mounted.
func NewServer(handler *Handler, mcpHandler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS for browser-based clients
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, mcpHandler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, mcpHandler gin.HandlerFunc) {
	// News queries
	r.GET("/news", handler.GetAllNews)
	r.GET("/news/category/:category", handler.GetNewsByCategory)
	r.GET("/news/:source", handler.GetNews)
	r.GET("/search", handler.SearchNews)

	// Catalog
	r.GET("/feeds", handler.ListFeeds)
	r.GET("/feeds/:source", handler.ListSourceFeeds)

	// Health and status
	r.GET("/health", handler.GetHealth)
	r.POST("/check", handler.CheckFeeds)
	r.GET("/stats", handler.GetStats)
	r.DELETE("/stats", handler.ClearStats)

	// Tool-calling endpoint
	if mcpHandler != nil {
		r.POST("/mcp", mcpHandler)
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"all news": "/news?limit=10",
			"news":     "/news/<source>?feed=frettir&limit=10&since=&until=",
			"category": "/news/category/<category>?limit=10",
			"search":   "/search?q=<query>&limit=20&case_sensitive=false",
			"feeds":    "/feeds",
			"health":   "/health",
			"check":    "/check (POST) ?sources=&timeout_ms=10000",
			"stats":    "/stats (GET to read, DELETE to clear)",
		}
		if mcpHandler != nil {
			endpoints["mcp"] = "/mcp (POST, JSON-RPC 2.0)"
		}

		c.JSON(200, gin.H{
			"service":     "Frettavakt",
			"description": "Icelandic RSS/Atom news aggregator with a tool-calling interface",
			"endpoints":   endpoints,
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
