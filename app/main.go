package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/larusv/frettavakt/app/aggregator"
	"github.com/larusv/frettavakt/app/api"
	"github.com/larusv/frettavakt/app/cache"
	"github.com/larusv/frettavakt/app/cfg"
	"github.com/larusv/frettavakt/app/feed"
	"github.com/larusv/frettavakt/app/health"
	"github.com/larusv/frettavakt/app/mcp"
	"github.com/larusv/frettavakt/app/registry"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appCfg)
	slog.Info("Starting Frettavakt", "version", appCfg.Version)

	// Source registry: compiled-in table, or a YAML sources directory
	var reg *registry.Registry
	if appCfg.SourcesDir != "" {
		reg, err = registry.NewFromDir(appCfg.SourcesDir)
		if err != nil {
			slog.Error("Failed to load sources directory", "dir", appCfg.SourcesDir, "error", err)
			os.Exit(1)
		}
		slog.Info("Source registry loaded from directory", "dir", appCfg.SourcesDir, "sources", len(reg.Sources()), "feeds", reg.FeedCount())
	} else {
		reg = registry.New()
		slog.Info("Source registry loaded", "sources", len(reg.Sources()), "feeds", reg.FeedCount())
	}

	// Core components
	httpClient := &http.Client{}
	fetchTimeout := time.Duration(appCfg.FetchTimeout) * time.Second
	fetcher := feed.NewFetcher(reg, httpClient, appCfg.UserAgent, fetchTimeout)
	feedCache := cache.New(time.Duration(appCfg.CacheTTL) * time.Second)
	agg := aggregator.New(reg, fetcher, feedCache)
	checker := health.NewChecker(reg, fetcher)

	// Tool server
	mcpServer := mcp.NewServer("frettavakt", appCfg.Version)
	mcpServer.Register(
		mcp.NewGetNewsTool(agg),
		mcp.NewListFeedsTool(reg),
		mcp.NewSearchNewsTool(agg),
		mcp.NewCheckFeedsTool(checker),
		mcp.NewCacheStatsTool(feedCache),
	)

	if appCfg.MCPTransport == "stdio" {
		runStdio(mcpServer)
		return
	}

	runHTTP(appCfg, reg, agg, checker, feedCache, mcpServer)
}

func runStdio(mcpServer *mcp.Server) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Serving tools on stdio")
	if err := mcpServer.RunStdio(ctx); err != nil && err != context.Canceled {
		slog.Error("Tool server error", "error", err)
		os.Exit(1)
	}
}

func runHTTP(appCfg *cfg.Cfg, reg *registry.Registry, agg *aggregator.Aggregator,
	checker *health.Checker, feedCache *cache.Cache, mcpServer *mcp.Server) {

	apiHandler := api.NewHandler(reg, agg, checker, feedCache)
	server := api.NewServer(apiHandler, mcpServer.GinHandler())

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func setupLogging(appCfg *cfg.Cfg) {
	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}

	// stdout carries protocol frames in stdio mode; logs always go to
	// stderr so the two never interleave.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
