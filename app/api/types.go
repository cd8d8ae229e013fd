package api

import (
	"github.com/larusv/frettavakt/app/aggregator"
	"github.com/larusv/frettavakt/app/cache"
	"github.com/larusv/frettavakt/app/health"
	"github.com/larusv/frettavakt/app/registry"
)

type Handler struct {
	registry   *registry.Registry
	aggregator *aggregator.Aggregator
	checker    *health.Checker
	cache      *cache.Cache
}

func NewHandler(reg *registry.Registry, agg *aggregator.Aggregator, checker *health.Checker, c *cache.Cache) *Handler {
	return &Handler{
		registry:   reg,
		aggregator: agg,
		checker:    checker,
		cache:      c,
	}
}
