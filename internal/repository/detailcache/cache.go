// Package detailcache caches per-entity detail metadata in a key-value store,
// decorating the underlying detail fetcher.
package detailcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fedvid/fedvid/internal/db"
	"github.com/fedvid/fedvid/internal/usecase/aggregate"
)

const cacheKeyPrefix = "fedvid:detail_cache:"

// store is the consumer interface for the detail cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher caches detail metadata in a key-value store.
// Details are immutable for practical purposes, so entries only expire by TTL.
type CachedFetcher struct {
	inner      aggregate.DetailFetcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner aggregate.DetailFetcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

type cachedDetail struct {
	Width  int    `json:"w"`
	Height int    `json:"h"`
	Title  string `json:"t"`
}

// FetchDetail returns a cached detail or calls the inner fetcher.
func (c *CachedFetcher) FetchDetail(ctx context.Context, entityID, partition string) (aggregate.Detail, error) {
	key := cacheKey(entityID, partition)

	if d, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return d, nil
	}

	c.incCache("miss")

	d, err := c.inner.FetchDetail(ctx, entityID, partition)
	if err != nil {
		return aggregate.Detail{}, fmt.Errorf("fetch detail: %w", err)
	}

	c.putToCache(ctx, key, d)
	return d, nil
}

func (c *CachedFetcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(entityID, partition string) string {
	return cacheKeyPrefix + partition + ":" + entityID
}

func (c *CachedFetcher) getFromCache(ctx context.Context, key string) (aggregate.Detail, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached detail", zap.String("key", key), zap.Error(err))
		}
		return aggregate.Detail{}, false
	}

	var d cachedDetail
	if err := json.Unmarshal(data, &d); err != nil {
		c.logger.Warn("Failed to parse cached detail", zap.String("key", key), zap.Error(err))
		return aggregate.Detail{}, false
	}

	return aggregate.Detail{Width: d.Width, Height: d.Height, Title: d.Title}, true
}

func (c *CachedFetcher) putToCache(ctx context.Context, key string, d aggregate.Detail) {
	data, err := json.Marshal(cachedDetail{Width: d.Width, Height: d.Height, Title: d.Title})
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache detail", zap.String("key", key), zap.Error(err))
	}
}
