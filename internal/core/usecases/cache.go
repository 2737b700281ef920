package usecases

import (
	"context"
	"encoding/json"

	"github.com/samirrijal/questmap/internal/core/ports"
	"github.com/samirrijal/questmap/internal/pkg/logging"
	"github.com/samirrijal/questmap/internal/pkg/metrics"
)

// cacheGet decodes a cached JSON value into dst. It reports whether dst was filled.
func cacheGet(ctx context.Context, cache ports.CacheService, op, key string, dst any) bool {
	if cache == nil {
		return false
	}
	data, err := cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

func cacheSet(ctx context.Context, cache ports.CacheService, key string, v any, ttlSeconds int) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, ttlSeconds); err != nil {
		logging.FromContext(ctx).Debug("cache set failed", "key", key, "error", err)
	}
}

func cacheDelete(ctx context.Context, cache ports.CacheService, keys ...string) {
	if cache == nil {
		return
	}
	for _, key := range keys {
		if err := cache.Delete(ctx, key); err != nil {
			logging.FromContext(ctx).Warn("cache invalidation failed", "key", key, "error", err)
		}
	}
}
