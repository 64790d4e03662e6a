package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int64
}

// RegisterCacheMetrics exposes hits, misses and entry count of a cache,
// read through stats on every collection.
func RegisterCacheMetrics(
	meterProvider metric.MeterProvider,
	namespace, cacheName string,
	stats func() CacheStats,
) error {
	meter := meterProvider.Meter(namespace)

	hits, err := meter.Int64ObservableCounter(
		fmt.Sprintf("%s_cache_hits_total", namespace),
		metric.WithDescription("Total number of cache hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache hits counter: %w", err)
	}

	misses, err := meter.Int64ObservableCounter(
		fmt.Sprintf("%s_cache_misses_total", namespace),
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache misses counter: %w", err)
	}

	entries, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_cache_entries", namespace),
		metric.WithDescription("Number of entries currently held by the cache"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache entries gauge: %w", err)
	}

	attrs := metric.WithAttributeSet(cacheAttributes(cacheName))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(hits, s.Hits, attrs)
		o.ObserveInt64(misses, s.Misses, attrs)
		o.ObserveInt64(entries, s.Entries, attrs)
		return nil
	}, hits, misses, entries)
	if err != nil {
		return fmt.Errorf("failed to register cache metrics callback: %w", err)
	}

	return nil
}

func cacheAttributes(cacheName string) attribute.Set {
	return attribute.NewSet(attribute.String("cache", cacheName))
}
