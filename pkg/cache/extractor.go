package cache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
	"github.com/Sumatoshi-tech/commitlens/pkg/traversal"
)

// Extractor produces extraction results. *traversal.Engine implements it.
type Extractor interface {
	Extract(ctx context.Context, source string, rng traversal.Range) (*traversal.Result, error)
}

// CachedExtractor serves repeated requests for the same source and range
// from a Store. Concurrent misses on one key share a single extraction.
// Failed extractions are never cached.
type CachedExtractor struct {
	inner   Extractor
	store   *Store
	group   singleflight.Group
	metrics *observability.TraversalMetrics
	logger  *slog.Logger
	timeout time.Duration
}

// NewCachedExtractor wraps inner. metrics and logger may be nil.
func NewCachedExtractor(inner Extractor, store *Store, metrics *observability.TraversalMetrics, logger *slog.Logger) *CachedExtractor {
	if logger == nil {
		logger = slog.Default()
	}

	return &CachedExtractor{inner: inner, store: store, metrics: metrics, logger: logger}
}

// Store returns the backing store for explicit invalidation.
func (c *CachedExtractor) Store() *Store {
	return c.store
}

// SetTimeout bounds each shared extraction. Zero means no bound.
func (c *CachedExtractor) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Extract returns the cached result for (source, rng) or runs inner.
// The shared extraction is detached from the caller's cancellation so that
// one caller giving up does not fail the others waiting on the same key;
// a canceled caller returns its context error at once.
func (c *CachedExtractor) Extract(ctx context.Context, source string, rng traversal.Range) (*traversal.Result, error) {
	key := KeyFor(source, rng)

	if result, ok := c.store.Get(key); ok {
		c.metrics.RecordCacheLookup(ctx, true)
		c.logger.DebugContext(ctx, "extraction cache hit", "source", key.Source)

		return result, nil
	}

	c.metrics.RecordCacheLookup(ctx, false)

	ch := c.group.DoChan(key.String(), func() (any, error) {
		if result, ok := c.store.peek(key); ok {
			return result, nil
		}

		shared := context.WithoutCancel(ctx)

		if c.timeout > 0 {
			var cancel context.CancelFunc

			shared, cancel = context.WithTimeout(shared, c.timeout)
			defer cancel()
		}

		result, err := c.inner.Extract(shared, source, rng)
		if err != nil {
			return nil, err
		}

		c.store.Put(key, result)

		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return copyResult(res.Val.(*traversal.Result)), nil
	}
}
