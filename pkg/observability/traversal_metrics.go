package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommitsTotal      = "commitlens.traversal.commits.total"
	metricWarningsTotal     = "commitlens.traversal.warnings.total"
	metricDuplicatesTotal   = "commitlens.traversal.duplicates.total"
	metricTraversalDuration = "commitlens.traversal.duration.seconds"
	metricCacheLookupsTotal = "commitlens.cache.lookups.total"

	attrResult = "result"
)

// TraversalMetrics holds the instruments for history extraction runs and
// the extraction cache.
type TraversalMetrics struct {
	commits      metric.Int64Counter
	warnings     metric.Int64Counter
	duplicates   metric.Int64Counter
	duration     metric.Float64Histogram
	cacheLookups metric.Int64Counter
}

// TraversalStats summarizes one completed extraction.
type TraversalStats struct {
	Commits    int
	Warnings   int
	Duplicates int
	Duration   time.Duration
}

// NewTraversalMetrics creates traversal instruments from the given meter.
func NewTraversalMetrics(mt metric.Meter) (*TraversalMetrics, error) {
	commits, err := mt.Int64Counter(metricCommitsTotal,
		metric.WithDescription("Commit records produced by traversal"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsTotal, err)
	}

	warnings, err := mt.Int64Counter(metricWarningsTotal,
		metric.WithDescription("Commits skipped because they could not be converted"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricWarningsTotal, err)
	}

	duplicates, err := mt.Int64Counter(metricDuplicatesTotal,
		metric.WithDescription("Records dropped by hash de-duplication"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDuplicatesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricTraversalDuration,
		metric.WithDescription("Wall time of a full extraction in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTraversalDuration, err)
	}

	lookups, err := mt.Int64Counter(metricCacheLookupsTotal,
		metric.WithDescription("Extraction cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheLookupsTotal, err)
	}

	return &TraversalMetrics{
		commits:      commits,
		warnings:     warnings,
		duplicates:   duplicates,
		duration:     duration,
		cacheLookups: lookups,
	}, nil
}

// RecordRun records the statistics of a completed extraction.
// Safe to call on a nil receiver.
func (tm *TraversalMetrics) RecordRun(ctx context.Context, stats TraversalStats) {
	if tm == nil {
		return
	}

	tm.commits.Add(ctx, int64(stats.Commits))
	tm.warnings.Add(ctx, int64(stats.Warnings))
	tm.duplicates.Add(ctx, int64(stats.Duplicates))
	tm.duration.Record(ctx, stats.Duration.Seconds())
}

// RecordCacheLookup counts one cache hit or miss. Safe on a nil receiver.
func (tm *TraversalMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if tm == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	tm.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
