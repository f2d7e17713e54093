// Package traversal extracts the commit history of a repository into a
// sorted, de-duplicated sequence of records using a bounded pool of
// libgit2 workers.
package traversal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/commitlens/pkg/gitlib"
	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// DefaultWorkers is the worker pool width used when Options.Workers is unset.
const DefaultWorkers = 10

// Options configures an Engine.
type Options struct {
	// Workers bounds the number of goroutines converting commits.
	Workers int

	// LanguageStats enables the per-language line breakdown. It walks
	// every diff line and is several times slower than plain stats.
	LanguageStats bool

	// CloneDir is where remote sources are cloned. Empty uses os.TempDir.
	CloneDir string

	// OnProgress, when set, is called from worker goroutines after each
	// converted commit with the running total. It must return quickly.
	OnProgress func(processed int64)

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.TraversalMetrics
}

// Engine runs extractions. Extract calls on one Engine are serialized so
// that Processed describes the current run.
type Engine struct {
	opts      Options
	processed atomic.Int64
	mu        sync.Mutex

	convert func(repo *gitlib.Repository, hash gitlib.Hash, languageStats bool) (record.Record, error)
}

// New creates an Engine with defaults applied to opts.
func New(opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(observability.InstrumentationName)
	}

	return &Engine{opts: opts, convert: convert}
}

// Workers returns the configured pool width.
func (e *Engine) Workers() int {
	return e.opts.Workers
}

// Processed returns how many commits the current or last run converted.
// It is safe to call while Extract is running.
func (e *Engine) Processed() int64 {
	return e.processed.Load()
}

// Extract reads the history of source within rng. It returns only after all
// workers have finished; on cancellation partial results are discarded.
// An empty history is not an error: the returned Result reports Empty.
func (e *Engine) Extract(ctx context.Context, source string, rng Range) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.processed.Store(0)

	start := time.Now()
	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)

	ctx, span := e.opts.Tracer.Start(ctx, "commitlens.traversal.extract", trace.WithAttributes(
		attribute.String("commitlens.source", source),
		attribute.String("traversal.run_id", runID),
		attribute.Int("traversal.workers", e.opts.Workers),
		attribute.Bool("traversal.language_stats", e.opts.LanguageStats),
	))
	defer span.End()

	result, err := e.extract(ctx, source, rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	duplicates := countDuplicates(result.Warnings)

	span.SetAttributes(
		attribute.Int("traversal.commits", len(result.Records)),
		attribute.Int("traversal.warnings", len(result.Warnings)),
	)

	e.opts.Metrics.RecordRun(ctx, observability.TraversalStats{
		Commits:    len(result.Records),
		Warnings:   len(result.Warnings) - duplicates,
		Duplicates: duplicates,
		Duration:   time.Since(start),
	})

	e.opts.Logger.InfoContext(ctx, "extraction finished",
		"source", source,
		"commits", len(result.Records),
		"warnings", len(result.Warnings),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)

	return result, nil
}

func (e *Engine) extract(ctx context.Context, source string, rng Range) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := gitlib.Load(ctx, source, e.opts.CloneDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
	}
	defer repo.Free()

	hashes, err := collectHashes(repo, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
	}

	result := &Result{Source: source, Range: rng, Records: []record.Record{}}

	if len(hashes) == 0 {
		e.opts.Logger.InfoContext(ctx, "no commits in range", "source", source)

		return result, nil
	}

	outputs, err := e.runWorkers(ctx, repo.Path(), partition(hashes, e.opts.Workers))
	if err != nil {
		return nil, err
	}

	var converted []record.Record

	for _, out := range outputs {
		converted = append(converted, out.records...)
		result.Warnings = append(result.Warnings, out.warnings...)
	}

	records, dupWarnings := record.Normalize(converted)
	result.Records = records
	result.Warnings = append(result.Warnings, dupWarnings...)

	for _, w := range dupWarnings {
		e.opts.Logger.WarnContext(ctx, "duplicate commit dropped", "hash", w.Hash)
	}

	return result, nil
}

// workerOutput is owned by exactly one worker until the group is joined.
type workerOutput struct {
	records  []record.Record
	warnings []record.Warning
}

func (e *Engine) runWorkers(ctx context.Context, path string, chunks [][]gitlib.Hash) ([]workerOutput, error) {
	outputs := make([]workerOutput, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, chunk := range chunks {
		g.Go(func() error {
			out, err := e.processChunk(gctx, path, chunk)
			if err != nil {
				return err
			}

			outputs[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("traverse %s: %w", path, err)
	}

	return outputs, nil
}

// processChunk converts a contiguous run of commits on a private repository
// handle.
func (e *Engine) processChunk(ctx context.Context, path string, chunk []gitlib.Hash) (workerOutput, error) {
	var out workerOutput

	repo, err := gitlib.OpenRepository(path)
	if err != nil {
		return out, err
	}
	defer repo.Free()

	out.records = make([]record.Record, 0, len(chunk))

	for _, hash := range chunk {
		if err = ctx.Err(); err != nil {
			return workerOutput{}, err
		}

		rec, convErr := e.convert(repo, hash, e.opts.LanguageStats)
		if convErr != nil {
			w := record.Warning{Hash: hash.String(), Err: convErr}
			out.warnings = append(out.warnings, w)
			e.opts.Logger.WarnContext(ctx, "commit skipped", "hash", w.Hash, "reason", convErr.Error())
		} else {
			out.records = append(out.records, rec)
		}

		n := e.processed.Add(1)
		if e.opts.OnProgress != nil {
			e.opts.OnProgress(n)
		}
	}

	return out, nil
}

func countDuplicates(warnings []record.Warning) int {
	n := 0

	for _, w := range warnings {
		if errors.Is(w.Err, record.ErrDuplicateHash) {
			n++
		}
	}

	return n
}
