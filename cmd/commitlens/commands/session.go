// Package commands implements CLI command handlers for commitlens.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitlens/pkg/config"
	"github.com/Sumatoshi-tech/commitlens/pkg/dataset"
	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
	"github.com/Sumatoshi-tech/commitlens/pkg/traversal"
	"github.com/Sumatoshi-tech/commitlens/pkg/version"
)

var (
	// ErrNoInput is returned when neither a source nor --input is given.
	ErrNoInput = errors.New("a repository source or --input dataset is required")
	// ErrConflictingInput is returned when both a source and --input are given.
	ErrConflictingInput = errors.New("a repository source and --input are mutually exclusive")
)

// Extractor reads a repository history. *traversal.Engine satisfies it.
type Extractor interface {
	Extract(ctx context.Context, source string, rng traversal.Range) (*traversal.Result, error)
}

// extractorFactory builds the extractor a command runs against.
type extractorFactory func(opts traversal.Options) Extractor

func defaultExtractor(opts traversal.Options) Extractor {
	return traversal.New(opts)
}

// session carries the configuration and telemetry of one command run.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	red       *observability.REDMetrics
	traversal *observability.TraversalMetrics
}

func (s *session) logger() *slog.Logger {
	return s.providers.Logger
}

// traversalOptions returns engine options wired to the session telemetry.
func (s *session) traversalOptions() traversal.Options {
	opts := s.cfg.TraversalOptions()
	opts.Logger = s.providers.Logger
	opts.Tracer = s.providers.Tracer
	opts.Metrics = s.traversal

	return opts
}

func (s *session) close() {
	err := s.providers.Shutdown(context.Background())
	if err != nil {
		s.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// openSession loads configuration, applies the --verbose/--debug/--quiet flags
// and initializes telemetry with logs on the command's stderr.
func openSession(cmd *cobra.Command, mode observability.AppMode) (*session, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")

	if verbose || debug {
		cfg.Logging.Level = "debug"
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		cfg.Logging.Level = "error"
	}

	providers, err := observability.InitWithWriter(cfg.ObservabilityConfig(mode, version.Version), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	tm, err := observability.NewTraversalMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &session{cfg: cfg, providers: providers, red: red, traversal: tm}, nil
}

// inputFlags selects the records a read-only command works on.
type inputFlags struct {
	input string
	since string
	to    string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Read an exported dataset (csv, json, yaml; optionally .lz4) instead of a repository")
	cmd.Flags().StringVarP(&f.since, "since", "s", "", "First day to extract (YYYY-MM-DD); requires --to")
	cmd.Flags().StringVarP(&f.to, "to", "t", "", "Last day to extract (YYYY-MM-DD); requires --since")
}

// load returns the records of source, or of the --input dataset.
func (f *inputFlags) load(
	ctx context.Context,
	sess *session,
	newExtractor extractorFactory,
	source string,
) ([]record.Record, []record.Warning, error) {
	source = strings.TrimSpace(source)

	switch {
	case source == "" && f.input == "":
		return nil, nil, ErrNoInput
	case source != "" && f.input != "":
		return nil, nil, ErrConflictingInput
	case f.input != "":
		ds, err := dataset.IngestFile(ctx, f.input, "")
		if err != nil {
			return nil, nil, err
		}

		return ds.Records, ds.Warnings, nil
	}

	return extract(ctx, sess, newExtractor, source, f.since, f.to)
}

func extract(
	ctx context.Context,
	sess *session,
	newExtractor extractorFactory,
	source, since, to string,
) ([]record.Record, []record.Warning, error) {
	rng, err := traversal.ParseRange(since, to)
	if err != nil {
		return nil, nil, err
	}

	if timeout := sess.cfg.Traversal.Timeout; timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := newExtractor(sess.traversalOptions()).Extract(ctx, source, rng)
	if err != nil {
		return nil, nil, err
	}

	return result.Records, result.Warnings, nil
}

func sourceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return ""
}
