package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
	"github.com/Sumatoshi-tech/commitlens/pkg/dataset"
	"github.com/Sumatoshi-tech/commitlens/pkg/filter"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
	"github.com/Sumatoshi-tech/commitlens/pkg/traversal"
)

// Tool name constants.
const (
	ToolNameExtract     = "commitlens_extract"
	ToolNameQuery       = "commitlens_query"
	ToolNameListQueries = "commitlens_list_queries"
	ToolNameInvalidate  = "commitlens_invalidate"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptySource indicates neither source nor dataset was given.
	ErrEmptySource = errors.New("source or dataset parameter is required")
	// ErrSourceAndDataset indicates both inputs were given.
	ErrSourceAndDataset = errors.New("source and dataset are mutually exclusive")
	// ErrEmptyQuery indicates the query parameter is empty.
	ErrEmptyQuery = errors.New("query parameter is required and must not be empty")
)

// Input types (auto-generate JSON schemas via struct tags).

// ExtractInput is the input schema for the commitlens_extract tool.
type ExtractInput struct {
	Source string `json:"source"          jsonschema:"local repository path or remote URL"`
	Since  string `json:"since,omitempty" jsonschema:"first day to include (YYYY-MM-DD); requires to"`
	To     string `json:"to,omitempty"    jsonschema:"last day to include (YYYY-MM-DD); requires since"`
}

// QueryInput is the input schema for the commitlens_query tool.
type QueryInput struct {
	Query       string `json:"query"                 jsonschema:"aggregation name, e.g. top_contributors"`
	Source      string `json:"source,omitempty"      jsonschema:"local repository path or remote URL"`
	Dataset     string `json:"dataset,omitempty"     jsonschema:"path of an exported csv/json/yaml dataset (optionally .lz4)"`
	Since       string `json:"since,omitempty"       jsonschema:"extraction start day (YYYY-MM-DD); requires to"`
	To          string `json:"to,omitempty"          jsonschema:"extraction end day (YYYY-MM-DD); requires since"`
	Start       string `json:"start,omitempty"       jsonschema:"query window start day (YYYY-MM-DD)"`
	End         string `json:"end,omitempty"         jsonschema:"query window end day (YYYY-MM-DD)"`
	Contributor string `json:"contributor,omitempty" jsonschema:"author name to select"`
	N           int    `json:"n,omitempty"           jsonschema:"ranking size for top-n queries"`
}

// ListQueriesInput is the input schema for the commitlens_list_queries tool.
type ListQueriesInput struct{}

// InvalidateInput is the input schema for the commitlens_invalidate tool.
type InvalidateInput struct {
	Source string `json:"source" jsonschema:"repository path or URL whose cached extractions are dropped"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// ExtractOutput summarizes an extraction.
type ExtractOutput struct {
	Source   string                    `json:"source"`
	Records  int                       `json:"records"`
	Warnings []string                  `json:"warnings,omitempty"`
	Span     aggregate.Span            `json:"span"`
	Summary  aggregate.RepositoryStats `json:"summary"`
}

// QueryOutput carries one aggregation result.
type QueryOutput struct {
	Query   string `json:"query"`
	Records int    `json:"records"`
	Result  any    `json:"result"`
}

// QueryInfo describes one catalog entry.
type QueryInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// maxListedWarnings bounds the warnings echoed back by commitlens_extract.
const maxListedWarnings = 20

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ExtractInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if strings.TrimSpace(input.Source) == "" {
		return errorResult(ErrEmptySource)
	}

	records, warnings, err := s.load(ctx, input.Source, "", input.Since, input.To)
	if err != nil {
		return errorResult(err)
	}

	out := ExtractOutput{
		Source:  input.Source,
		Records: len(records),
		Span:    aggregate.Bounds(records),
		Summary: aggregate.RepositorySummary(records),
	}

	for i, w := range warnings {
		if i == maxListedWarnings {
			out.Warnings = append(out.Warnings, fmt.Sprintf("... %d more", len(warnings)-maxListedWarnings))

			break
		}

		out.Warnings = append(out.Warnings, w.Error())
	}

	return jsonResult(out)
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input QueryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return errorResult(ErrEmptyQuery)
	}

	if _, ok := aggregate.Catalog().Get(input.Query); !ok {
		return errorResult(fmt.Errorf("unknown query %q; available: %s",
			input.Query, strings.Join(aggregate.Catalog().Names(), ", ")))
	}

	params, err := queryParams(input)
	if err != nil {
		return errorResult(err)
	}

	records, _, err := s.load(ctx, input.Source, input.Dataset, input.Since, input.To)
	if err != nil {
		return errorResult(err)
	}

	result, err := aggregate.Run(input.Query, records, params)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(QueryOutput{Query: input.Query, Records: len(records), Result: result})
}

func (s *Server) handleListQueries(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ ListQueriesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	queries := aggregate.Catalog().All()
	out := make([]QueryInfo, 0, len(queries))

	for _, q := range queries {
		out = append(out, QueryInfo{
			Name:        q.Name(),
			DisplayName: q.DisplayName(),
			Description: q.Description(),
			Type:        q.Type(),
		})
	}

	return jsonResult(out)
}

func (s *Server) handleInvalidate(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input InvalidateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if strings.TrimSpace(input.Source) == "" {
		return errorResult(ErrEmptySource)
	}

	removed := s.extractor.Store().InvalidateSource(input.Source)
	s.logger.InfoContext(ctx, "extraction cache invalidated", "source", input.Source, "entries", removed)

	return jsonResult(map[string]int{"removed": removed})
}

// load returns the records of a repository (through the cache) or of a
// dataset file.
func (s *Server) load(ctx context.Context, source, path, since, to string) ([]record.Record, []record.Warning, error) {
	source, path = strings.TrimSpace(source), strings.TrimSpace(path)

	switch {
	case source == "" && path == "":
		return nil, nil, ErrEmptySource
	case source != "" && path != "":
		return nil, nil, ErrSourceAndDataset
	case path != "":
		ds, err := dataset.IngestFile(ctx, path, "")
		if err != nil {
			return nil, nil, err
		}

		return ds.Records, ds.Warnings, nil
	}

	rng, err := traversal.ParseRange(since, to)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.extractor.Extract(ctx, source, rng)
	if err != nil {
		return nil, nil, err
	}

	return result.Records, result.Warnings, nil
}

func queryParams(input QueryInput) (aggregate.Params, error) {
	params := aggregate.Params{N: input.N, Contributor: input.Contributor}

	var start, end time.Time

	if input.Start != "" {
		parsed, err := record.ParseDate(input.Start)
		if err != nil {
			return params, fmt.Errorf("start: %w", err)
		}

		start = parsed
	}

	if input.End != "" {
		parsed, err := record.ParseDate(input.End)
		if err != nil {
			return params, fmt.Errorf("end: %w", err)
		}

		end = parsed
	}

	params.Start, params.End = filter.DayRange(start, end)

	return params, nil
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
