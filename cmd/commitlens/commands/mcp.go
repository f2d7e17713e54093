package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitlens/pkg/cache"
	"github.com/Sumatoshi-tech/commitlens/pkg/mcp"
	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes commit history aggregation as tools that AI agents
can discover and invoke:
  - commitlens_extract: Extract a repository history and return totals
  - commitlens_query: Run a catalog aggregation over a repository or dataset
  - commitlens_list_queries: List the aggregation catalog
  - commitlens_invalidate: Drop cached extractions of a repository`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer sess.close()

			srv := mcp.NewServer(mcpDeps(sess))

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}

// disabledCacheTTL makes cached extractions expire at once. Concurrent calls
// for one source still share a traversal.
const disabledCacheTTL = time.Nanosecond

// mcpDeps wires the server to the session telemetry and the configured
// extraction cache.
func mcpDeps(sess *session) mcp.ServerDeps {
	ttl := sess.cfg.Cache.TTL
	if !sess.cfg.Cache.Enabled {
		ttl = disabledCacheTTL
	}

	store := cache.NewStore(ttl, sess.cfg.Cache.CleanupInterval)
	engine := defaultExtractor(sess.traversalOptions())

	extractor := cache.NewCachedExtractor(engine, store, sess.traversal, sess.logger())
	extractor.SetTimeout(sess.cfg.Traversal.Timeout)

	return mcp.ServerDeps{
		Logger:    sess.logger(),
		Metrics:   sess.red,
		Tracer:    sess.providers.Tracer,
		Extractor: extractor,
	}
}
