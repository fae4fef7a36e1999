package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/corpus/internal/adapters/driving/mcp"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can
search the corpus.

By default the server communicates over stdio using JSON-RPC. Use
--port to serve streamable HTTP instead.

Examples:
  # Stdio mode (for assistant integration)
  corpus serve

  # HTTP mode (for MCP Inspector, remote access)
  corpus serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Retriever: retrieverService,
		Documents: documentStore,
	})
	if err != nil {
		return err
	}

	if servePort > 0 {
		addr := fmt.Sprintf(":%d", servePort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
