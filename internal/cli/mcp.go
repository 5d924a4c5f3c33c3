package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for structural code analysis",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants analyze your codebase structurally.

The MCP server:
- Runs analysis on demand via the codelens_analyze tool
- Serves stored snippets via the codelens_snippet tool
- Communicates via stdio (standard MCP transport)

Example:
  codelens mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Codelens MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project root: %s\n\n", rootDir)

	server, err := mcp.NewServer(cfg, rootDir)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
