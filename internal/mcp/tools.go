package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codelens-dev/codelens/internal/analyzer"
	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/render"
	"github.com/codelens-dev/codelens/internal/snippets"
)

// AddAnalyzeTool registers the codelens_analyze tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddAnalyzeTool(s *server.MCPServer, cfg *config.Config, rootDir string, db *snippets.Database) {
	tool := mcp.NewTool(
		"codelens_analyze",
		mcp.WithDescription("Analyze source files and return their structure: modules, classes, functions, imports, and the dependency graph between them. Snippets of every entity are stored for later lookup via codelens_snippet."),
		mcp.WithArray("paths",
			mcp.Description("Files or directories to analyze, relative to the project root. Defaults to the project root.")),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default, structured), 'text' (report), 'mermaid' (diagrams), 'tree' (directory layout)")),
		mcp.WithBoolean("extended",
			mcp.Description("Run the extended cross-file resolution pass (qualified base classes and import targets)")),
	)

	s.AddTool(tool, createAnalyzeHandler(cfg, rootDir, db))
}

// createAnalyzeHandler creates the handler function for codelens_analyze.
func createAnalyzeHandler(cfg *config.Config, rootDir string, db *snippets.Database) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			argsMap = map[string]interface{}{}
		}

		format := "json"
		if f, ok := argsMap["format"].(string); ok && f != "" {
			format = f
		}

		runCfg := *cfg
		if extended, ok := argsMap["extended"].(bool); ok && extended {
			runCfg.Analysis.Extended = true
		}

		selection := []string{rootDir}
		if paths, ok := argsMap["paths"].([]interface{}); ok && len(paths) > 0 {
			selection = selection[:0]
			for _, p := range paths {
				if str, ok := p.(string); ok && str != "" {
					selection = append(selection, filepath.Join(rootDir, str))
				}
			}
		}

		engine, err := analyzer.New(&runCfg, analyzer.WithSnippetDatabase(db))
		if err != nil {
			return nil, fmt.Errorf("failed to create analyzer: %w", err)
		}

		result, err := engine.Analyze(ctx, selection)
		if err != nil {
			return nil, fmt.Errorf("analysis failed: %w", err)
		}

		switch format {
		case "json":
			data, err := render.JSON(result)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal response: %w", err)
			}
			return mcp.NewToolResultText(string(data)), nil
		case "text":
			return mcp.NewToolResultText(render.Text(result)), nil
		case "mermaid":
			return mcp.NewToolResultText(render.Mermaid(result)), nil
		case "tree":
			paths := make([]string, 0, len(result.Files))
			for _, file := range result.Files {
				paths = append(paths, file.Path)
			}
			return mcp.NewToolResultText(render.DirectoryTree(paths)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
		}
	}
}

// AddSnippetTool registers the codelens_snippet tool with an MCP server.
func AddSnippetTool(s *server.MCPServer, db *snippets.Database) {
	tool := mcp.NewTool(
		"codelens_snippet",
		mcp.WithDescription("Look up the source of an analyzed entity by qualified name (e.g. 'app.Greeter.greet'), or search stored qualified names. Run codelens_analyze first to populate the database."),
		mcp.WithString("qualified_name",
			mcp.Description("Exact qualified name of the entity to fetch")),
		mcp.WithString("search",
			mcp.Description("Substring to match against stored qualified names")),
	)

	s.AddTool(tool, createSnippetHandler(db))
}

// snippetResponse is the JSON payload for snippet lookups.
type snippetResponse struct {
	QualifiedName string `json:"qualified_name"`
	Kind          string `json:"kind"`
	FilePath      string `json:"file_path"`
	StartLine     int    `json:"start_line"`
	EndLine       int    `json:"end_line"`
	Source        string `json:"source,omitempty"`
}

// createSnippetHandler creates the handler function for codelens_snippet.
func createSnippetHandler(db *snippets.Database) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		if name, ok := argsMap["qualified_name"].(string); ok && name != "" {
			rec, source, err := db.Get(name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return marshalSnippets([]snippetResponse{{
				QualifiedName: rec.QualifiedName,
				Kind:          rec.Kind,
				FilePath:      rec.FilePath,
				StartLine:     rec.StartLine,
				EndLine:       rec.EndLine,
				Source:        source,
			}})
		}

		if term, ok := argsMap["search"].(string); ok && term != "" {
			records, err := db.Search(term)
			if err != nil {
				return nil, fmt.Errorf("search failed: %w", err)
			}
			responses := make([]snippetResponse, 0, len(records))
			for _, rec := range records {
				responses = append(responses, snippetResponse{
					QualifiedName: rec.QualifiedName,
					Kind:          rec.Kind,
					FilePath:      rec.FilePath,
					StartLine:     rec.StartLine,
					EndLine:       rec.EndLine,
				})
			}
			return marshalSnippets(responses)
		}

		return mcp.NewToolResultError("qualified_name or search parameter is required"), nil
	}
}

func marshalSnippets(responses []snippetResponse) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
