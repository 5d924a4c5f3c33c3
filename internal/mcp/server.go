package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/snippets"
)

// Server manages the MCP server lifecycle. It exposes analysis and snippet
// lookup over stdio so LLM-powered assistants can inspect a codebase
// structurally.
type Server struct {
	cfg *config.Config
	db  *snippets.Database
	mcp *server.MCPServer
}

// NewServer creates an MCP server rooted at the given project directory.
func NewServer(cfg *config.Config, rootDir string) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	db, err := snippets.Open(cfg.Snippets.Database, cfg.Snippets.CacheCapacity)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		"codelens-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddAnalyzeTool(mcpServer, cfg, rootDir, db)
	AddSnippetTool(mcpServer, db)

	return &Server{
		cfg: cfg,
		db:  db,
		mcp: mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *Server) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
