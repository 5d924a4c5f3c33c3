package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codelens-dev/codelens/internal/analyzer"
	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/render"
	"github.com/codelens-dev/codelens/internal/snippets"
)

var (
	formatFlag   string
	outputFlag   string
	extendedFlag bool
	workersFlag  int
	quietFlag    bool
	dbFlag       string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Analyze source files and export their structure",
	Long: `Analyze parses the selected files and directories, extracts modules,
classes, functions, and imports, builds the dependency graph, and renders
the result in the requested format.

Examples:
  # Analyze the current directory as a text report
  codelens analyze

  # Export JSON for a single directory
  codelens analyze src/ --format json

  # Mermaid diagrams with extended cross-file resolution
  codelens analyze src/ --format mermaid --extended

  # Persist snippets for later lookup
  codelens analyze src/ --db .codelens/snippets.db
`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, mermaid, tree")
	analyzeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write output to a file instead of stdout")
	analyzeCmd.Flags().BoolVarP(&extendedFlag, "extended", "e", false, "Run the extended cross-file resolution pass")
	analyzeCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Parse worker count (0 = number of CPUs)")
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	analyzeCmd.Flags().StringVar(&dbFlag, "db", "", "Snippet database path (overrides config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling analysis...")
		cancel()
	}()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if extendedFlag {
		cfg.Analysis.Extended = true
	}
	if workersFlag > 0 {
		cfg.Analysis.Workers = workersFlag
	}

	dbPath := cfg.Snippets.Database
	if dbFlag != "" {
		dbPath = dbFlag
	}
	db, err := snippets.Open(dbPath, cfg.Snippets.CacheCapacity)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := analyzer.New(cfg,
		analyzer.WithSnippetDatabase(db),
		analyzer.WithProgress(NewCLIProgressReporter(quietFlag)),
	)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	selection := args
	if len(selection) == 0 {
		selection = []string{"."}
	}

	result, err := engine.Analyze(ctx, selection)
	if err != nil {
		return err
	}

	output, err := renderResult(result, formatFlag)
	if err != nil {
		return err
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !quietFlag {
			fmt.Fprintf(os.Stderr, "Wrote %s output to %s\n", formatFlag, outputFlag)
		}
		return nil
	}

	fmt.Print(output)
	return nil
}

func renderResult(result *analyzer.Result, format string) (string, error) {
	switch format {
	case "text":
		return render.Text(result), nil
	case "json":
		data, err := render.JSON(result)
		if err != nil {
			return "", fmt.Errorf("failed to render JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "mermaid":
		return render.Mermaid(result), nil
	case "tree":
		paths := make([]string, 0, len(result.Files))
		for _, file := range result.Files {
			paths = append(paths, file.Path)
		}
		return render.DirectoryTree(paths), nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: text, json, mermaid, tree)", format)
	}
}
