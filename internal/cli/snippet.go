package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/snippets"
)

var (
	snippetDBFlag string
	searchFlag    string
	statsFlag     bool
)

// snippetCmd represents the snippet command
var snippetCmd = &cobra.Command{
	Use:   "snippet [qualified-name]",
	Short: "Look up stored snippets by qualified name",
	Long: `Snippet reads the snippet database written by a previous analyze run.
Snippets store locations, not text: the source is read back from disk, so
the output always reflects the current file contents.

Examples:
  # Print the source of one entity
  codelens snippet app.Greeter.greet --db .codelens/snippets.db

  # Find qualified names containing a term
  codelens snippet --search greet --db .codelens/snippets.db

  # Database summary
  codelens snippet --stats --db .codelens/snippets.db
`,
	RunE: runSnippet,
}

func init() {
	rootCmd.AddCommand(snippetCmd)
	snippetCmd.Flags().StringVar(&snippetDBFlag, "db", "", "Snippet database path (overrides config)")
	snippetCmd.Flags().StringVar(&searchFlag, "search", "", "List snippets whose qualified name contains the term")
	snippetCmd.Flags().BoolVar(&statsFlag, "stats", false, "Print database statistics")
}

func runSnippet(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPath := cfg.Snippets.Database
	if snippetDBFlag != "" {
		dbPath = snippetDBFlag
	}
	if dbPath == ":memory:" {
		return fmt.Errorf("snippet lookups need a persistent database; run analyze with --db first")
	}

	db, err := snippets.Open(dbPath, cfg.Snippets.CacheCapacity)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case statsFlag:
		return printStats(db)
	case searchFlag != "":
		return printSearch(db, searchFlag)
	case len(args) == 1:
		return printSnippet(db, args[0])
	default:
		return fmt.Errorf("provide a qualified name, --search, or --stats")
	}
}

func printSnippet(db *snippets.Database, qualifiedName string) error {
	rec, text, err := db.Get(qualifiedName)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s, lines %d-%d, %s)\n", rec.QualifiedName, rec.Kind, rec.StartLine, rec.EndLine, rec.FilePath)
	fmt.Println(text)
	return nil
}

func printSearch(db *snippets.Database, term string) error {
	records, err := db.Search(term)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No snippets match %q\n", term)
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %s  %s:%d-%d\n", rec.QualifiedName, rec.Kind, rec.FilePath, rec.StartLine, rec.EndLine)
	}
	return nil
}

func printStats(db *snippets.Database) error {
	stats, err := db.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Snippets: %d across %d files\n", stats.Total, stats.Files)
	for _, kind := range []string{"module", "class", "function", "method"} {
		if count, ok := stats.ByKind[kind]; ok {
			fmt.Printf("  %s: %d\n", kind, count)
		}
	}
	return nil
}
