package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codelens-dev/codelens/internal/lang"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their file extensions",
	Run: func(cmd *cobra.Command, args []string) {
		registry := lang.NewDefaultRegistry()
		for _, language := range registry.Languages() {
			fmt.Printf("%-12s %s\n", language, strings.Join(registry.Extensions(language), ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
