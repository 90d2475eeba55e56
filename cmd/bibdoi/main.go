// Package main provides the bibdoi CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibdoi",
	Short: "Fill missing DOIs in BibTeX files via Crossref",
	Long: `bibdoi reads a BibTeX bibliography, finds entries missing required
fields (notably the DOI), fills the gaps from the Crossref API, and
rewrites the file with canonical field ordering and indentation.

All commands output JSON by default. Use --human for human-readable
output. Per-entry resolution failures never abort a run; the entry is
kept as-is and reported in the end-of-run summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for CROSSREF_MAILTO)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
