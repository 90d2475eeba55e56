package main

import (
	"github.com/spf13/cobra"

	"github.com/AlbertoCuadra/doi-scraper/internal/config"
)

var (
	formatInput      string
	formatOutput     string
	formatPreIndent  int
	formatPostIndent int
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Reformat the bibliography without any external calls",
	Long: `Rewrite the bibliography with canonical field ordering and
indentation, never touching the network. Equivalent to fill
--format-only; deterministic and safe offline.

Examples:
  bibdoi format
  bibdoi format --input refs.bib --output refs.bib`,
	Args: cobra.NoArgs,
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
	defaults := config.Default()
	formatCmd.Flags().StringVarP(&formatInput, "input", "i", defaults.Input, "Input .bib file")
	formatCmd.Flags().StringVarP(&formatOutput, "output", "o", defaults.Output, "Output .bib file")
	formatCmd.Flags().IntVar(&formatPreIndent, "pre-indent", defaults.PreIndent, "Spaces before each field name")
	formatCmd.Flags().IntVar(&formatPostIndent, "post-indent", defaults.PostIndent, "Field name column width")
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg := resolveFileConfig(cmd, formatInput, formatOutput, formatPreIndent, formatPostIndent)
	cfg.FormatOnly = true
	return runPipeline(cfg)
}
