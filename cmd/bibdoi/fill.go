package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlbertoCuadra/doi-scraper/internal/bibtex"
	"github.com/AlbertoCuadra/doi-scraper/internal/config"
	"github.com/AlbertoCuadra/doi-scraper/internal/crossref"
	"github.com/AlbertoCuadra/doi-scraper/internal/fill"
	"github.com/AlbertoCuadra/doi-scraper/internal/storage"
)

var (
	fillInput      string
	fillOutput     string
	fillPreIndent  int
	fillPostIndent int
	fillFormatOnly bool
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill missing fields from Crossref and rewrite the file",
	Long: `Fill missing required fields (notably the DOI) by querying Crossref,
then rewrite the bibliography with canonical field ordering and
indentation.

Entries whose required fields are all present are never sent to the
network. Resolution never overwrites a field that is already set, even
when the service disagrees. A lookup miss or network failure leaves the
entry exactly as it was; the run continues and the summary reports how
many entries were resolved versus left incomplete.

Examples:
  bibdoi fill
  bibdoi fill --input refs.bib --output refs.bib
  bibdoi fill --format-only --pre-indent 2 --post-indent 12`,
	Args: cobra.NoArgs,
	RunE: runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)
	defaults := config.Default()
	fillCmd.Flags().StringVarP(&fillInput, "input", "i", defaults.Input, "Input .bib file")
	fillCmd.Flags().StringVarP(&fillOutput, "output", "o", defaults.Output, "Output .bib file")
	fillCmd.Flags().IntVar(&fillPreIndent, "pre-indent", defaults.PreIndent, "Spaces before each field name")
	fillCmd.Flags().IntVar(&fillPostIndent, "post-indent", defaults.PostIndent, "Field name column width")
	fillCmd.Flags().BoolVar(&fillFormatOnly, "format-only", false, "Skip all external resolution (pure reformat)")
}

// FillSummary is the JSON output for the fill and format commands.
type FillSummary struct {
	Status        string     `json:"status"`
	Output        string     `json:"output"`
	FormatOnly    bool       `json:"format_only,omitempty"`
	Stats         fill.Stats `json:"stats"`
	ParseErrors   int        `json:"parse_errors,omitempty"`
	DuplicateKeys []string   `json:"duplicate_keys,omitempty"`
}

func runFill(cmd *cobra.Command, args []string) error {
	cfg := resolveFileConfig(cmd, fillInput, fillOutput, fillPreIndent, fillPostIndent)
	cfg.FormatOnly = fillFormatOnly
	return runPipeline(cfg)
}

// resolveFileConfig loads the global config and overrides it with any flag
// the user set explicitly.
func resolveFileConfig(cmd *cobra.Command, input, output string, preIndent, postIndent int) config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if cmd.Flags().Changed("input") {
		cfg.Input = input
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = output
	}
	if cmd.Flags().Changed("pre-indent") {
		cfg.PreIndent = preIndent
	}
	if cmd.Flags().Changed("post-indent") {
		cfg.PostIndent = postIndent
	}

	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid configuration: %v", err)
	}

	return cfg
}

// runPipeline runs parse -> resolve -> format -> write. The output file is
// written only after the full pass completes, so an interrupted run never
// leaves a partial file behind.
func runPipeline(cfg config.Config) error {
	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", cfg.Input, err)
	}

	opts := fill.Options{
		Format:     bibtex.Options{PreIndent: cfg.PreIndent, PostIndent: cfg.PostIndent},
		FormatOnly: cfg.FormatOnly,
	}

	if !cfg.FormatOnly {
		opts.Resolver = crossref.NewClient(crossref.WithMailto(cfg.Mailto))

		cache, err := storage.OpenCache()
		if err != nil {
			// The cache only saves duplicate lookups; run without it.
			fmt.Fprintf(os.Stderr, "warning: opening resolution cache: %v\n", err)
		} else {
			opts.Cache = cache
			defer cache.Close()
		}
	}

	formatted, report, err := fill.Process(context.Background(), data, opts)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := os.WriteFile(cfg.Output, []byte(formatted), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", cfg.Output, err)
	}

	summary := FillSummary{
		Status:        "ok",
		Output:        cfg.Output,
		FormatOnly:    cfg.FormatOnly,
		Stats:         report.Stats,
		ParseErrors:   len(report.ParseErrors),
		DuplicateKeys: report.DuplicateKeys,
	}

	if humanOutput {
		printFillHuman(summary)
		return nil
	}
	return outputJSON(summary)
}

func printFillHuman(s FillSummary) {
	outputHuman("Wrote %s\n", s.Output)
	outputHuman("  Entries:    %d\n", s.Stats.Total)
	if s.FormatOnly {
		outputHuman("  Mode:       format-only (no external calls)\n")
	} else {
		outputHuman("  Complete:   %d\n", s.Stats.Complete)
		outputHuman("  Resolved:   %d\n", s.Stats.Resolved)
		outputHuman("  Not found:  %d\n", s.Stats.NotFound)
		outputHuman("  Failed:     %d\n", s.Stats.Failed)
		outputHuman("  Skipped:    %d\n", s.Stats.Skipped)
	}
	if s.ParseErrors > 0 {
		outputHuman("  Malformed:  %d (skipped)\n", s.ParseErrors)
	}
}
