package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlbertoCuadra/doi-scraper/internal/bibtex"
	"github.com/AlbertoCuadra/doi-scraper/internal/config"
)

var checkInput string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report entries with missing required fields",
	Long: `List every entry whose required-field set is incomplete, without
resolving anything or writing any file. Useful for seeing what a fill
run would try to resolve.

Exits 0 whether or not gaps exist; check is a report, not a gate.

Examples:
  bibdoi check
  bibdoi check --input refs.bib --human`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkInput, "input", "i", config.Default().Input, "Input .bib file")
}

// CheckGap describes one incomplete entry.
type CheckGap struct {
	Key     string   `json:"key"`
	Type    string   `json:"type"`
	Missing []string `json:"missing"`
}

// CheckSummary is the JSON output for the check command.
type CheckSummary struct {
	Total       int        `json:"total"`
	Incomplete  int        `json:"incomplete"`
	Gaps        []CheckGap `json:"gaps"`
	ParseErrors int        `json:"parse_errors,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if cmd.Flags().Changed("input") {
		cfg.Input = checkInput
	}

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", cfg.Input, err)
	}

	entries, parseErrs := bibtex.Parse(string(data))
	for _, perr := range parseErrs {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed entry: %v\n", perr)
	}

	summary := CheckSummary{
		Total:       len(entries),
		Gaps:        []CheckGap{},
		ParseErrors: len(parseErrs),
	}
	for i := range entries {
		missing := bibtex.MissingFields(&entries[i])
		if len(missing) == 0 {
			continue
		}
		summary.Incomplete++
		summary.Gaps = append(summary.Gaps, CheckGap{
			Key:     entries[i].Key,
			Type:    entries[i].Type,
			Missing: missing,
		})
	}

	if humanOutput {
		printCheckHuman(summary)
		return nil
	}
	return outputJSON(summary)
}

func printCheckHuman(s CheckSummary) {
	if s.Incomplete == 0 {
		outputHuman("All %d entries are complete\n", s.Total)
		return
	}
	for _, gap := range s.Gaps {
		outputHuman("%s (@%s): missing %s\n", gap.Key, gap.Type, strings.Join(gap.Missing, ", "))
	}
	outputHuman("\n%d of %d entries incomplete\n", s.Incomplete, s.Total)
}
