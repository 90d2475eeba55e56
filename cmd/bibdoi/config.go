package main

import (
	"github.com/spf13/cobra"

	"github.com/AlbertoCuadra/doi-scraper/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration a run would use: built-in defaults overlaid
with the global config file (` + "~/.config/bibdoi/config.yml" + `).`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigSummary is the JSON output for the config command.
type ConfigSummary struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	PreIndent  int    `json:"pre_indent"`
	PostIndent int    `json:"post_indent"`
	Mailto     string `json:"mailto,omitempty"`
	GlobalPath string `json:"global_config_path,omitempty"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	summary := ConfigSummary{
		Input:      cfg.Input,
		Output:     cfg.Output,
		PreIndent:  cfg.PreIndent,
		PostIndent: cfg.PostIndent,
		Mailto:     cfg.Mailto,
		GlobalPath: config.GlobalConfigPath(),
	}

	if humanOutput {
		outputHuman("input:       %s\n", summary.Input)
		outputHuman("output:      %s\n", summary.Output)
		outputHuman("pre-indent:  %d\n", summary.PreIndent)
		outputHuman("post-indent: %d\n", summary.PostIndent)
		if summary.Mailto != "" {
			outputHuman("mailto:      %s\n", summary.Mailto)
		}
		outputHuman("config file: %s\n", summary.GlobalPath)
		return nil
	}
	return outputJSON(summary)
}
