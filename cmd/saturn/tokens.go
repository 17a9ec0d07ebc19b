package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/cql/versions"
)

var tokensFlags struct {
	version          string
	format           string
	datetimeCategory bool
	highlight        bool
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <file|->",
	Short: "Show the tokens of a CQL file",
	Long: `Tokenize a CQL file under a grammar version and print every token with
its position and category.

Examples:
  # Token table
  saturn tokens measure.cql

  # Tokenize stdin with the 1.4.0 grammar
  echo 'define X: 3 + 4' | saturn tokens --version 1.4.0 -

  # Print the source with syntax highlighting
  saturn tokens --highlight measure.cql`,
	Args: cobra.ExactArgs(1),
	RunE: showTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	addVersionFlag(tokensCmd, &tokensFlags.version)
	tokensCmd.Flags().StringVar(&tokensFlags.format, "format", "text", "output format: text, json")
	tokensCmd.Flags().BoolVar(&tokensFlags.datetimeCategory, "datetime-category", false, "report date/time literals as datetime instead of string")
	tokensCmd.Flags().BoolVar(&tokensFlags.highlight, "highlight", false, "print highlighted source instead of a token table")
}

func showTokens(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	p, err := printer(cmd, tokensFlags.format)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	opts := versions.OptionsFromConfig(cfg.Analyzer)
	if tokensFlags.datetimeCategory {
		opts = append(opts, versions.WithDateTimeCategory())
	}
	binding, err := versions.NewCache(registry, opts...).Binding(versionOrDefault(tokensFlags.version, cfg))
	if err != nil {
		return err
	}

	src, err := readSource(cmd, args[0], cfg.Analyzer.MaxSourceBytes)
	if err != nil {
		return err
	}

	tokens := binding.Tokenizer().Tokenize(src)
	if tokensFlags.highlight {
		return p.Highlight(src, tokens)
	}
	return p.Tokens(binding.Version(), src, tokens)
}

func versionOrDefault(version string, cfg *config.Config) string {
	if version == "" {
		return cfg.Analyzer.DefaultVersion
	}
	return version
}
