package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/cql/versions"
)

var completeFlags struct {
	version string
	format  string
}

var completeCmd = &cobra.Command{
	Use:   "complete [prefix]",
	Short: "List completion items for a grammar version",
	Long: `List the keywords, functions, and data types of a grammar version that
start with a prefix (case-insensitive). Without a prefix every item is listed.

Examples:
  saturn complete Date
  saturn complete --version 1.5.3 --format json def`,
	Args: cobra.MaximumNArgs(1),
	RunE: listCompletions,
}

func init() {
	rootCmd.AddCommand(completeCmd)

	addVersionFlag(completeCmd, &completeFlags.version)
	completeCmd.Flags().StringVar(&completeFlags.format, "format", "text", "output format: text, json")
}

func listCompletions(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	p, err := printer(cmd, completeFlags.format)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	binding, err := versions.NewCache(registry).Binding(versionOrDefault(completeFlags.version, cfg))
	if err != nil {
		return err
	}

	var prefix string
	if len(args) == 1 {
		prefix = args[0]
	}
	items := binding.Completion().Complete(prefix)
	var suggestion string
	if len(items) == 0 {
		suggestion = binding.Completion().Suggest(prefix)
	}
	return p.Completions(binding.Version(), items, suggestion)
}
