package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/config"
)

var versionsFlags struct {
	format string
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List supported grammar versions",
	Long: `List the built-in grammar versions and any loaded from grammar packs.
The configured default is marked.`,
	Args: cobra.NoArgs,
	RunE: listVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)

	versionsCmd.Flags().StringVar(&versionsFlags.format, "format", "text", "output format: text, json")
}

func listVersions(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	p, err := printer(cmd, versionsFlags.format)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	return p.Versions(registry.SupportedVersions(), cfg.Analyzer.DefaultVersion)
}
