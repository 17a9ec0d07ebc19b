package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/telemetry/health"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

var versionFlags struct {
	format string
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the Saturn build and the CQL grammar versions it can analyze,
including versions loaded from --grammar-dir.`,
	Args: cobra.NoArgs,
	RunE: showVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVar(&versionFlags.format, "format", "text", "output format: text, json")
}

// buildInfo describes this binary. The same record is served by the
// health endpoints.
func buildInfo() health.BuildInfo {
	return health.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
		GoVersion: runtime.Version(),
	}
}

func showVersion(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	format, err := cli.ParseFormat(versionFlags.format)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	info := buildInfo()
	info.Grammars = registry.SupportedVersions()
	if format == cli.FormatJSON {
		return cli.NewPrinter(cmd.OutOrStdout(), format).JSON(info)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Saturn %s\n", info.Version)
	fmt.Fprintf(w, "Git Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildTime)
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "Grammars: %s (default %s)\n", strings.Join(info.Grammars, ", "), cfg.Analyzer.DefaultVersion)
	return nil
}
