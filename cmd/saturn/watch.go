package main

import (
	"os"
	"sync"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/watch"
)

var watchFlags struct {
	analyzerFlags
	format string
}

var watchCmd = &cobra.Command{
	Use:   "watch <file|dir>",
	Short: "Re-lint CQL files as they change",
	Long: `Lint CQL files once, then keep watching and re-lint each file when it is
created or modified. Runs until interrupted.

Examples:
  # Watch a directory tree
  saturn watch measures/

  # Watch one file with the 1.4.0 grammar
  saturn watch --version 1.4.0 measure.cql`,
	Args: cobra.ExactArgs(1),
	RunE: watchFiles,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchFlags.analyzerFlags.register(watchCmd)
	watchCmd.Flags().StringVar(&watchFlags.format, "format", "text", "output format: text, json")
}

func watchFiles(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()
	path := args[0]

	p, err := printer(cmd, watchFlags.format)
	if err != nil {
		return err
	}
	binding, err := watchFlags.binding(cmd, cfg)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = findSources(path, cfg.Watch.Extensions); err != nil {
			return err
		}
	}

	var mu sync.Mutex
	lint := func(files ...string) error {
		reports := make([]cli.FileReport, 0, len(files))
		for _, f := range files {
			reports = append(reports, lintFile(cmd, binding, f, cfg.Analyzer.MaxSourceBytes))
		}
		mu.Lock()
		defer mu.Unlock()
		return p.Lint(reports)
	}
	if len(files) > 0 {
		if err := lint(files...); err != nil {
			return err
		}
	}

	fw, err := watch.NewFileWatcher(watch.FromConfig(cfg.Watch, path), cliLogger(cmd))
	if err != nil {
		return err
	}
	defer fw.Stop()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return fw.Watch(ctx, func(file string) error {
		return lint(file)
	})
}
