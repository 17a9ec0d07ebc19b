package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	cqlerrors "mercator-hq/saturn/pkg/cql/errors"
	"mercator-hq/saturn/pkg/cql/versions"
)

// lintContextLines is the number of source lines shown on each side of a
// problem.
const lintContextLines = 1

// analyzerFlags are the grammar and validation flags shared by lint and
// watch.
type analyzerFlags struct {
	version      string
	contextAware bool
	allUnclosed  bool
}

func (f *analyzerFlags) register(cmd *cobra.Command) {
	addVersionFlag(cmd, &f.version)
	flags := cmd.Flags()
	flags.BoolVar(&f.contextAware, "context-aware", false, "ignore brackets inside strings and comments")
	flags.BoolVar(&f.allUnclosed, "all-unclosed", false, "report every unclosed bracket, not only the first")
}

var lintFlags struct {
	analyzerFlags
	dir      string
	format   string
	progress bool
}

var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Check bracket structure of CQL files",
	Long: `Check that parentheses, square brackets, and braces in CQL files are
balanced and properly nested.

Each problem is reported with its line and column. The command exits with
status 1 when any file has problems. Use "-" to read from stdin.

Examples:
  # Lint files
  saturn lint measure.cql library.cql

  # Lint every .cql file under a directory
  saturn lint --dir measures/

  # Ignore brackets inside strings and comments
  saturn lint --context-aware measure.cql

  # JSON output for CI/CD
  saturn lint --dir measures/ --format json`,
	RunE: lintFiles,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of CQL files (searched recursively)")
	lintFlags.analyzerFlags.register(lintCmd)
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
	lintCmd.Flags().BoolVar(&lintFlags.progress, "progress", false, "show a progress bar on stderr")
}

func lintFiles(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	files := slices.Clone(args)
	if lintFlags.dir != "" {
		found, err := findSources(lintFlags.dir, cfg.Watch.Extensions)
		if err != nil {
			return fmt.Errorf("failed to list CQL files: %w", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no CQL files given (pass files or --dir)")
	}

	p, err := printer(cmd, lintFlags.format)
	if err != nil {
		return err
	}

	binding, err := lintFlags.binding(cmd, cfg)
	if err != nil {
		return err
	}

	var progress cli.ProgressReporter
	if lintFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr(), printerOptions()...)
		progress.Start(len(files))
	}

	reports := make([]cli.FileReport, 0, len(files))
	for _, file := range files {
		report := lintFile(cmd, binding, file, cfg.Analyzer.MaxSourceBytes)
		reports = append(reports, report)
		if progress != nil {
			progress.Advance(report)
		}
	}
	if progress != nil {
		progress.Finish()
	}

	if err := p.Lint(reports); err != nil {
		return err
	}
	return lintOutcome(reports)
}

// lintOutcome maps reports to the command result. Unreadable files mean
// the run is incomplete, which outranks problems in the files that were
// read.
func lintOutcome(reports []cli.FileReport) error {
	unreadable, invalid := 0, 0
	for _, r := range reports {
		switch {
		case r.Error != "":
			unreadable++
		case !r.Valid:
			invalid++
		}
	}
	if unreadable > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d file(s) could not be read", unreadable))
	}
	if invalid > 0 {
		return cli.ErrProblemsFound
	}
	return nil
}

// binding resolves the grammar version and analyzer options selected by
// the flags.
func (f *analyzerFlags) binding(cmd *cobra.Command, cfg *config.Config) (*versions.Binding, error) {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	opts := versions.OptionsFromConfig(cfg.Analyzer)
	if f.contextAware {
		opts = append(opts, versions.WithContextAwareValidation())
	}
	if f.allUnclosed {
		opts = append(opts, versions.WithReportAllUnclosed())
	}
	opts = append(opts, versions.WithLogger(cliLogger(cmd)))

	return versions.NewCache(registry, opts...).Binding(versionOrDefault(f.version, cfg))
}

func lintFile(cmd *cobra.Command, binding *versions.Binding, file string, limit int64) cli.FileReport {
	report := cli.FileReport{
		File:     file,
		Version:  binding.Version(),
		Problems: []cli.Problem{},
	}

	src, err := readSource(cmd, file, limit)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	res := binding.Validator().Validate(src)
	report.Valid = res.IsValid

	var problems *cqlerrors.ErrorList
	if !errors.As(res.ToError(), &problems) {
		return report
	}
	problems.WithSourceContext(src, lintContextLines).SortByPosition()
	for e := range problems.All(cqlerrors.ErrorTypeStructural) {
		report.Problems = append(report.Problems, cli.Problem{
			Line:    e.Position.Line,
			Column:  e.Position.Column,
			Offset:  e.Position.Offset,
			Message: e.Message,
			Context: e.Context,
		})
	}
	return report
}

// findSources walks dir and returns files with one of the extensions, in
// lexical order. Hidden directories are skipped.
func findSources(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = []string{config.DefaultWatchExtension}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(extensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
