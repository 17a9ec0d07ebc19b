package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/telemetry/logging"
)

// defaultConfigFile is loaded when --config is not given and the file
// exists in the working directory.
const defaultConfigFile = "saturn.yaml"

var (
	// Global flags
	cfgFile    string
	verbose    bool
	grammarDir string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "saturn",
	Short: "Saturn - versioned CQL lexical analyzer and structural validator",
	Long: `Saturn analyzes Clinical Quality Language (CQL) source text.

It classifies source into tokens under a selectable grammar version, checks
that brackets are balanced, and offers version-aware completions. The same
analysis is available over HTTP for browser-based CQL editors.

Additional grammar versions can be loaded from YAML or TOML grammar packs
with --grammar-dir or analyzer.grammar_dir in the config file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrProblemsFound) {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return cli.ExitCode(err)
}

// reportError prints a command failure. Unknown grammar versions are shown
// as analyzer errors so the suggested version stands on its own line.
func reportError(w io.Writer, err error) {
	var unknown *grammar.UnknownVersionError
	if errors.As(err, &unknown) {
		fmt.Fprint(w, "Error: ", unknown.AsError().Error())
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ./saturn.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&grammarDir, "grammar-dir", "", "directory of grammar packs (overrides analyzer.grammar_dir)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// loadConfig loads the configuration into the process-wide store before
// any subcommand runs.
func loadConfig(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if err := config.ReloadConfig(path); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	if grammarDir != "" {
		info, err := os.Stat(grammarDir)
		if err != nil || !info.IsDir() {
			return cli.NewConfigError("--grammar-dir", fmt.Sprintf("%q is not a directory", grammarDir))
		}
		config.GetConfig().Analyzer.GrammarDir = grammarDir
	}
	return nil
}

// buildRegistry returns the built-in grammars plus any packs in the
// configured grammar directory.
func buildRegistry(cfg *config.Config) (*grammar.Registry, error) {
	if cfg.Analyzer.GrammarDir == "" {
		return grammar.Default(), nil
	}
	packs, err := grammar.LoadPackDir(cfg.Analyzer.GrammarDir)
	if err != nil {
		return nil, err
	}
	return grammar.NewRegistryWithPacks(packs)
}

// newLogger builds the logger described by the config, writing to w.
// --verbose forces debug level.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging)
	lc.Writer = w
	if verbose {
		lc.Level = "debug"
	}
	return logging.New(lc)
}

// cliLogger is the logger for one-shot commands: warnings only unless
// --verbose is set.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	cfg := config.MustGetConfig()
	lc := logging.FromConfig(cfg.Telemetry.Logging)
	lc.Writer = cmd.ErrOrStderr()
	lc.Format = "console"
	lc.Level = "warn"
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc)
	if err != nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger.Slog()
}

// printer returns an output printer for the command's stdout.
func printer(cmd *cobra.Command, format string) (*cli.Printer, error) {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return cli.NewPrinter(cmd.OutOrStdout(), f, printerOptions()...), nil
}

// printerOptions applies the global --no-color flag.
func printerOptions() []cli.PrinterOption {
	if noColor {
		return []cli.PrinterOption{cli.WithNoColor()}
	}
	return nil
}

// readSource reads a file, or stdin for "-", enforcing the size limit.
func readSource(cmd *cobra.Command, path string, limit int64) (string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%s is larger than %d bytes", path, limit)
	}
	return string(data), nil
}
