package main

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cql/grammar"
)

// completionScripts maps each supported shell to its script generator.
var completionScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error {
		return root.GenBashCompletionV2(w, true)
	},
	"zsh": func(root *cobra.Command, w io.Writer) error {
		return root.GenZshCompletion(w)
	},
	"fish": func(root *cobra.Command, w io.Writer) error {
		return root.GenFishCompletion(w, true)
	},
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate a shell completion script for saturn commands and flags. The
--version flags complete to the registered grammar versions, including
those in --grammar-dir.

Bash:
  $ source <(saturn completion bash)

Zsh:
  $ saturn completion zsh > "${fpath[1]}/_saturn" && compinit

Fish:
  $ saturn completion fish > ~/.config/fish/completions/saturn.fish

PowerShell:
  PS> saturn completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: slices.Sorted(maps.Keys(completionScripts)),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	// Scripts are generated from the command tree alone; no config is read.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionScripts[args[0]](cmd.Root(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// addVersionFlag defines --version on cmd and completes it to grammar
// versions.
func addVersionFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVar(p, "version", "", "grammar version (default: analyzer.default_version)")
	_ = cmd.RegisterFlagCompletionFunc("version", completeGrammarVersions)
}

// completeGrammarVersions lists the built-in versions plus the packs in
// --grammar-dir. A pack directory that fails to load falls back to the
// built-in versions.
func completeGrammarVersions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	registry := grammar.Default()
	if grammarDir != "" {
		if packs, err := grammar.LoadPackDir(grammarDir); err == nil {
			if reg, err := grammar.NewRegistryWithPacks(packs); err == nil {
				registry = reg
			}
		}
	}

	var out []string
	for _, v := range registry.SupportedVersions() {
		if strings.HasPrefix(v, toComplete) {
			out = append(out, v)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
