/*
Package cli provides the output formatting, error types, and process helpers
shared by the saturn commands.

Output Formatting:

Results are written as styled text tables or as JSON for scripts and CI:

	p := cli.NewPrinter(os.Stdout, cli.FormatText)
	if err := p.Lint(reports); err != nil {
		return err
	}

Text output is colored only when the writer is a terminal; WithNoColor turns
styling off entirely.

Progress Reporting:

Linting a large directory redraws one progress line on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(files))
	for _, f := range files {
		progress.Advance(lint(f))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
