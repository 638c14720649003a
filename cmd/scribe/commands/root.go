// Package commands wires the scribe command tree. The root command owns
// the order-sensitive conversion grammar and parses its own argv; the
// subcommands use regular cobra flags.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/scribe/cmd/scribe/ui"
	"github.com/spherical-ai/scribe/internal/config"
	"github.com/spherical-ai/scribe/internal/convert"
	"github.com/spherical-ai/scribe/internal/extract"
	"github.com/spherical-ai/scribe/internal/observability"
	"github.com/spherical-ai/scribe/internal/progress"
	"github.com/spherical-ai/scribe/pkg/executor"
)

var rootCmd = &cobra.Command{
	Use:   "scribe [inputs] [outputs] ...",
	Short: "Convert documents, images and audio to text",
	Long: `scribe converts PDFs, images and audio files to plain text.

Inputs and outputs group into jobs: input files accumulate, output flags
declare where their text goes, and the next input after an output flag
starts a new job. A job with no outputs prints to stdout.

Output flags (per job):
  -x, --stdout              write extracted text to stdout
  -o, --text FILE           write all text into FILE
  -t, --page-text PATTERN   write one text file per page ({} = page token)
  -p, --positions PATTERN   write one JSON positions file per page

Global flags:
  -s, --silent              no summary, no progress bar
      --verbose             debug logging
      --no-color            disable colored output
      --config PATH         configuration file
  -h, --help                show this help
      --version             print the version

Examples:
  scribe report.pdf
  scribe report.pdf -o report.txt -t pages/page-{}.txt
  scribe scan.png -p scan.json talk.mp3 -o talk.txt`,
	// The grammar is order-sensitive, so flag parsing is manual.
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	RunE:               runRoot,
}

// Execute runs the root command, printing errors in the console style
// followed by the usage summary. Interrupts cancel the run context so
// in-flight recognizer processes are killed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		console := ui.Detect(false)
		console.Errorf("%v", err)
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}
	return err
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := ParseArgs(args)
	if err != nil {
		return err
	}
	if opts.Version {
		fmt.Fprintf(cmd.OutOrStdout(), "scribe %s\n", version)
		return nil
	}
	if opts.Help || len(opts.Jobs) == 0 {
		return cmd.Help()
	}

	cfg, console, logger, err := setup(opts.Config, opts.Verbose, opts.NoColor)
	if err != nil {
		return err
	}

	x := executor.New()
	service := extract.FromConfig(cfg, x, logger)
	converter := convert.New(service, cfg.Progress.AudioWeightScale, os.Stdout, logger)

	ctx := cmd.Context()
	plan, err := converter.Plan(ctx, opts.Jobs)
	if err != nil {
		return err
	}
	if !opts.Silent {
		console.Summary(plan.Describe())
	}

	var display progress.Display
	if !opts.Silent && ui.IsTerminal(os.Stderr) {
		display = progress.NewTermDisplay(os.Stderr, console.Color(), cfg.Progress.BarWidth)
	}

	ledger := openLedger(cfg, logger)
	ledger.start(ctx, plan)
	err = converter.Execute(ctx, plan, display)
	ledger.finish(ctx, err)
	return err
}

// setup loads configuration and builds the console and logger shared by
// every command.
func setup(cfgPath string, verbose, noColor bool) (*config.Config, *ui.Console, *observability.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:  level,
		Format: cfg.Log.Format,
	})
	return cfg, ui.Detect(noColor), logger, nil
}
