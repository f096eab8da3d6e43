package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subkatsu/internal/logging"
	"subkatsu/internal/markov"
	"subkatsu/internal/services"
	"subkatsu/internal/train"
)

func newTrainCommand(ctx *commandContext) *cobra.Command {
	var output string
	var order int
	var recursive bool
	var noDedup bool
	var skipAds bool

	cmd := &cobra.Command{
		Use:   "train [flags] <input>...",
		Short: "Build a model from subtitle files",
		Long: `Build a Markov model from the dialogue in one or more subtitle files.

Inputs may be files or directories. Directories are scanned for files with a
known subtitle extension; use --recursive to descend into subdirectories.
A bare model name is stored under paths.model_dir.

Examples:
  subkatsu train -o anime ~/subs/show/*.ass
  subkatsu train -o anime --order 1 -r ~/subs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			tok, err := ctx.tokenizer(cfg, logger)
			if err != nil {
				return err
			}
			modelPath, err := cfg.ModelPath(output)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "resolve model", "--output", err)
			}

			opts := train.Options{
				Order:              cfg.Train.Order,
				Recursive:          cfg.Train.Recursive,
				Extensions:         cfg.Train.Extensions,
				FrameRate:          cfg.Train.FrameRate,
				DedupConsecutive:   cfg.Train.DedupConsecutive,
				SkipAdvertisements: cfg.Train.SkipAdvertisements,
			}
			if cmd.Flags().Changed("order") {
				if order < 1 {
					return services.Wrap(services.ErrConfiguration, "cli", "train", "--order must be at least 1", nil)
				}
				opts.Order = order
			}
			if cmd.Flags().Changed("recursive") {
				opts.Recursive = recursive
			}
			if noDedup {
				opts.DedupConsecutive = false
			}
			if cmd.Flags().Changed("skip-ads") {
				opts.SkipAdvertisements = skipAds
			}

			runCtx := commandRun(cmd)
			trainer := train.New(opts, tok, logger)
			chain, summary, err := trainer.Train(runCtx, args)
			if err != nil {
				if errors.Is(err, services.ErrNoInput) {
					printFailures(cmd.ErrOrStderr(), summary.Failures)
				}
				return err
			}

			meta := markov.Metadata{
				Order:     chain.Order(),
				RunID:     summary.RunID,
				CreatedAt: time.Now().UTC(),
				Sequences: chain.Stats().Sequences,
				Sources:   summary.Processed,
			}
			if err := markov.Save(runCtx, modelPath, chain, meta); err != nil {
				return err
			}
			logging.WithContext(runCtx, logger).Info("model saved",
				logging.String("path", modelPath),
				logging.Int("order", meta.Order),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				trainSummaryRows(summary, chain.Stats()),
				[]columnAlignment{alignLeft, alignRight},
			))
			printFailures(out, summary.Failures)
			fmt.Fprintf(out, "Saved model to %s\n", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Model file or name to write")
	cmd.Flags().IntVar(&order, "order", 0, "Number of preceding tokens used as context (default train.order)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories of input directories")
	cmd.Flags().BoolVar(&noDedup, "keep-duplicates", false, "Feed consecutive identical lines instead of skipping them")
	cmd.Flags().BoolVar(&skipAds, "skip-ads", false, "Drop credit and site advertisement cues (default train.skip_advertisements)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func trainSummaryRows(summary train.Summary, stats markov.Stats) [][]string {
	itoa := strconv.Itoa
	return [][]string{
		{"Files processed", itoa(summary.Processed)},
		{"Files skipped", itoa(summary.Skipped)},
		{"Entries read", itoa(summary.Entries)},
		{"Lines fed", itoa(summary.Fed)},
		{"Duplicates skipped", itoa(summary.Duplicates)},
		{"Empty lines", itoa(summary.Empty)},
		{"Advertisements", itoa(summary.Ads)},
		{"Order", itoa(stats.Order)},
		{"Contexts", itoa(stats.Contexts)},
		{"Transitions", itoa(stats.Transitions)},
	}
}

func printFailures(w io.Writer, failures []train.FileFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "Skipped %d file(s):\n", len(failures))
	for _, failure := range failures {
		fmt.Fprintf(w, "  %s: %s\n", failure.Path, strings.TrimSpace(failure.Err.Error()))
	}
}
