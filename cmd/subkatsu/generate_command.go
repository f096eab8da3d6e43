package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"subkatsu/internal/config"
	"subkatsu/internal/fileutil"
	"subkatsu/internal/generate"
	"subkatsu/internal/logging"
	"subkatsu/internal/services"
	"subkatsu/internal/subtitles"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var count int
	var startToken string
	var minLength int
	var existingSubs string
	var output string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "generate [flags] <model>",
		Short: "Generate lines from a model",
		Long: `Generate dialogue from a trained model.

Without --existing-subs, prints --count independent lines. With
--existing-subs, every dialogue line of the given subtitle file is replaced
by a generated line, keeping timing and styling, and the result is written to
--output or stdout. Lines that tokenize identically receive the same text.

Examples:
  subkatsu generate anime -n 5
  subkatsu generate anime --start-token I --min-length 40
  subkatsu generate anime --existing-subs ep01.ass -o ep01.generated.ass`,
		Args: cobra.ExactArgs(1),
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

			runCtx := commandRun(cmd)
			chain, _, modelPath, err := ctx.loadModel(runCtx, cfg, args[0])
			if err != nil {
				return err
			}
			logger = logging.WithContext(runCtx, logger)
			logger.Debug("model loaded", logging.String("path", modelPath), logging.Int("order", chain.Order()))

			opts := generate.Options{
				StartToken: cfg.Generate.StartToken,
				MinLength:  cfg.Generate.MinLength,
			}
			if cmd.Flags().Changed("start-token") || cmd.Flags().Changed("start") {
				opts.StartToken = startToken
			}
			if cmd.Flags().Changed("min-length") {
				opts.MinLength = minLength
			}
			if !cmd.Flags().Changed("count") {
				count = cfg.Generate.Count
			}
			if count < 0 || opts.MinLength < 0 {
				return services.Wrap(services.ErrConfiguration, "cli", "generate", "--count and --min-length must not be negative", nil)
			}

			gen := generate.New(chain, tok, randomSource(cmd, seed), logger)
			if strings.TrimSpace(existingSubs) != "" {
				return generateSubtitleFile(cmd, cfg, gen, opts, existingSubs, output)
			}

			lines, err := gen.Lines(count, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				for _, line := range lines {
					if _, err := fmt.Fprintln(w, line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of lines to generate (default generate.count)")
	cmd.Flags().StringVar(&startToken, "start-token", "", "Token the first segment of each line starts with")
	cmd.Flags().StringVar(&startToken, "start", "", "Alias for --start-token")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "Append segments until a line has at least this many characters")
	cmd.Flags().StringVar(&existingSubs, "existing-subs", "", "Subtitle file whose dialogue is replaced")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write output to this file instead of stdout")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the random source for reproducible output")
	cmd.MarkFlagsMutuallyExclusive("count", "existing-subs")
	cmd.MarkFlagsMutuallyExclusive("start-token", "start")
	return cmd
}

func generateSubtitleFile(cmd *cobra.Command, cfg *config.Config, gen *generate.Generator, opts generate.Options, input, output string) error {
	path, err := config.ExpandPath(input)
	if err != nil {
		return services.Wrap(services.ErrInput, "cli", "resolve subtitles", input, err)
	}
	file, err := subtitles.Open(path, cfg.Train.FrameRate)
	if err != nil {
		return err
	}
	entries := file.Entries()
	stats, err := gen.Entries(entries, opts)
	if err != nil {
		return err
	}
	if err := file.SetEntries(entries); err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), output, file.Write); err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d generated, %d reused, %d blank lines to %s\n",
			stats.Generated, stats.Reused, stats.Blanked, output)
	}
	return nil
}

// writeOutput streams to stdout, or atomically to path when one is given.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return write(stdout)
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return services.Wrap(services.ErrInput, "cli", "resolve output", path, err)
	}
	if err := fileutil.WriteAtomic(expanded, 0o644, write); err != nil {
		return services.Wrap(services.ErrSerialization, "cli", "write output", expanded, err)
	}
	return nil
}
