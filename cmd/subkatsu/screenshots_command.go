package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subkatsu/internal/config"
	"subkatsu/internal/deps"
	"subkatsu/internal/generate"
	"subkatsu/internal/logging"
	"subkatsu/internal/screenshots"
	"subkatsu/internal/services"
	"subkatsu/internal/subtitles"
)

const defaultScreenshotCount = 10

type screenshotFlags struct {
	video        string
	subtitlesRef string
	subtitlesOut string
	outputDir    string
	prefix       string
	count        int
	all          bool
	resolution   string
	minLength    int
	seed         uint64
}

func newScreenshotsCommand(ctx *commandContext) *cobra.Command {
	var flags screenshotFlags

	cmd := &cobra.Command{
		Use:   "screenshots [flags] <model>",
		Short: "Render video frames with generated subtitles burned in",
		Long: `Regenerate a video's subtitles from a model and save frames with the
generated lines burned in.

Reference subtitles come from --subtitles-ref or, when omitted, from the
first subtitle track embedded in --video. At most one entry per --resolution
window is kept, then --count entries are sampled unless --all is given.
Each saved frame is reported as a JSON line on stdout.

Examples:
  subkatsu screenshots anime --video ep01.mkv -n 5
  subkatsu screenshots anime --video ep01.mkv --subtitles-ref ep01.ass --all --resolution 30s`,
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

			ffmpeg := deps.ResolveFFmpeg(cfg.Screenshots.FFmpegBinary)
			if !ffmpeg.Available {
				return services.Wrap(services.ErrExternalTool, "cli", "screenshots", ffmpeg.Detail, nil)
			}

			video, err := config.ExpandPath(strings.TrimSpace(flags.video))
			if err != nil || video == "" {
				return services.Wrap(services.ErrInput, "cli", "screenshots", "--video is required", err)
			}
			resolutionValue := cfg.Screenshots.Resolution
			if cmd.Flags().Changed("resolution") {
				resolutionValue = flags.resolution
			}
			resolution, err := config.ParseResolution(resolutionValue)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "screenshots", "--resolution", err)
			}
			count := flags.count
			if flags.all {
				count = 0
			} else if count < 1 {
				return services.Wrap(services.ErrConfiguration, "cli", "screenshots", "--count must be at least 1", nil)
			}
			outputDir := cfg.Paths.ScreenshotDir
			if strings.TrimSpace(flags.outputDir) != "" {
				if outputDir, err = config.ExpandPath(flags.outputDir); err != nil {
					return services.Wrap(services.ErrInput, "cli", "screenshots", "--output-dir", err)
				}
			}
			prefix := cfg.Screenshots.Prefix
			if cmd.Flags().Changed("prefix") {
				prefix = flags.prefix
			}

			runCtx := commandRun(cmd)
			logger = logging.WithContext(runCtx, logger)
			chain, _, _, err := ctx.loadModel(runCtx, cfg, args[0])
			if err != nil {
				return err
			}
			capturer := screenshots.NewCapturer(ffmpeg.Command, logger)

			var file *subtitles.File
			if ref := strings.TrimSpace(flags.subtitlesRef); ref != "" {
				path, err := config.ExpandPath(ref)
				if err != nil {
					return services.Wrap(services.ErrInput, "cli", "resolve subtitles", ref, err)
				}
				if file, err = subtitles.Open(path, cfg.Train.FrameRate); err != nil {
					return err
				}
			} else {
				data, err := capturer.ExtractSubtitles(runCtx, video)
				if err != nil {
					return err
				}
				if file, err = subtitles.Parse(bytes.NewReader(data), subtitles.FormatASS, cfg.Train.FrameRate); err != nil {
					return err
				}
			}

			rng := randomSource(cmd, flags.seed)
			entries := file.Entries()
			gen := generate.New(chain, tok, rng, logger)
			if _, err := gen.Entries(entries, generate.Options{MinLength: flags.minLength}); err != nil {
				return err
			}
			if err := file.SetEntries(entries); err != nil {
				return err
			}

			subsPath, cleanup, err := writeGeneratedSubtitles(file, flags.subtitlesOut)
			if err != nil {
				return err
			}
			defer cleanup()

			candidates := screenshots.Select(entries, resolution, count, rng)
			logger.Info("rendering screenshots",
				logging.Int("candidates", len(candidates)),
				logging.String("subtitles", subsPath),
				logging.String("output_dir", outputDir),
			)
			out := cmd.OutOrStdout()
			return capturer.Capture(runCtx, video, subsPath, outputDir, prefix, candidates, func(shot screenshots.Shot) error {
				return writeJSONLine(out, shot)
			})
		},
	}

	cmd.Flags().StringVar(&flags.video, "video", "", "Video file to capture frames from")
	cmd.Flags().StringVar(&flags.subtitlesRef, "subtitles-ref", "", "Reference subtitle file (default: first embedded track)")
	cmd.Flags().StringVar(&flags.subtitlesOut, "subtitles-out", "", "Keep the generated subtitles at this path")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Directory for screenshots (default paths.screenshot_dir)")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "File name prefix for screenshots (default screenshots.prefix)")
	cmd.Flags().IntVarP(&flags.count, "count", "n", defaultScreenshotCount, "Number of screenshots to sample")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Capture every entry that survives resolution filtering")
	cmd.Flags().StringVar(&flags.resolution, "resolution", "", "Keep at most one entry per window, e.g. 500, 2s, 1m (default screenshots.resolution)")
	cmd.Flags().IntVar(&flags.minLength, "min-length", 0, "Minimum characters per generated line")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed the random source for reproducible output")
	_ = cmd.MarkFlagRequired("video")
	cmd.MarkFlagsMutuallyExclusive("count", "all")
	return cmd
}

// writeGeneratedSubtitles saves file to out, or to a temp file removed by the
// returned cleanup. ffmpeg picks the subtitle decoder from the extension.
func writeGeneratedSubtitles(file *subtitles.File, out string) (string, func(), error) {
	noop := func() {}
	if out = strings.TrimSpace(out); out != "" {
		path, err := config.ExpandPath(out)
		if err != nil {
			return "", noop, services.Wrap(services.ErrInput, "cli", "resolve subtitles output", out, err)
		}
		if err := writeOutput(nil, path, file.Write); err != nil {
			return "", noop, err
		}
		return path, noop, nil
	}

	tmp, err := os.CreateTemp("", "subkatsu-*."+string(file.Format()))
	if err != nil {
		return "", noop, services.Wrap(services.ErrSerialization, "cli", "create temp subtitles", "", err)
	}
	path := tmp.Name()
	cleanup := func() { _ = os.Remove(path) }
	writeErr := file.Write(tmp)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		cleanup()
		if writeErr == nil {
			writeErr = closeErr
		}
		return "", noop, services.Wrap(services.ErrSerialization, "cli", "write temp subtitles", filepath.Base(path), writeErr)
	}
	return path, cleanup, nil
}
