package screenshots

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"subkatsu/internal/logging"
	"subkatsu/internal/services"
	"subkatsu/internal/textutil"
)

// Shot describes one saved frame.
type Shot struct {
	Source      string `json:"source"`
	TimestampMS int64  `json:"timestamp_ms"`
	Path        string `json:"path"`
	Text        string `json:"text"`
}

// Capturer drives ffmpeg for subtitle extraction and frame rendering.
type Capturer struct {
	binary   string
	executor Executor
	logger   *slog.Logger
}

// NewCapturer returns a Capturer that runs binary (default "ffmpeg").
func NewCapturer(binary string, logger *slog.Logger) *Capturer {
	return newCapturer(binary, commandExecutor{}, logger)
}

func newCapturer(binary string, executor Executor, logger *slog.Logger) *Capturer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Capturer{
		binary:   binary,
		executor: executor,
		logger:   logging.NewComponentLogger(logger, "screenshots"),
	}
}

// ExtractSubtitles returns the first subtitle track of video as ASS.
func (c *Capturer) ExtractSubtitles(ctx context.Context, video string) ([]byte, error) {
	c.logger.Info("extracting subtitles from video", logging.String("video", video))
	out, err := c.executor.Run(ctx, c.binary, extractArgs(video))
	if err != nil {
		logging.ErrorWithContext(c.logger, "failed to extract subtitles with ffmpeg", "ffmpeg_extract_failed",
			logging.String("video", video),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "pass --subtitles-ref when the video has no embedded subtitle track"),
		)
		return nil, services.Wrap(services.ErrExternalTool, "screenshots", "extract subtitles", video, err)
	}
	if len(out) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "screenshots", "extract subtitles", video+" produced no subtitle data", nil)
	}
	return out, nil
}

// Capture renders every candidate into outputDir and calls emit for each
// saved frame. It stops at the first ffmpeg failure.
func (c *Capturer) Capture(ctx context.Context, video, subtitlesPath, outputDir, prefix string, candidates []Candidate, emit func(Shot) error) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrInput, "screenshots", "ensure output directory", outputDir, err)
	}
	prefix = textutil.SanitizeFileName(prefix)
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		output := filepath.Join(outputDir, FileName(prefix, candidate.At, candidate.Text))
		c.logger.Info("saving screenshot",
			logging.String("text", candidate.Text),
			logging.String("path", output),
		)
		if _, err := c.executor.Run(ctx, c.binary, frameArgs(video, subtitlesPath, candidate.At, output)); err != nil {
			logging.ErrorWithContext(c.logger, "failed to render screenshot with ffmpeg", "ffmpeg_frame_failed",
				logging.String("path", output),
				logging.Error(err),
			)
			return services.Wrap(services.ErrExternalTool, "screenshots", "render frame", output, err)
		}
		if emit != nil {
			if err := emit(Shot{
				Source:      video,
				TimestampMS: candidate.At.Milliseconds(),
				Path:        output,
				Text:        candidate.Text,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
