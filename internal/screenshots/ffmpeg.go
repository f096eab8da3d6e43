package screenshots

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Executor abstracts command execution for ffmpeg.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// commandExecutor executes commands using os/exec.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// extractArgs streams the first subtitle track of video as ASS on stdout.
func extractArgs(video string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", video,
		"-map", "0:s:0",
		"-f", "ass",
		"-",
	}
}

// frameArgs renders one frame at the given instant with subtitles burned in.
// -copyts keeps subtitle timing aligned with the seek position.
func frameArgs(video, subtitlesPath string, at time.Duration, output string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-copyts",
		"-i", video,
		"-map", "0:v",
		"-vf", "subtitles=" + quoteFilterArg(subtitlesPath),
		"-vframes", "1",
		output,
	}
}

// quoteFilterArg single-quotes a filtergraph argument. A literal quote ends
// the quoted run, is escaped, and a new run starts.
func quoteFilterArg(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
