package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// FFmpegRequirement describes the ffmpeg binary used by the screenshots
// command. Training and generation never need it, so it is optional.
func FFmpegRequirement(command string) Requirement {
	return Requirement{
		Name:        "FFmpeg",
		Command:     command,
		Description: "Extracts embedded subtitles and renders screenshots",
		Optional:    true,
	}
}

// ResolveFFmpeg reports the ffmpeg binary the screenshots command will run.
//
// An explicit path (anything containing a separator) must exist and be
// executable. A bare name is resolved from PATH, falling back to plain
// "ffmpeg" when the configured name is empty.
func ResolveFFmpeg(configured string) Status {
	command := strings.TrimSpace(configured)
	if command == "" {
		command = "ffmpeg"
	}
	req := FFmpegRequirement(command)

	if !strings.ContainsRune(command, filepath.Separator) {
		status := CheckBinaries([]Requirement{req})[0]
		if status.Available {
			if resolved, err := exec.LookPath(command); err == nil {
				status.Command = resolved
			}
		}
		return status
	}

	status := Status{
		Name:        req.Name,
		Command:     command,
		Description: req.Description,
		Optional:    req.Optional,
	}
	if info, err := os.Stat(command); err == nil && isExecutable(info) {
		status.Available = true
		return status
	}
	status.Detail = fmt.Sprintf("binary %q is missing or not executable", command)
	return status
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
