package subtitles

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a subtitle container.
type Format string

const (
	FormatSRT      Format = "srt"
	FormatASS      Format = "ass"
	FormatSSA      Format = "ssa"
	FormatWebVTT   Format = "vtt"
	FormatMicroDVD Format = "sub"
)

// DefaultFrameRate is assumed for frame-based formats.
const DefaultFrameRate = 24.0

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatSRT, FormatASS, FormatSSA, FormatWebVTT, FormatMicroDVD:
		return Format(ext), nil
	case "webvtt":
		return FormatWebVTT, nil
	}
	return "", fmt.Errorf("unsupported subtitle extension %q", filepath.Ext(path))
}

// Extensions lists the file extensions DetectFormat accepts.
func Extensions() []string {
	return []string{".srt", ".ass", ".ssa", ".vtt", ".webvtt", ".sub"}
}
