package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SRT renders lines as consecutive two second SubRip cues.
func SRT(lines ...string) string {
	var b strings.Builder
	for i, line := range lines {
		start := i * 2
		fmt.Fprintf(&b, "%d\n00:00:%02d,000 --> 00:00:%02d,500\n%s\n\n", i+1, start, start+1, line)
	}
	return b.String()
}

// WriteSRT writes lines as a SubRip file at path.
func WriteSRT(t testing.TB, path string, lines ...string) {
	t.Helper()
	WriteFile(t, path, SRT(lines...))
}
