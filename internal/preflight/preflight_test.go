package preflight

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"subkatsu/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected fail for nonexistent dir")
	}
	if result.Detail == "" {
		t.Fatal("expected detail message")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected fail for file path")
	}
}

func TestCheckModelFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "show.db")

	if result := CheckModelFile(path); result.Passed {
		t.Fatal("expected missing model to fail")
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckModelFile(path); !result.Passed {
		t.Fatalf("expected model to pass, got %s", result.Detail)
	}
	if result := CheckModelFile(dir); result.Passed {
		t.Fatal("expected directory to fail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ModelDir = t.TempDir()
	cfg.Paths.ScreenshotDir = t.TempDir()

	results := RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("expected %s to pass, got %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_IncludesLogDirWhenFileLogging(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ModelDir = t.TempDir()
	cfg.Paths.ScreenshotDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "missing")
	cfg.Logging.File = true

	results := RunAll(&cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[2].Passed {
		t.Fatal("expected missing log dir to fail")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	t.Setenv("PATH", "")
	cfg := config.Default()
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 1 || statuses[0].Name != "FFmpeg" {
		t.Fatalf("unexpected statuses %#v", statuses)
	}
	if statuses[0].Available {
		t.Fatal("expected ffmpeg to be unavailable with empty PATH")
	}
}

func TestScanModels(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.db")
	newer := filepath.Join(dir, "newer.db")
	for _, p := range []string{older, newer, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	models, err := ScanModels(dir)
	if err != nil {
		t.Fatalf("ScanModels returned error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].Name != "newer" || models[1].Name != "older" {
		t.Fatalf("unexpected order: %+v", models)
	}

	missing, err := ScanModels(filepath.Join(dir, "absent"))
	if err != nil || missing != nil {
		t.Fatalf("expected no models for missing dir, got %v %v", missing, err)
	}
}
