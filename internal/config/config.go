package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"subkatsu/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir        string `toml:"log_dir"`
	ModelDir      string `toml:"model_dir"`
	ScreenshotDir string `toml:"screenshot_dir"`
}

// Train contains configuration for building models from subtitle files.
type Train struct {
	// Order is the number of preceding tokens used as context.
	Order      int      `toml:"order"`
	Recursive  bool     `toml:"recursive"`
	Extensions []string `toml:"extensions"`
	// FrameRate is handed to the subtitle parser for frame based formats.
	FrameRate float64 `toml:"frame_rate"`
	// DedupConsecutive skips lines whose tokens match the previous entry of the same file.
	DedupConsecutive bool `toml:"dedup_consecutive"`
	// SkipAdvertisements drops release-group and site credit cues.
	SkipAdvertisements bool `toml:"skip_advertisements"`
}

// Generate contains defaults for the generate command.
type Generate struct {
	Count       int    `toml:"count"`
	MinLength   int    `toml:"min_length"`
	StartToken  string `toml:"start_token"`
	InspectTopN int    `toml:"inspect_top_n"`
}

// Tokenizer contains configuration for line tokenization.
type Tokenizer struct {
	CJKSegmenter string `toml:"cjk_segmenter"`
}

// Screenshots contains configuration for ffmpeg screenshot generation.
type Screenshots struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	Resolution   string `toml:"resolution"`
	Prefix       string `toml:"prefix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File enables a copy of the log under paths.log_dir.
	File bool `toml:"file"`
}

// Config encapsulates all configuration values for subkatsu.
//
// Configuration sections by subsystem:
//   - Paths: log, model, and screenshot directories
//   - Train: model order, input discovery, duplicate suppression
//   - Generate: line count, minimum length, start token
//   - Tokenizer: CJK segmenter selection
//   - Screenshots: ffmpeg binary and sampling resolution
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Train       Train       `toml:"train"`
	Generate    Generate    `toml:"generate"`
	Tokenizer   Tokenizer   `toml:"tokenizer"`
	Screenshots Screenshots `toml:"screenshots"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPathSetting)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPathSetting)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subkatsu.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories commands write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ModelDir}
	if c.Logging.File {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ModelPath resolves a model argument. Bare file names are placed under
// paths.model_dir and get ModelExtension when they have none; anything
// containing a path separator is expanded as given.
func (c *Config) ModelPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("model path is empty")
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasPrefix(name, "~") || strings.HasPrefix(name, ".") {
		return expandPath(name)
	}
	if filepath.Ext(name) == "" {
		name += ModelExtension
	}
	return filepath.Join(c.Paths.ModelDir, name), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
