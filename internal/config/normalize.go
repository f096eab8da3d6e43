package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTrain()
	c.normalizeTokenizer()
	c.normalizeScreenshots()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ModelDir) == "" {
		c.Paths.ModelDir = defaultModelDir
	}
	if c.Paths.ModelDir, err = expandPath(c.Paths.ModelDir); err != nil {
		return fmt.Errorf("paths.model_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScreenshotDir) == "" {
		c.Paths.ScreenshotDir = defaultScreenshotDir
	}
	if c.Paths.ScreenshotDir, err = expandPath(c.Paths.ScreenshotDir); err != nil {
		return fmt.Errorf("paths.screenshot_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTrain() {
	if len(c.Train.Extensions) == 0 {
		c.Train.Extensions = defaultExtensions()
	} else {
		exts := make([]string, 0, len(c.Train.Extensions))
		seen := make(map[string]struct{}, len(c.Train.Extensions))
		for _, ext := range c.Train.Extensions {
			normalized := strings.ToLower(strings.TrimSpace(ext))
			if normalized == "" {
				continue
			}
			if !strings.HasPrefix(normalized, ".") {
				normalized = "." + normalized
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			exts = append(exts, normalized)
		}
		if len(exts) == 0 {
			exts = defaultExtensions()
		}
		c.Train.Extensions = exts
	}
	if c.Train.FrameRate <= 0 {
		c.Train.FrameRate = defaultFrameRate
	}
}

func (c *Config) normalizeTokenizer() {
	c.Tokenizer.CJKSegmenter = strings.ToLower(strings.TrimSpace(c.Tokenizer.CJKSegmenter))
	if c.Tokenizer.CJKSegmenter == "" {
		c.Tokenizer.CJKSegmenter = defaultCJKSegmenter
	}
}

func (c *Config) normalizeScreenshots() {
	c.Screenshots.FFmpegBinary = strings.TrimSpace(c.Screenshots.FFmpegBinary)
	if c.Screenshots.FFmpegBinary == "" {
		c.Screenshots.FFmpegBinary = defaultFFmpegBinary
	}
	c.Screenshots.Resolution = strings.ToLower(strings.TrimSpace(c.Screenshots.Resolution))
	if c.Screenshots.Resolution == "" {
		c.Screenshots.Resolution = defaultResolution
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("SUBKATSU_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
