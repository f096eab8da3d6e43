package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTrain(); err != nil {
		return err
	}
	if err := c.validateGenerate(); err != nil {
		return err
	}
	if err := c.validateTokenizer(); err != nil {
		return err
	}
	if err := c.validateScreenshots(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTrain() error {
	if c.Train.Order < 1 {
		return fmt.Errorf("train.order must be at least 1, got %d", c.Train.Order)
	}
	return nil
}

func (c *Config) validateGenerate() error {
	if c.Generate.Count < 0 {
		return errors.New("generate.count must be non-negative")
	}
	if c.Generate.MinLength < 0 {
		return errors.New("generate.min_length must be non-negative")
	}
	if c.Generate.InspectTopN < 0 {
		return errors.New("generate.inspect_top_n must be non-negative")
	}
	return nil
}

func (c *Config) validateTokenizer() error {
	switch c.Tokenizer.CJKSegmenter {
	case SegmenterKagome, SegmenterGSE:
		return nil
	default:
		return fmt.Errorf("tokenizer.cjk_segmenter: unsupported value %q (use %q or %q)", c.Tokenizer.CJKSegmenter, SegmenterKagome, SegmenterGSE)
	}
}

func (c *Config) validateScreenshots() error {
	if _, err := ParseResolution(c.Screenshots.Resolution); err != nil {
		return fmt.Errorf("screenshots.resolution: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ParseResolution parses a screenshot sampling interval. A bare integer is
// milliseconds; the suffixes ms, s, m, and h are accepted.
func ParseResolution(value string) (time.Duration, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.ParseUint(value, 10, 32); err == nil {
		return time.Duration(n) * time.Millisecond, nil
	}
	units := []struct {
		suffix string
		unit   time.Duration
	}{
		{"ms", time.Millisecond},
		{"s", time.Second},
		{"m", time.Minute},
		{"h", time.Hour},
	}
	for _, u := range units {
		if !strings.HasSuffix(value, u.suffix) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(value, u.suffix), 10, 32)
		if err != nil {
			continue
		}
		return time.Duration(n) * u.unit, nil
	}
	return 0, fmt.Errorf("failed to parse duration %q", value)
}
