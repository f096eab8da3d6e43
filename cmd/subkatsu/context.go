package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subkatsu/internal/config"
	"subkatsu/internal/logging"
	"subkatsu/internal/markov"
	"subkatsu/internal/preflight"
	"subkatsu/internal/services"
	"subkatsu/internal/tokenize"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("setup logging: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// tokenizer builds the tokenizer selected by tokenizer.cjk_segmenter.
func (c *commandContext) tokenizer(cfg *config.Config, logger *slog.Logger) (*tokenize.Tokenizer, error) {
	seg, err := tokenize.NewSegmenter(cfg.Tokenizer.CJKSegmenter, logging.NewComponentLogger(logger, "tokenize"))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "tokenizer", "", err)
	}
	return tokenize.New(seg), nil
}

// loadModel resolves a model argument and opens it for generation.
func (c *commandContext) loadModel(ctx context.Context, cfg *config.Config, name string) (*markov.Chain, markov.Metadata, string, error) {
	path, err := cfg.ModelPath(name)
	if err != nil {
		return nil, markov.Metadata{}, "", services.Wrap(services.ErrConfiguration, "cli", "resolve model", name, err)
	}
	if check := preflight.CheckModelFile(path); !check.Passed {
		return nil, markov.Metadata{}, path, services.Wrap(services.ErrModel, "cli", "open model", check.Detail, nil)
	}
	chain, meta, err := markov.Load(ctx, path)
	if err != nil {
		return nil, markov.Metadata{}, path, err
	}
	return chain, meta, path, nil
}

// commandRun tags ctx with the command name and a fresh run id.
func commandRun(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithCommand(ctx, cmd.Name())
	return services.WithRunID(ctx, uuid.NewString())
}

// randomSource returns a seeded source when --seed was given.
func randomSource(cmd *cobra.Command, seed uint64) markov.RandomSource {
	if cmd.Flags().Changed("seed") {
		return markov.NewSeededRandom(seed)
	}
	return markov.NewRandom()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
