// Package generate samples rendered dialogue lines from a trained chain,
// either as a batch of standalone lines or as replacements for every line of
// an existing subtitle file.
package generate

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"subkatsu/internal/logging"
	"subkatsu/internal/markov"
	"subkatsu/internal/render"
	"subkatsu/internal/services"
	"subkatsu/internal/subtitles"
	"subkatsu/internal/textutil"
	"subkatsu/internal/tokenize"
)

// Options controls one generated line.
type Options struct {
	// StartToken seeds the first segment. Empty means the chain's start.
	StartToken string
	// MinLength is the minimum rune count; shorter lines get further
	// segments appended.
	MinLength int
}

// Generator produces lines from a frozen chain.
type Generator struct {
	chain     *markov.Chain
	tokenizer *tokenize.Tokenizer
	rng       markov.RandomSource
	logger    *slog.Logger
}

// New returns a generator. A nil rng uses an entropy-seeded source and a nil
// logger discards output.
func New(chain *markov.Chain, tokenizer *tokenize.Tokenizer, rng markov.RandomSource, logger *slog.Logger) *Generator {
	if rng == nil {
		rng = markov.NewRandom()
	}
	if tokenizer == nil {
		tokenizer = tokenize.New(nil)
	}
	return &Generator{
		chain:     chain,
		tokenizer: tokenizer,
		rng:       rng,
		logger:    logging.NewComponentLogger(logger, "generate"),
	}
}

// Single samples, balances, and renders one segment.
func (g *Generator) Single(start string) (render.Line, error) {
	if g.chain == nil || g.chain.IsEmpty() {
		return render.Line{}, services.Wrap(services.ErrModel, "generate", "sample", "model has no transitions", nil)
	}
	var tokens []string
	if start != "" {
		tokens = g.chain.GenerateFromToken(start, g.rng)
		if len(tokens) == 0 {
			g.logger.Error("token was not found in the model (start tokens only reliably work for order 1 models)",
				logging.String("token", start),
				logging.Int("order", g.chain.Order()),
				logging.String(logging.FieldEventType, "start_token_missing"),
				logging.String(logging.FieldErrorHint, "retrain with --order 1 or pick a token that opens a line"),
			)
			return render.Line{}, services.Wrap(services.ErrTokenNotFound, "generate", "start token", fmt.Sprintf("%q", start), nil)
		}
	} else {
		tokens = g.chain.Generate(g.rng)
	}
	return render.Build(tokens), nil
}

// Line generates one line, appending independent segments separated by a
// space until it reaches opts.MinLength runes. Only the first segment uses
// the start token.
func (g *Generator) Line(opts Options) (string, error) {
	first, err := g.Single(opts.StartToken)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(first.Text)
	length := utf8.RuneCountInString(first.Text)
	for opts.MinLength > 0 && length < opts.MinLength {
		next, err := g.Single("")
		if err != nil {
			return "", err
		}
		b.WriteByte(' ')
		b.WriteString(next.Text)
		length += 1 + utf8.RuneCountInString(next.Text)
	}
	return b.String(), nil
}

// Lines generates count independent lines.
func (g *Generator) Lines(count int, opts Options) ([]string, error) {
	lines := make([]string, 0, max(count, 0))
	for range count {
		line, err := g.Line(opts)
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// EntryStats counts what happened to each subtitle entry.
type EntryStats struct {
	Generated int
	Reused    int
	Blanked   int
}

// Entries replaces the text of every entry in place. Blank lines and
// positioned signs become empty. Entries whose sanitized text tokenizes to
// the same sequence share one generated line, including entries with no
// tokens at all.
func (g *Generator) Entries(entries []subtitles.Entry, opts Options) (EntryStats, error) {
	var stats EntryStats
	cache := make(map[string]string)
	for i := range entries {
		raw := entries[i].Text
		if strings.TrimSpace(raw) == "" || textutil.IsTypesetting(raw) {
			entries[i].Text = ""
			stats.Blanked++
			continue
		}
		tokens := g.tokenizer.Tokenize(textutil.Sanitize(raw))
		key := tokenize.Key(tokens)
		if cached, ok := cache[key]; ok {
			entries[i].Text = cached
			stats.Reused++
			continue
		}
		line, err := g.Line(opts)
		if err != nil {
			return stats, err
		}
		cache[key] = line
		entries[i].Text = line
		stats.Generated++
	}
	g.logger.Debug("subtitle entries generated",
		logging.Int("generated", stats.Generated),
		logging.Int("reused", stats.Reused),
		logging.Int("blanked", stats.Blanked),
	)
	return stats, nil
}
