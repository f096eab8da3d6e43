package train

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"subkatsu/internal/logging"
	"subkatsu/internal/markov"
	"subkatsu/internal/services"
	"subkatsu/internal/subtitles"
	"subkatsu/internal/textutil"
	"subkatsu/internal/tokenize"
)

// Options controls a training run.
type Options struct {
	Order              int
	Recursive          bool
	Extensions         []string
	FrameRate          float64
	DedupConsecutive   bool
	SkipAdvertisements bool
}

// FileFailure records one input that could not be used.
type FileFailure struct {
	Path string
	Err  error
}

// Summary reports what a training run consumed.
type Summary struct {
	RunID      string
	Processed  int
	Skipped    int
	Entries    int
	Fed        int
	Duplicates int
	Empty      int
	Ads        int
	Failures   []FileFailure
}

// FileStats counts how one file's entries were used.
type FileStats struct {
	Entries    int
	Fed        int
	Duplicates int
	Empty      int
	Ads        int
}

// Trainer feeds subtitle files into a chain.
type Trainer struct {
	opts      Options
	tokenizer *tokenize.Tokenizer
	logger    *slog.Logger
}

// New returns a trainer. A nil tokenizer splits CJK text per rune.
func New(opts Options, tokenizer *tokenize.Tokenizer, logger *slog.Logger) *Trainer {
	if opts.Order < 1 {
		opts.Order = markov.DefaultOrder
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = subtitles.DefaultFrameRate
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = subtitles.Extensions()
	}
	if tokenizer == nil {
		tokenizer = tokenize.New(nil)
	}
	return &Trainer{
		opts:      opts,
		tokenizer: tokenizer,
		logger:    logging.NewComponentLogger(logger, "train"),
	}
}

// Train builds a chain from inputs. It fails with services.ErrNoInput when
// no file could be processed, and stops early if ctx is cancelled.
func (t *Trainer) Train(ctx context.Context, inputs []string) (*markov.Chain, Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	if id, ok := services.RunIDFromContext(ctx); ok {
		summary.RunID = id
	} else {
		ctx = services.WithRunID(ctx, summary.RunID)
	}
	logger := logging.WithContext(ctx, t.logger)

	paths, err := Discover(inputs, t.opts.Recursive, t.opts.Extensions)
	if err != nil {
		return nil, summary, services.Wrap(services.ErrInput, "train", "discover inputs", "", err)
	}
	if len(paths) == 0 {
		return nil, summary, services.Wrap(services.ErrNoInput, "train", "discover inputs", "no subtitle files found", nil)
	}

	chain := markov.New(t.opts.Order)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}
		fileCtx := services.WithSource(ctx, path)
		fileLogger := logging.WithContext(fileCtx, t.logger)

		file, err := subtitles.Open(path, t.opts.FrameRate)
		if err != nil {
			summary.Skipped++
			summary.Failures = append(summary.Failures, FileFailure{Path: path, Err: err})
			logging.WarnWithContext(fileLogger, "skipping unreadable subtitle file", "train_file_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the file extension and that it parses in a subtitle editor"),
				logging.String(logging.FieldImpact, "file excluded from the model"),
			)
			continue
		}

		stats := t.FeedEntries(chain, file.Entries())
		summary.Processed++
		summary.Entries += stats.Entries
		summary.Fed += stats.Fed
		summary.Duplicates += stats.Duplicates
		summary.Empty += stats.Empty
		summary.Ads += stats.Ads
		fileLogger.Info("processed subtitle file",
			logging.Int("entries", stats.Entries),
			logging.Int("fed", stats.Fed),
			logging.Int("duplicates", stats.Duplicates),
		)
	}

	if summary.Processed == 0 {
		return nil, summary, services.Wrap(services.ErrNoInput, "train", "feed", "every input file failed", nil)
	}
	logger.Info("training complete",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("fed", summary.Fed),
	)
	return chain, summary, nil
}

// FeedEntries sanitizes, tokenizes, and feeds one file's entries. Duplicate
// suppression compares each entry only with the one before it in the same
// call, so separate files never suppress each other.
func (t *Trainer) FeedEntries(chain *markov.Chain, entries []subtitles.Entry) FileStats {
	var (
		stats   FileStats
		prevKey string
		hasPrev bool
	)
	for _, entry := range entries {
		stats.Entries++
		if t.opts.SkipAdvertisements && subtitles.IsAdvertisement(entry.Text) {
			stats.Ads++
			continue
		}
		tokens := t.tokenizer.Tokenize(textutil.Sanitize(entry.Text))
		key := tokenize.Key(tokens)
		duplicate := hasPrev && key == prevKey
		prevKey, hasPrev = key, true
		if len(tokens) == 0 {
			stats.Empty++
			continue
		}
		if t.opts.DedupConsecutive && duplicate {
			stats.Duplicates++
			continue
		}
		chain.Feed(tokens)
		stats.Fed++
	}
	return stats
}
