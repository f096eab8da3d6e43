package tokenize

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-ego/gse"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"subkatsu/internal/logging"
)

const (
	SegmenterKagome = "kagome"
	SegmenterGSE    = "gse"
)

// NewSegmenter returns the named CJK segmenter. Dictionaries load lazily on
// the first CJK line so English-only runs never pay for them. A dictionary
// that fails to load is reported once through logger and the segmenter falls
// back to one token per rune.
func NewSegmenter(name string, logger *slog.Logger) (Segmenter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SegmenterKagome:
		return &Kagome{dict: dictionary{name: SegmenterKagome, logger: logger}}, nil
	case SegmenterGSE:
		return &GSE{dict: dictionary{name: SegmenterGSE, logger: logger}}, nil
	default:
		return nil, fmt.Errorf("unknown cjk segmenter %q", name)
	}
}

// dictionary guards a one-time dictionary load.
type dictionary struct {
	name   string
	logger *slog.Logger
	once   sync.Once
	err    error
}

func (d *dictionary) load(open func() error) error {
	d.once.Do(func() {
		d.err = open()
		if d.err != nil {
			logging.WarnWithContext(d.logger, "cjk dictionary unavailable", "tokenizer_dictionary_failed",
				logging.String("segmenter", d.name),
				logging.Error(d.err),
				logging.String(logging.FieldErrorHint, "set tokenizer.cjk_segmenter to the other segmenter"),
				logging.String(logging.FieldImpact, "CJK lines are split into one token per character"),
			)
		}
	})
	return d.err
}

// Kagome segments Japanese text with the IPA dictionary.
type Kagome struct {
	dict dictionary
	tok  *tokenizer.Tokenizer
}

func (k *Kagome) Segment(text string) []string {
	err := k.dict.load(func() (err error) {
		k.tok, err = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		return err
	})
	if err != nil {
		return runeSegmenter{}.Segment(text)
	}
	return k.tok.Wakati(text)
}

// GSE segments text with the gse default dictionary.
type GSE struct {
	dict dictionary
	seg  gse.Segmenter
}

func (g *GSE) Segment(text string) []string {
	if err := g.dict.load(func() error { return g.seg.LoadDict() }); err != nil {
		return runeSegmenter{}.Segment(text)
	}
	return g.seg.Cut(text, true)
}
