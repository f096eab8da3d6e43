package tokenize

import (
	"regexp"
	"strings"
)

var (
	cjkPattern = regexp.MustCompile(`[\p{Hiragana}\p{Katakana}\p{Han}]`)

	// wordPattern captures an optional punctuation run, the word itself, one
	// trailing punctuation character, and an optional closing quote.
	wordPattern = regexp.MustCompile(`([^\s\p{L}\p{N}_]+)?([a-zA-Z'-]+)([^\s\p{L}\p{N}_]+?)?(")?`)
)

// Segmenter splits unsegmented CJK text into word-like units.
type Segmenter interface {
	Segment(text string) []string
}

// Tokenizer dispatches lines to the CJK segmenter or the word pattern.
type Tokenizer struct {
	segmenter Segmenter
}

// New returns a tokenizer using seg for CJK lines. A nil segmenter falls back
// to one token per rune.
func New(seg Segmenter) *Tokenizer {
	if seg == nil {
		seg = runeSegmenter{}
	}
	return &Tokenizer{segmenter: seg}
}

// IsCJK reports whether text contains any Hiragana, Katakana, or Han character.
func IsCJK(text string) bool {
	return cjkPattern.MatchString(text)
}

// Tokenize returns the token sequence for one sanitized line. Blank input
// yields an empty sequence.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if IsCJK(text) {
		return t.segment(text)
	}
	return splitWords(text)
}

func (t *Tokenizer) segment(text string) []string {
	parts := t.segmenter.Segment(text)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		tokens = append(tokens, trimmed)
	}
	return tokens
}

func splitWords(text string) []string {
	matches := wordPattern.FindAllStringSubmatch(text, -1)
	var tokens []string
	for _, groups := range matches {
		for _, group := range groups[1:] {
			if group != "" {
				tokens = append(tokens, group)
			}
		}
	}
	return tokens
}

// Key joins a token sequence into a map key that distinguishes sequences
// exactly, including order.
func Key(tokens []string) string {
	return strings.Join(tokens, "\x00")
}

type runeSegmenter struct{}

func (runeSegmenter) Segment(text string) []string {
	out := make([]string, 0, len(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}
