package tokenize

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSegmenter struct {
	parts []string
	calls int
}

func (f *fakeSegmenter) Segment(string) []string {
	f.calls++
	return f.parts
}

func TestTokenizeEnglish(t *testing.T) {
	tok := New(nil)
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"blank", "   ", nil},
		{"words", "hello there friend", []string{"hello", "there", "friend"}},
		{"trailing punctuation", "Wait, what?", []string{"Wait", ",", "what", "?"}},
		{"quoted", `He said "stop!"`, []string{"He", "said", `"`, "stop", "!", `"`}},
		{"apostrophe", "don't go", []string{"don't", "go"}},
		{"leading ellipsis", "...and then", []string{"...", "and", "then"}},
		{"brackets", "(quietly) yes", []string{"(", "quietly", ")", "yes"}},
		{"digits only", "123 456", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.in))
		})
	}
}

func TestTokenizeWordsKeepPunctuationSeparate(t *testing.T) {
	tokens := New(nil).Tokenize(`"Really?!" she asked, (smiling).`)
	for _, token := range tokens {
		hasLetter := strings.IndexFunc(token, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		}) >= 0
		hasPunct := strings.ContainsAny(token, `"?!,().`)
		assert.False(t, hasLetter && hasPunct, "token %q mixes letters and punctuation", token)
	}
}

func TestTokenizeDispatchesCJK(t *testing.T) {
	seg := &fakeSegmenter{parts: []string{"今日", " ", "は ", "\t", "晴れ"}}
	tok := New(seg)

	got := tok.Tokenize("今日は 晴れ")

	require.Equal(t, 1, seg.calls)
	assert.Equal(t, []string{"今日", "は", "晴れ"}, got)
}

func TestTokenizeMixedScriptGoesToSegmenter(t *testing.T) {
	seg := &fakeSegmenter{parts: []string{"OK", "です"}}
	got := New(seg).Tokenize("OKです")
	require.Equal(t, 1, seg.calls)
	assert.Equal(t, []string{"OK", "です"}, got)
}

func TestTokenizeEnglishSkipsSegmenter(t *testing.T) {
	seg := &fakeSegmenter{}
	New(seg).Tokenize("plain words")
	assert.Zero(t, seg.calls)
}

func TestIsCJK(t *testing.T) {
	assert.True(t, IsCJK("ひらがな"))
	assert.True(t, IsCJK("カタカナ"))
	assert.True(t, IsCJK("漢字"))
	assert.False(t, IsCJK("latin only"))
	assert.False(t, IsCJK("한국어"))
}

func TestRuneSegmenterFallback(t *testing.T) {
	assert.Equal(t, []string{"あ", "い"}, New(nil).Tokenize("あい"))
}

func TestKeyDistinguishesOrder(t *testing.T) {
	assert.NotEqual(t, Key([]string{"a", "b"}), Key([]string{"b", "a"}))
	assert.NotEqual(t, Key([]string{"ab"}), Key([]string{"a", "b"}))
	assert.Equal(t, Key([]string{"a", "b"}), Key([]string{"a", "b"}))
}

func TestNewSegmenter(t *testing.T) {
	seg, err := NewSegmenter("", nil)
	require.NoError(t, err)
	assert.IsType(t, &Kagome{}, seg)

	seg, err = NewSegmenter("GSE", nil)
	require.NoError(t, err)
	assert.IsType(t, &GSE{}, seg)

	_, err = NewSegmenter("mecab", nil)
	assert.Error(t, err)
}

func TestKagomeSegment(t *testing.T) {
	if testing.Short() {
		t.Skip("dictionary load is slow")
	}
	seg, err := NewSegmenter(SegmenterKagome, nil)
	require.NoError(t, err)
	got := New(seg).Tokenize("すもももももももものうち")
	assert.Equal(t, []string{"すもも", "も", "もも", "も", "もも", "の", "うち"}, got)
}

func TestDictionaryFailureFallsBackAndWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	k := &Kagome{dict: dictionary{name: SegmenterKagome, logger: logger}}
	loadErr := errors.New("dictionary missing")
	require.ErrorIs(t, k.dict.load(func() error { return loadErr }), loadErr)

	tok := New(k)
	assert.Equal(t, []string{"日", "本"}, tok.Tokenize("日本"))
	assert.Equal(t, []string{"東", "京"}, tok.Tokenize("東京"))

	assert.Equal(t, 1, strings.Count(buf.String(), "cjk dictionary unavailable"))
	assert.Contains(t, buf.String(), "segmenter=kagome")
	assert.Contains(t, buf.String(), "event_type=tokenizer_dictionary_failed")
}
