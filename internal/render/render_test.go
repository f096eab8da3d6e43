package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		name       string
		tokens     []string
		wantPrefix []string
		wantSuffix []string
	}{
		{"empty", nil, nil, nil},
		{"balanced", []string{"(", "x", ")"}, nil, nil},
		{"closer then opener", []string{")", "x", "("}, []string{"("}, []string{")"}},
		{"missing closer", []string{"(", "x"}, nil, []string{")"}},
		{"missing opener", []string{"x", ")"}, []string{"("}, nil},
		{"nested missing closers", []string{"(", "[", "x"}, nil, []string{"]", ")"}},
		{"nested missing openers", []string{"x", "]", ")"}, []string{"(", "["}, nil},
		{"quoted", []string{`"`, "hi", `"`}, nil, nil},
		{"open quote", []string{`"`, "hi"}, nil, []string{`"`}},
		{"full width", []string{"「", "こんにちは"}, nil, []string{"」"}},
		{"chars inside tokens", []string{"(hi)", "】"}, []string{"【"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, suffix := Balance(tt.tokens)
			assert.Equal(t, tt.wantPrefix, prefix)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		prefix []string
		tokens []string
		suffix []string
		want   string
	}{
		{"empty", nil, nil, nil, ""},
		{"words", nil, []string{"I", "want", "to", "go", "home"}, nil, "I want to go home"},
		{"punctuation hugs", nil, []string{"Wait", ",", "what", "?"}, nil, "Wait, what?"},
		{"quoted speech", nil, []string{"He", "said", `"`, "stop", "!", `"`}, nil, `He said "stop!"`},
		{"leading quote", nil, []string{`"`, "run", `"`, "now"}, nil, `"run" now`},
		{"opener keeps word spacing", []string{"("}, []string{"quietly", ")"}, nil, "( quietly)"},
		{"cjk no spaces", nil, []string{"今日", "は", "晴れ"}, nil, "今日は晴れ"},
		{"trailing orphan quote trimmed", nil, []string{"yes", `"`}, []string{`"`}, "yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.prefix, tt.tokens, tt.suffix))
		})
	}
}

func TestRenderRoundTripsAlphanumericSentence(t *testing.T) {
	sentence := "the 3 quick foxes ran 40 miles"
	assert.Equal(t, sentence, Render(nil, strings.Fields(sentence), nil))
}

func TestBuild(t *testing.T) {
	line := Build([]string{"x", ")", "and", "("})

	assert.Equal(t, []string{"("}, line.Prefix)
	assert.Equal(t, []string{")"}, line.Suffix)
	assert.Equal(t, "( x) and()", line.Text)
}
