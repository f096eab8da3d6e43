package render

import "strings"

const quote = `"`

// Line is one generated line with the symbols added to balance it.
type Line struct {
	Tokens []string
	Prefix []string
	Suffix []string
	Text   string
}

// Build balances tokens and renders the result.
func Build(tokens []string) Line {
	prefix, suffix := Balance(tokens)
	return Line{
		Tokens: tokens,
		Prefix: prefix,
		Suffix: suffix,
		Text:   Render(prefix, tokens, suffix),
	}
}

// Render joins prefix, tokens and suffix into display text.
func Render(prefix, tokens, suffix []string) string {
	all := make([]string, 0, len(prefix)+len(tokens)+len(suffix))
	all = append(all, prefix...)
	all = append(all, tokens...)
	all = append(all, suffix...)
	if len(all) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(all[0])
	needCloseQuote := all[0] == quote
	skipSpace := needCloseQuote

	for _, token := range all[1:] {
		if token == quote {
			if needCloseQuote {
				b.WriteString(quote)
				needCloseQuote = false
			} else {
				b.WriteString(" " + quote)
				skipSpace = true
				needCloseQuote = true
			}
			continue
		}
		if hasASCIIAlnum(token) && !skipSpace {
			b.WriteByte(' ')
		}
		skipSpace = false
		b.WriteString(token)
	}

	// An unmatched quote balanced at the very end renders as ` ""`.
	return strings.TrimSuffix(b.String(), ` ""`)
}

func hasASCIIAlnum(token string) bool {
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			return true
		}
	}
	return false
}
