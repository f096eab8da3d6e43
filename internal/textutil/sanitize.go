package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// hiddenOverridePattern matches a colour override whose alpha byte starts with
// F (transparent) and everything that follows it up to the next override
// group or the end of the line. Any other override group is matched by the
// second alternative and dropped on its own.
var hiddenOverridePattern = regexp.MustCompile(
	`\{[^}]*\\\d?c&H[Ff][0-9A-Fa-f]{5}(?:[0-9A-Fa-f]{2})?&[^}]*\}.*?(?:\{[^}]*\}|$)` +
		`|\{[^}]*\}`,
)

// lineBreakReplacer turns hard/soft breaks and hard spaces into plain spaces.
var lineBreakReplacer = strings.NewReplacer(
	`\N`, " ",
	`\n`, " ",
	`\h`, " ",
	"\r\n", " ",
	"\n", " ",
)

// Sanitize removes override groups and break markers from raw subtitle text.
// The result is NFC-normalized, stripped of control characters and trimmed.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := hiddenOverridePattern.ReplaceAllString(raw, "")
	cleaned = lineBreakReplacer.Replace(cleaned)
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if unicode.IsSpace(r) {
				return ' '
			}
			return -1
		}
		return r
	}, cleaned)
	return strings.TrimSpace(norm.NFC.String(cleaned))
}

// IsTypesetting reports whether a subtitle line is a positioned sign rather
// than dialogue.
func IsTypesetting(raw string) bool {
	return strings.Contains(raw, `\pos`)
}

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
