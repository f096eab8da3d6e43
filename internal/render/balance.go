package render

// bracketPairs lists every open/close pair the balancer repairs. The
// straight double quote is its own partner.
var bracketPairs = [...][2]rune{
	{'（', '）'},
	{'｛', '｝'},
	{'［', '］'},
	{'【', '】'},
	{'〖', '〗'},
	{'〔', '〕'},
	{'〘', '〙'},
	{'〈', '〉'},
	{'《', '》'},
	{'「', '」'},
	{'『', '』'},
	{'＜', '＞'},
	{'≪', '≫'},
	{'｢', '｣'},
	{'(', ')'},
	{'[', ']'},
	{'<', '>'},
	{'"', '"'},
}

var (
	closerFor = make(map[rune]rune, len(bracketPairs))
	openerFor = make(map[rune]rune, len(bracketPairs))
)

func init() {
	for _, pair := range bracketPairs {
		closerFor[pair[0]] = pair[1]
		openerFor[pair[1]] = pair[0]
	}
}

// Balance returns the symbols that must be prepended and appended to tokens
// so every bracket and quote is paired. Prefix symbols are ordered so they
// nest correctly around the suffix.
func Balance(tokens []string) (prefix, suffix []string) {
	var pendingOpen, pendingClose []rune

	for _, token := range tokens {
		for _, r := range token {
			closer, isOpener := closerFor[r]
			opener, isCloser := openerFor[r]
			switch {
			case isCloser && top(pendingClose) == r:
				pendingClose = pendingClose[:len(pendingClose)-1]
			case isOpener:
				pendingClose = append(pendingClose, closer)
			case isCloser:
				pendingOpen = append(pendingOpen, opener)
			}
		}
	}

	return reversed(pendingOpen), reversed(pendingClose)
}

func top(stack []rune) rune {
	if len(stack) == 0 {
		return 0
	}
	return stack[len(stack)-1]
}

func reversed(stack []rune) []string {
	if len(stack) == 0 {
		return nil
	}
	out := make([]string, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, string(stack[i]))
	}
	return out
}
