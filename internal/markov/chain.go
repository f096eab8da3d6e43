package markov

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Boundary marks both the start padding and the natural end of a sequence.
// Real tokens are never empty, so the empty string cannot collide.
const Boundary = ""

const contextSeparator = "\x00"

// DefaultOrder is the context length used when none is configured.
const DefaultOrder = 2

// Chain is an order-k Markov chain over string tokens.
type Chain struct {
	order     int
	states    map[string]*state
	sequences int
	frozen    bool
}

type state struct {
	context []string
	counts  map[string]int
	total   int
	sorted  []string
}

// Transition is one observed context to successor edge.
type Transition struct {
	Context []string
	Token   string
	Count   int
}

// Stats summarizes a chain's size.
type Stats struct {
	Order        int
	Sequences    int
	Contexts     int
	Transitions  int
	Observations int
}

// New returns an empty chain of the given order. Orders below one are
// clamped to one.
func New(order int) *Chain {
	if order < 1 {
		order = 1
	}
	return &Chain{order: order, states: make(map[string]*state)}
}

// Order returns the context length.
func (c *Chain) Order() int { return c.order }

// Frozen reports whether the chain rejects further feeds.
func (c *Chain) Frozen() bool { return c.frozen }

// Freeze makes the chain read-only.
func (c *Chain) Freeze() { c.frozen = true }

// IsEmpty reports whether nothing has been fed.
func (c *Chain) IsEmpty() bool { return len(c.states) == 0 }

// Feed registers one token sequence. Empty tokens are ignored and a sequence
// with no remaining tokens is a no-op. Feeding a frozen chain panics.
func (c *Chain) Feed(tokens []string) {
	if c.frozen {
		panic("markov: feed on frozen chain")
	}
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token != Boundary {
			filtered = append(filtered, token)
		}
	}
	if len(filtered) == 0 {
		return
	}

	padded := make([]string, 0, c.order+len(filtered)+1)
	for range c.order {
		padded = append(padded, Boundary)
	}
	padded = append(padded, filtered...)
	padded = append(padded, Boundary)

	for i := 0; i+c.order < len(padded); i++ {
		c.add(padded[i:i+c.order], padded[i+c.order], 1)
	}
	c.sequences++
}

func (c *Chain) add(context []string, token string, count int) {
	key := contextKey(context)
	st, ok := c.states[key]
	if !ok {
		st = &state{context: slices.Clone(context), counts: make(map[string]int)}
		c.states[key] = st
	}
	if _, seen := st.counts[token]; !seen {
		st.sorted = nil
	}
	st.counts[token] += count
	st.total += count
}

// Generate walks the chain from the start context until it draws the end
// marker and returns the emitted tokens. An empty chain yields nil.
func (c *Chain) Generate(rng RandomSource) []string {
	context := make([]string, c.order)
	return c.walk(context, nil, rng)
}

// GenerateFromToken walks from the context whose last token is start and
// whose earlier slots are boundaries. The result begins with start. If that
// context never occurred in training the result is empty. Only order-1 chains
// can reach arbitrary tokens this way; for higher orders the context exists
// only when start opened a trained line.
func (c *Chain) GenerateFromToken(start string, rng RandomSource) []string {
	if start == Boundary {
		return c.Generate(rng)
	}
	context := make([]string, c.order)
	context[c.order-1] = start
	if _, ok := c.states[contextKey(context)]; !ok {
		return nil
	}
	return c.walk(context, []string{start}, rng)
}

func (c *Chain) walk(context []string, out []string, rng RandomSource) []string {
	for {
		st, ok := c.states[contextKey(context)]
		if !ok {
			return out
		}
		next := st.draw(rng)
		if next == Boundary {
			return out
		}
		out = append(out, next)
		copy(context, context[1:])
		context[len(context)-1] = next
	}
}

// draw picks a successor with probability proportional to its count.
// Successors are visited in sorted order so a given source is reproducible.
func (s *state) draw(rng RandomSource) string {
	if s.sorted == nil {
		s.sorted = make([]string, 0, len(s.counts))
		for token := range s.counts {
			s.sorted = append(s.sorted, token)
		}
		slices.Sort(s.sorted)
	}
	pick := rng.IntN(s.total)
	for _, token := range s.sorted {
		pick -= s.counts[token]
		if pick < 0 {
			return token
		}
	}
	return s.sorted[len(s.sorted)-1]
}

// Successors returns the successor counts observed after context.
func (c *Chain) Successors(context []string) map[string]int {
	st, ok := c.states[contextKey(context)]
	if !ok {
		return nil
	}
	out := make(map[string]int, len(st.counts))
	for token, count := range st.counts {
		out[token] = count
	}
	return out
}

// Transitions lists every edge ordered by context then token.
func (c *Chain) Transitions() []Transition {
	keys := make([]string, 0, len(c.states))
	for key := range c.states {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var out []Transition
	for _, key := range keys {
		st := c.states[key]
		tokens := make([]string, 0, len(st.counts))
		for token := range st.counts {
			tokens = append(tokens, token)
		}
		slices.Sort(tokens)
		for _, token := range tokens {
			out = append(out, Transition{
				Context: slices.Clone(st.context),
				Token:   token,
				Count:   st.counts[token],
			})
		}
	}
	return out
}

// TopTransitions returns the n most frequent edges, ties broken by context
// then token. n <= 0 returns all of them.
func (c *Chain) TopTransitions(n int) []Transition {
	all := c.Transitions()
	slices.SortStableFunc(all, func(a, b Transition) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Stats reports the chain's size.
func (c *Chain) Stats() Stats {
	stats := Stats{Order: c.order, Sequences: c.sequences, Contexts: len(c.states)}
	for _, st := range c.states {
		stats.Transitions += len(st.counts)
		stats.Observations += st.total
	}
	return stats
}

// restore rebuilds a chain from persisted transitions.
func restore(order, sequences int, transitions []Transition) (*Chain, error) {
	if order < 1 {
		return nil, fmt.Errorf("invalid order %d", order)
	}
	chain := New(order)
	for _, tr := range transitions {
		if len(tr.Context) != order {
			return nil, fmt.Errorf("context %q has %d tokens, expected %d", FormatContext(tr.Context), len(tr.Context), order)
		}
		if tr.Count <= 0 {
			return nil, fmt.Errorf("context %q token %q has non-positive count %d", FormatContext(tr.Context), tr.Token, tr.Count)
		}
		chain.add(tr.Context, tr.Token, tr.Count)
	}
	chain.sequences = sequences
	chain.Freeze()
	return chain, nil
}

// FormatContext renders a context for humans, showing boundaries as ^.
func FormatContext(context []string) string {
	parts := make([]string, len(context))
	for i, token := range context {
		if token == Boundary {
			parts[i] = "^"
			continue
		}
		parts[i] = token
	}
	return strings.Join(parts, " ")
}

// FormatToken renders a successor for humans, showing the end marker as $.
func FormatToken(token string) string {
	if token == Boundary {
		return "$"
	}
	return token
}

func contextKey(context []string) string {
	return strings.Join(context, contextSeparator)
}
