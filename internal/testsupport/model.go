package testsupport

import (
	"context"
	"testing"
	"time"

	"subkatsu/internal/markov"
	"subkatsu/internal/tokenize"
)

// WriteModel trains a chain of the given order on lines and saves it to path.
func WriteModel(t testing.TB, path string, order int, lines ...string) *markov.Chain {
	t.Helper()

	tok := tokenize.New(nil)
	chain := markov.New(order)
	for _, line := range lines {
		chain.Feed(tok.Tokenize(line))
	}
	meta := markov.Metadata{
		Order:     order,
		RunID:     "test-run",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Sequences: len(lines),
		Sources:   1,
	}
	if err := markov.Save(context.Background(), path, chain, meta); err != nil {
		t.Fatalf("save model %s: %v", path, err)
	}
	return chain
}
