package markov

import "math/rand/v2"

// RandomSource is the randomness a chain draws from. *rand.Rand satisfies it.
type RandomSource interface {
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// NewRandom returns a source seeded from the runtime's entropy.
func NewRandom() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRandom returns a reproducible source.
func NewSeededRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
