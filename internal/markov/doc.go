// Package markov implements the order-k chain that subkatsu trains on
// tokenized dialogue and samples new lines from.
//
// A chain maps the last k tokens (the context) to observed successor counts.
// Every fed sequence is padded with k boundary markers at the start and
// terminated with one at the end, so generation begins at the all-boundary
// context and stops when it draws a boundary again. Sampling is a weighted
// draw over a RandomSource so tests can substitute a deterministic source.
//
// Chains are persisted to SQLite (Save/Load) and can be exported to or
// imported from YAML for inspection. A loaded chain is frozen: it can
// generate but never be fed again.
package markov
