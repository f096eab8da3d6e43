// Package tokenize splits sanitized dialogue into the tokens the Markov chain
// trains on.
//
// Lines containing any Hiragana, Katakana, or Han characters are handed whole
// to a CJK segmenter (kagome by default, gse optionally). Everything else is
// split with a word pattern that keeps leading and trailing punctuation as
// separate tokens so the renderer can rebuild spacing and quotes later.
package tokenize
