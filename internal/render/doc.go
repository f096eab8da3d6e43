// Package render turns sampled token sequences back into readable text.
//
// A random walk can stop inside a bracketed aside or start after its opener,
// so Balance computes the minimal symbols to prepend and append. Render then
// joins everything with the spacing rules the tokenizer's splits imply:
// words are space separated, punctuation hugs its neighbour, and quotes hug
// the text they enclose.
package render
