// Package train builds a Markov chain from a batch of subtitle files.
//
// Inputs may be files or directories (walked recursively when asked). Each
// file is parsed, every line sanitized and tokenized, and the resulting
// sequences fed to one chain. Within a file a line whose tokens repeat the
// previous line is skipped, since typesetting layers duplicate dialogue.
// A file that cannot be read or parsed is logged and counted; the batch fails
// only when no file succeeds.
package train
