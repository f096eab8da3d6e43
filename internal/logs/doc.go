// Package logs reads the subkatsu log file for the `subkatsu logs` command.
//
// Tail returns the last N lines with bounded memory and the byte offset of the
// end of the file; Follow polls from that offset and emits lines as they are
// appended, starting over when the file is truncated or replaced.
package logs
