// Package preflight provides readiness checks for the filesystem paths and
// external binaries subkatsu depends on.
//
// The CLI "subkatsu status" command renders these results, and the
// screenshots command runs the ffmpeg check before doing any work. Checks
// never fail hard; each returns a Result with a human-readable detail.
package preflight
