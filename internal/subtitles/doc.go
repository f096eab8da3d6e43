// Package subtitles reads and writes the timed subtitle files subkatsu trains
// on and fills with generated dialogue.
//
// SRT, ASS/SSA, and WebVTT go through go-astisub; MicroDVD frame-based files
// are handled here because they need a frame rate. Callers see a flat list of
// Entry values whose Text is the raw line, override tags included, so the
// sanitizer can decide what counts as dialogue.
package subtitles
