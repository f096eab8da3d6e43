// Package screenshots renders video frames with generated subtitles burned
// in.
//
// The flow mirrors how the lines are consumed: pick subtitle entries, thin
// them to at most one per resolution window, optionally sample a random
// subset, choose a random instant inside each entry, and ask ffmpeg for a
// single frame at that instant with the subtitle filter applied. Each saved
// frame is reported as a Shot so callers can emit JSON lines.
package screenshots
