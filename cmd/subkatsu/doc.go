// Package main hosts the subkatsu CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the internal
// packages: train builds a model from subtitle files, generate samples lines
// or rewrites a subtitle file, screenshots burns generated subtitles into
// video frames, and the model, config, and status commands cover inspection
// and scaffolding. Configuration resolution and logger setup live here so
// subcommands only deal with flags and output.
//
// Keep this package thin: new behaviour belongs in the internal packages
// first and is surfaced here through a command or flag.
package main
