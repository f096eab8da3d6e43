// Package services defines shared utilities consumed by the training,
// generation, and screenshot pipelines.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, commands, and source file
//     paths for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (input vs model vs generation) with errors.Is while keeping the
//     underlying cause for diagnostics.
//
// Use these helpers when wiring new pipeline code so failure reporting stays
// uniform across commands.
package services
