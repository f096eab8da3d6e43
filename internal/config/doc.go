// Package config loads, normalizes, and validates subkatsu configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBKATSU_LOG_LEVEL. The Config type centralizes the knobs the train,
// generate, and screenshots commands need so model order, tokenizer choice,
// and output locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
