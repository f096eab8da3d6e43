// Package textutil cleans subtitle text before it reaches the tokenizer and
// produces filesystem-safe names for generated artifacts.
//
// Sanitize strips ASS/SSA override groups and line-break markers so only
// spoken dialogue is left. Invisible text (an override that sets a fully
// transparent colour) is removed together with everything up to the next
// styling boundary. SanitizeFileName keeps screenshot and model names safe to
// write on any filesystem.
package textutil
