package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks unreadable or unparseable input files.
	ErrInput = errors.New("input error")
	// ErrNoInput marks a batch in which no input file could be processed.
	ErrNoInput = errors.New("no files processed")
	// ErrModel marks missing, corrupt, or unwritable model files.
	ErrModel = errors.New("model error")
	// ErrTokenNotFound marks a start token that never occurred in training.
	ErrTokenNotFound = errors.New("token not found in model")
	// ErrSerialization marks failures converting entries back to a subtitle format.
	ErrSerialization = errors.New("serialization error")
	// ErrExternalTool marks failures of external binaries such as ffmpeg.
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks invalid user supplied settings.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Chain flattens an error and its causes, outermost first. Errors joined with
// multiple %w verbs are walked depth first.
func Chain(err error) []error {
	var out []error
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		out = append(out, e)
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if isMarker(inner) {
					continue
				}
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

func isMarker(err error) bool {
	for _, marker := range []error{ErrInput, ErrNoInput, ErrModel, ErrTokenNotFound, ErrSerialization, ErrExternalTool, ErrConfiguration} {
		if err == marker {
			return true
		}
	}
	return false
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
