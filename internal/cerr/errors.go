// Package cerr holds the sentinel error kinds shared across the
// extraction and interpretation packages, matching spec.md section 7's
// error handling design. Callers should compare against these with
// errors.Is rather than string-matching messages.
package cerr

import (
	"errors"
	"fmt"
)

var (
	// ErrPatternNotFound means an extraction step exhausted every
	// pattern it knows and could not locate what it was looking for.
	// Fatal for the call that triggered it.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrInvariantViolated means a structural assumption failed at
	// runtime — e.g. a throttling-plan step pointed at a non-callable
	// array entry. Fatal.
	ErrInvariantViolated = errors.New("extraction invariant violated")
)

// NotFound wraps ErrPatternNotFound with the caller and the pattern(s)
// that were tried, mirroring pytube's RegexMatchError(caller, pattern).
func NotFound(caller, pattern string) error {
	return fmt.Errorf("%s: no pattern matched (tried: %s): %w", caller, pattern, ErrPatternNotFound)
}

// Invariant wraps ErrInvariantViolated with a human-readable detail.
func Invariant(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrInvariantViolated)
}
