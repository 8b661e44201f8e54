package decipher

import "github.com/supamega9595/vid/internal/cerr"

// Sentinel error kinds a caller can compare against with errors.Is. Every
// error this package returns wraps one of these.
var (
	// ErrPatternNotFound means extraction could not locate a piece it
	// needed (initial function name, transform plan, transform object,
	// throttling function, ...) anywhere in the script.
	ErrPatternNotFound = cerr.ErrPatternNotFound

	// ErrInvariantViolated means extraction succeeded but produced data
	// that violates a structural assumption the interpreter relies on
	// (an out-of-range plan index, a non-callable opcode slot, a plan
	// call through an unknown transform-map member).
	ErrInvariantViolated = cerr.ErrInvariantViolated
)
