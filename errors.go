package dmp

import "errors"

// Sentinel errors returned by the diff, delta, and match operations.
// Use errors.Is to test for a particular kind; the wrapped message
// carries the offending value.
var (
	// ErrInvalidInput marks a text that was never supplied. No function in
	// this package returns it: Go string arguments are always present.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPatternTooLong is returned when a Bitap pattern exceeds MatchMaxBits.
	ErrPatternTooLong = errors.New("pattern too long for this application")
	// ErrInvalidEscape is returned when a delta's "+" token contains a
	// malformed percent-escape.
	ErrInvalidEscape = errors.New("invalid escape in delta")
	// ErrInvalidLength is returned when a delta's "=" or "-" token carries
	// a non-numeric or negative length.
	ErrInvalidLength = errors.New("invalid length in delta")
	// ErrInvalidOperation is returned when a delta token starts with an
	// unrecognized operation character.
	ErrInvalidOperation = errors.New("invalid diff operation in delta")
	// ErrDeltaLengthMismatch is returned when a delta's cumulative
	// consumed length does not equal len(text1).
	ErrDeltaLengthMismatch = errors.New("delta length mismatch with source text")
)
