package term

import "errors"

// Failure signals for operations that can fail in more than one way.
// Observers report failure with a boolean instead.
var (
	// ErrBadArg is returned when an argument has the wrong kind or range.
	ErrBadArg = errors.New("term: bad argument")

	// ErrCapacity is returned when a destination is too small for a result.
	ErrCapacity = errors.New("term: destination capacity exceeded")

	// ErrMalformed is returned when a byte-sequence structure holds an
	// element that is not a byte, binary or list.
	ErrMalformed = errors.New("term: malformed structure")

	// ErrUnsupportedKind is returned when a copy reaches a function,
	// external identifier or match state.
	ErrUnsupportedKind = errors.New("term: unsupported kind")
)
