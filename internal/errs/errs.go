// Package errs holds the error taxonomy shared by the stores, the engines and the CLI.
// Callers wrap these with context and match them with errors.Is.
package errs

import "errors"

var (
	// Selector resolution. Raised before any mutation starts.
	ErrUnknownSnapshot   = errors.New("unknown snapshot")
	ErrUnknownTag        = errors.New("unknown tag")
	ErrAmbiguousSelector = errors.New("exactly one of id, tag or offset must be given")
	ErrOutOfRange        = errors.New("offset beyond history")
	ErrNoSnapshots       = errors.New("no snapshots yet")

	// Content store inconsistency. Reported per path during rewind.
	ErrMissingBlob = errors.New("missing blob")

	ErrIOFailure      = errors.New("io failure")
	ErrNotInitialized = errors.New("not an ftt root (run 'ftt init')")
	ErrCorruptIndex   = errors.New("corrupt metadata")
	ErrPartialRewind  = errors.New("rewind completed partially")

	// ErrDirty is returned by a quiet status when the live tree differs from
	// the latest snapshot.
	ErrDirty = errors.New("working tree has changes")
)

// IsSelector reports whether err is one of the selector resolution failures.
func IsSelector(err error) bool {
	return errors.Is(err, ErrUnknownSnapshot) ||
		errors.Is(err, ErrUnknownTag) ||
		errors.Is(err, ErrAmbiguousSelector) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrNoSnapshots)
}
