package balloon

import "errors"

// Domain errors for balloon operations.
var (
	// ErrNoPlacement indicates the placement budget ran out before a
	// non-overlapping candidate was found.
	ErrNoPlacement = errors.New("balloon: no placement within attempt budget")

	// ErrAtCapacity indicates the registry already holds the maximum number
	// of balloons allowed at spawn time.
	ErrAtCapacity = errors.New("balloon: registry at spawn capacity")

	// ErrNotRunning indicates a spawn request arrived before the session
	// was started.
	ErrNotRunning = errors.New("balloon: session not running")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("balloon: parameter out of valid bounds")
)

// SpawnError wraps a failed spawn attempt with frame context.
type SpawnError struct {
	Tick    int
	Live    int
	Wrapped error
}

func (e *SpawnError) Error() string {
	return e.Wrapped.Error()
}

func (e *SpawnError) Unwrap() error {
	return e.Wrapped
}
