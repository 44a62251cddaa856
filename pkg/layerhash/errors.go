package layerhash

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrAborted indicates the transition engine rejected or cancelled a
	// navigation. The layer stack is left unchanged.
	ErrAborted = errors.New("navigation aborted")

	// ErrLayerOutOfRange indicates a layer index outside the current stack.
	ErrLayerOutOfRange = errors.New("layer index out of range")

	// ErrRemoveLastLayer indicates an attempt to remove the only remaining layer.
	ErrRemoveLastLayer = errors.New("cannot remove the last layer")

	// ErrRedirected indicates the adapter issued a fallback redirect during
	// construction and will not navigate until the page reloads.
	ErrRedirected = errors.New("fallback redirect in flight")

	// ErrNoEnvironment and ErrNoTransitioner are returned by New when a
	// required collaborator is missing.
	ErrNoEnvironment  = errors.New("no environment configured")
	ErrNoTransitioner = errors.New("no transitioner configured")
)

// NavigationError wraps a failure with the navigation operation that
// produced it (e.g. "navigate_layer", "replay").
type NavigationError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("layerhash: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("layerhash: %s", e.Op)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// NewNavigationError creates a new navigation error.
func NewNavigationError(op string, err error) *NavigationError {
	return &NavigationError{Op: op, Err: err}
}

// IsNavigationError checks if an error is a navigation error.
func IsNavigationError(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}

// IsAborted checks if an error indicates an aborted navigation.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
