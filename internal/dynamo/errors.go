package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrUnknownVariant indicates a coiler variant id with no matching config.
	ErrUnknownVariant = errors.New("dynamo: unknown coiler variant")

	// ErrNoCoiler indicates an operation that needs a built coiler.
	ErrNoCoiler = errors.New("dynamo: coiler not created")

	// ErrUnstable indicates the solver produced a non-finite position.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownCommand indicates a protocol message with an unrecognised type.
	ErrUnknownCommand = errors.New("dynamo: unknown command")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Frame   int
	Time    float64
	Op      string
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s at frame %d (t=%.4f): %v", e.Op, e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// BoundsError reports which parameter failed validation.
func BoundsError(name string, value float64) error {
	return fmt.Errorf("%w: %s=%g", ErrParameterBounds, name, value)
}
