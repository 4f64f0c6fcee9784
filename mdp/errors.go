package mdp

import "fmt"

// StructuralError reports that a caller-supplied model or reward structure
// violates the capability contract (empty choice set at a non-trap state,
// negative or non-summing probabilities, etc). Constructing the explicit
// model validates eagerly; symbolic implementations are expected to do the
// same at whatever point they materialize choices.
type StructuralError struct {
	State  State
	Choice Choice
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("mdp: structural inconsistency at state=%d choice=%d: %s", e.State, e.Choice, e.Reason)
}

func newStructuralError(s State, c Choice, reason string) error {
	return &StructuralError{State: s, Choice: c, Reason: reason}
}
