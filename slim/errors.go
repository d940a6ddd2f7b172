package slim

import "fmt"

// SimulationError reports an engine-level failure that is not a script
// error: an inconsistent chromosome definition, an empty subpopulation
// asked to reproduce, a corrupt population dump, or any other violation
// of the genetic data model's invariants.
type SimulationError struct {
	Msg string
}

func (e *SimulationError) Error() string { return fmt.Sprintf("simulation error: %s", e.Msg) }

func simErrf(format string, args ...interface{}) *SimulationError {
	return &SimulationError{Msg: fmt.Sprintf(format, args...)}
}
