// Package engine orchestrates a QACO solve around a pluggable Strategy.
//
// Every call runs the same guarded pipeline:
//
//	Idle -> InputValidated -> Solved -> OutputValidated -> Returned
//
// Input that fails structural or referential validation never reaches the
// strategy. Strategy output that fails structural validation never reaches the
// caller. Either failure is returned as an *Error carrying the phase reached
// and wrapping the *validate.Error that describes the violation.
//
// "No solution" is not an error: Solve and BindingSpace report it as
// ok == false with a nil error.
//
// An Engine holds only immutable collaborators and is safe for concurrent use.
// It imposes no timeout; ctx is forwarded to the strategy, which owns
// cancellation.
package engine
