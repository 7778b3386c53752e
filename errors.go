package ddmin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation is returned when the pass/fail frontier no longer
	// holds: the passing configuration does not pass, the failing one does
	// not fail, or the passing one is not contained in the failing one.
	ErrInvariantViolation = errors.New("ddmin: frontier invariant violated")

	// ErrSplitterContract is returned when a Splitter does not return exactly
	// n disjoint parts covering its input.
	ErrSplitterContract = errors.New("ddmin: splitter contract violated")

	// ErrInvalidOutcome is returned when an Oracle answers with a value that
	// is not Pass, Fail or Unresolved.
	ErrInvalidOutcome = errors.New("ddmin: invalid oracle outcome")

	// ErrRoundLimit is returned when a run exceeds the limit set by WithMaxRounds.
	ErrRoundLimit = errors.New("ddmin: round limit exceeded")
)

// Invariant sides reported by InvariantError.
const (
	SidePass      = "pass"
	SideFail      = "fail"
	SideSubset    = "subset"
	SideDuplicate = "duplicate"
)

// InvariantError describes which part of the frontier invariant broke.
type InvariantError struct {
	// Side is one of SidePass, SideFail, SideSubset or SideDuplicate.
	Side string

	// Want and Got are set for SidePass and SideFail.
	Want Outcome
	Got  Outcome

	// Round is the loop iteration at which the check failed, starting at 0.
	Round int
}

func (e *InvariantError) Error() string {
	switch e.Side {
	case SideSubset:
		return fmt.Sprintf("%v: passing configuration is not a subset of the failing one (round %d)",
			ErrInvariantViolation, e.Round)
	case SideDuplicate:
		return fmt.Sprintf("%v: failing configuration contains duplicate elements", ErrInvariantViolation)
	default:
		return fmt.Sprintf("%v: %s configuration evaluated to %s, want %s (round %d)",
			ErrInvariantViolation, e.Side, e.Got, e.Want, e.Round)
	}
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// SplitError describes a Splitter contract violation.
type SplitError struct {
	N      int
	Parts  int
	Reason string
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("%v: asked for %d parts, got %d: %s", ErrSplitterContract, e.N, e.Parts, e.Reason)
}

func (e *SplitError) Unwrap() error {
	return ErrSplitterContract
}

// OracleError reports an oracle answer outside the three known outcomes.
type OracleError struct {
	Outcome Outcome
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidOutcome, e.Outcome)
}

func (e *OracleError) Unwrap() error {
	return ErrInvalidOutcome
}
