package branch

import "errors"

var (
	// ErrInvalidAction is returned when a policy picks a column that is not
	// a fractional integral column of the focused node.
	ErrInvalidAction = errors.New("branch: invalid branching action")

	// ErrNoCandidates is returned by built-in policies when the state has no
	// fractional integral column.
	ErrNoCandidates = errors.New("branch: no branching candidates")

	// ErrLPFailed is returned when HiGHS cannot solve a node relaxation.
	ErrLPFailed = errors.New("branch: lp relaxation failed")

	// ErrUnbounded is returned when a node relaxation is unbounded.
	ErrUnbounded = errors.New("branch: lp relaxation unbounded")

	// ErrEmptyModel is returned for a model without variables.
	ErrEmptyModel = errors.New("branch: model has no variables")
)
