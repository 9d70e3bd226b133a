package solver

import "github.com/bartolsthoorn/learn2branch/tensor"

// State is the read-only facade over a Store at one decision point.
// It owns nothing and must not be retained past the callback it was passed to.
type State struct {
	store *Store
	gen   uint64
}

// Valid reports whether the state still refers to the current generation.
func (s *State) Valid() bool {
	return s.gen == s.store.generation
}

// Variables returns a view over all problem variables.
func (s *State) Variables() View[VarRef] {
	s.store.check(s.gen)
	return newView(s.store, s.gen, s.store.Vars.Len(), varAt)
}

// Columns returns a view over the LP columns.
func (s *State) Columns() View[ColRef] {
	s.store.check(s.gen)
	return newView(s.store, s.gen, s.store.Cols.Len(), colAt)
}

// Rows returns a view over the LP rows.
func (s *State) Rows() View[RowRef] {
	s.store.check(s.gen)
	return newView(s.store, s.gen, s.store.Rows.Len(), rowAt)
}

// Matrix returns a caller-owned copy of the row × column LP matrix.
func (s *State) Matrix() tensor.COO {
	s.store.check(s.gen)
	return s.store.Matrix.Clone()
}

// ObjNorm returns the Euclidean norm of the objective coefficients.
func (s *State) ObjNorm() float64 {
	s.store.check(s.gen)
	return s.store.ObjNorm
}

// NumLPs returns the number of LPs solved so far.
func (s *State) NumLPs() int64 {
	s.store.check(s.gen)
	return s.store.NumLPs
}

// LPIterations returns the number of simplex iterations spent so far.
func (s *State) LPIterations() int64 {
	s.store.check(s.gen)
	return s.store.LPIterations
}

// FocusNode returns the focused node, ok=false when no node is focused.
func (s *State) FocusNode() (Node, bool) {
	s.store.check(s.gen)
	if s.store.Focus == nil {
		return Node{}, false
	}
	return *s.store.Focus, true
}

// IsSolved reports whether the search has terminated.
func (s *State) IsSolved() bool {
	s.store.check(s.gen)
	return s.store.Solved
}

// FeasTol returns the tolerance used for integrality and at-bound tests.
func (s *State) FeasTol() float64 {
	s.store.check(s.gen)
	if s.store.FeasTol <= 0 {
		return DefaultFeasTol
	}
	return s.store.FeasTol
}
