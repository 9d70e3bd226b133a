package highs

// Solution contains the results of one HiGHS solve.
type Solution struct {
	// Status indicates the outcome of the solve.
	Status ModelStatus

	// ColValues contains the primal value of each column.
	ColValues []float64

	// ColDuals contains the reduced cost of each column.
	ColDuals []float64

	// RowValues contains the activity of each row.
	RowValues []float64

	// RowDuals contains the dual value of each row.
	RowDuals []float64

	// ColBasis contains the basis status of each column.
	// Nil when HiGHS has no valid basis (e.g. after an interior point solve).
	ColBasis []BasisStatus

	// RowBasis contains the basis status of each row.
	RowBasis []BasisStatus

	// Objective is the value of the objective function at the solution.
	Objective float64

	// SimplexIterations is the number of simplex iterations spent by this solve.
	SimplexIterations int
}

// IsOptimal returns true if the solution is optimal.
func (s *Solution) IsOptimal() bool {
	return s.Status == ModelStatusOptimal
}

// IsInfeasible returns true if the model is infeasible.
func (s *Solution) IsInfeasible() bool {
	return s.Status.IsInfeasible()
}

// IsUnbounded returns true if the model is unbounded.
func (s *Solution) IsUnbounded() bool {
	return s.Status == ModelStatusUnbounded ||
		s.Status == ModelStatusUnboundedOrInfeasible
}

// HasSolution returns true if the solution contains valid values.
func (s *Solution) HasSolution() bool {
	return s.Status.HasSolution()
}

// HasBasis reports whether basis statuses were returned.
func (s *Solution) HasBasis() bool {
	return s.ColBasis != nil
}

// Value returns the solution value for a variable by index.
// Returns 0 if the index is out of range.
func (s *Solution) Value(index int) float64 {
	if index < 0 || index >= len(s.ColValues) {
		return 0
	}
	return s.ColValues[index]
}
