package observation

import (
	"math"

	"github.com/bartolsthoorn/learn2branch/internal/assert"
	"github.com/bartolsthoorn/learn2branch/solver"
	"github.com/bartolsthoorn/learn2branch/tensor"
)

// Feature widths of NodeBipartiteObs. Downstream models index feature
// columns by position, so the order below is part of the output format.
const (
	NumColumnScalarFeatures = 11
	NumColumnFeatures       = NumColumnScalarFeatures + solver.NumBasisStatuses + solver.NumVarTypes
	NumRowFeatures          = 5
)

// ageSmoothing keeps age features small while few LPs have been solved.
const ageSmoothing = 5.0

// ColumnFeatureNames names the columns of NodeBipartiteObs.ColumnFeatures.
var ColumnFeatureNames = []string{
	"has_lower_bound",
	"has_upper_bound",
	"normed_reduced_cost",
	"objective",
	"solution_value",
	"solution_frac",
	"is_solution_at_lower_bound",
	"is_solution_at_upper_bound",
	"scaled_age",
	"basis_lower",
	"basis_basic",
	"basis_upper",
	"basis_zero",
	"basis_nonbasic",
	"incumbent_value",
	"average_incumbent_value",
	"type_binary",
	"type_integer",
	"type_implicit_integer",
	"type_continuous",
}

// RowFeatureNames names the columns of NodeBipartiteObs.RowFeatures.
var RowFeatureNames = []string{
	"bias",
	"is_tight",
	"scaled_age",
	"objective_cosine_similarity",
	"dual_solution_value",
}

// NodeBipartiteObs is the bipartite graph view of a node relaxation.
//
// ColumnFeatures has one row per LP column. RowFeatures has one row per
// present side of every LP row: left-hand side first, then right-hand side.
// Matrix holds the LP coefficients, LP rows by LP columns.
type NodeBipartiteObs struct {
	ColumnFeatures tensor.Dense
	RowFeatures    tensor.Dense
	Matrix         tensor.COO
}

// NodeBipartite extracts a NodeBipartiteObs from the focused node's LP.
//
// Degenerate rows (zero or non-finite coefficient norm) yield non-finite
// features; they are passed through as is.
type NodeBipartite struct{}

var _ Function[NodeBipartiteObs] = NodeBipartite{}

func (NodeBipartite) Reset(*solver.State) {}

func (NodeBipartite) Obtain(s *solver.State) NodeBipartiteObs {
	return NodeBipartiteObs{
		ColumnFeatures: extractColumnFeatures(s),
		RowFeatures:    extractRowFeatures(s),
		Matrix:         s.Matrix(),
	}
}

func (NodeBipartite) Clone() Function[NodeBipartiteObs] { return NodeBipartite{} }

func objNorm(s *solver.State) float64 {
	if norm := s.ObjNorm(); norm > 0 {
		return norm
	}
	return 1.0
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func extractColumnFeatures(s *solver.State) tensor.Dense {
	cols := s.Columns()
	feat := tensor.NewDense(cols.Len(), NumColumnFeatures)

	nLPs := float64(s.NumLPs())
	norm := objNorm(s)
	nan := math.NaN()

	k := 0
	put := func(v float64) {
		feat.Data[k] = v
		k++
	}
	for _, col := range cols.All() {
		v := col.Var()
		_, hasLb := col.Lb()
		_, hasUb := col.Ub()

		put(boolFeature(hasLb))
		put(boolFeature(hasUb))
		put(col.ReducedCost() / norm)
		put(col.Obj() / norm)
		put(col.PrimSol())
		if v.Type() == solver.VarContinuous {
			put(0.0)
		} else {
			put(col.PrimSolFrac())
		}
		put(boolFeature(col.IsPrimSolAtLb()))
		put(boolFeature(col.IsPrimSolAtUb()))
		put(float64(col.Age()) / (nLPs + ageSmoothing))

		feat.Data[k+int(col.BasisStatus())] = 1.0
		k += solver.NumBasisStatuses

		if best, ok := v.BestSolVal(); ok {
			put(best)
		} else {
			put(nan)
		}
		if avg, ok := v.AvgSol(); ok {
			put(avg)
		} else {
			put(nan)
		}

		feat.Data[k+int(v.Type())] = 1.0
		k += solver.NumVarTypes
	}

	assert.That(k == feat.Size(), "column features: wrote %d of %d elements", k, feat.Size())
	return feat
}

// numInequalityRows counts one feature row per present row side.
func numInequalityRows(rows solver.View[solver.RowRef]) int {
	n := 0
	for _, row := range rows.All() {
		if _, ok := row.Lhs(); ok {
			n++
		}
		if _, ok := row.Rhs(); ok {
			n++
		}
	}
	return n
}

func extractRowFeatures(s *solver.State) tensor.Dense {
	rows := s.Rows()
	feat := tensor.NewDense(numInequalityRows(rows), NumRowFeatures)

	nLPs := float64(s.NumLPs())
	norm := objNorm(s)

	k := 0
	put := func(v float64) {
		feat.Data[k] = v
		k++
	}
	side := func(row solver.RowRef, bound float64, tight bool, sign float64) {
		rowNorm := row.L2Norm()
		put(bound / rowNorm)
		put(boolFeature(tight))
		put(float64(row.Age()) / (nLPs + ageSmoothing))
		put(sign * row.ObjCosSim())
		put(sign * row.DualSol() / (rowNorm * norm))
	}
	for _, row := range rows.All() {
		if lhs, ok := row.Lhs(); ok {
			side(row, lhs, row.IsAtLhs(), -1.0)
		}
		if rhs, ok := row.Rhs(); ok {
			side(row, rhs, row.IsAtRhs(), 1.0)
		}
	}

	assert.That(k == feat.Size(), "row features: wrote %d of %d elements", k, feat.Size())
	return feat
}
