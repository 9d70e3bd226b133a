// Package solvertest builds solver stores by hand for tests of code that
// consumes solver.State.
package solvertest

import (
	"math"

	"github.com/bartolsthoorn/learn2branch/solver"
)

// Column describes one LP column together with its variable.
type Column struct {
	Type    solver.VarType
	Lb, Ub  float64
	Obj     float64
	RedCost float64
	PrimSol float64
	Basis   solver.BasisStatus
	Age     int

	BestSol, AvgSol       float64
	HasBestSol, HasAvgSol bool
}

// Row describes one LP row. Norm and objective similarity are derived from
// Coefs, which is dense over the columns added so far.
type Row struct {
	Lhs, Rhs float64
	Coefs    []float64
	Dual     float64
	Activity float64
	Age      int
}

// Builder accumulates columns and rows into a solver.Store.
type Builder struct {
	cols  []Column
	rows  []Row
	nLPs  int64
	iters int64
	focus *solver.Node
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Col appends a column.
func (b *Builder) Col(c Column) *Builder {
	b.cols = append(b.cols, c)
	return b
}

// Row appends a row.
func (b *Builder) Row(r Row) *Builder {
	b.rows = append(b.rows, r)
	return b
}

// NumLPs sets the number of LPs solved.
func (b *Builder) NumLPs(n int64) *Builder {
	b.nLPs = n
	return b
}

// LPIterations sets the simplex iteration counter.
func (b *Builder) LPIterations(n int64) *Builder {
	b.iters = n
	return b
}

// Focus sets the focused node.
func (b *Builder) Focus(n solver.Node) *Builder {
	b.focus = &n
	return b
}

// Build materializes the store.
func (b *Builder) Build() *solver.Store {
	s := solver.NewStore()
	s.NumLPs = b.nLPs
	s.LPIterations = b.iters
	s.Focus = b.focus

	var objSq float64
	for j, c := range b.cols {
		s.Vars.Type = append(s.Vars.Type, c.Type)
		s.Vars.LbLocal = append(s.Vars.LbLocal, c.Lb)
		s.Vars.UbLocal = append(s.Vars.UbLocal, c.Ub)
		s.Vars.BestSol = append(s.Vars.BestSol, optional(c.BestSol, c.HasBestSol))
		s.Vars.AvgSol = append(s.Vars.AvgSol, optional(c.AvgSol, c.HasAvgSol))

		s.Cols.Var = append(s.Cols.Var, j)
		s.Cols.Lb = append(s.Cols.Lb, c.Lb)
		s.Cols.Ub = append(s.Cols.Ub, c.Ub)
		s.Cols.Obj = append(s.Cols.Obj, c.Obj)
		s.Cols.RedCost = append(s.Cols.RedCost, c.RedCost)
		s.Cols.PrimSol = append(s.Cols.PrimSol, c.PrimSol)
		s.Cols.Basis = append(s.Cols.Basis, c.Basis)
		s.Cols.Age = append(s.Cols.Age, c.Age)
		objSq += c.Obj * c.Obj
	}
	s.ObjNorm = math.Sqrt(objSq)

	s.Matrix.Rows, s.Matrix.Cols = len(b.rows), len(b.cols)
	for i, r := range b.rows {
		var normSq, dot float64
		for j, a := range r.Coefs {
			if a == 0 {
				continue
			}
			s.Matrix.Append(i, j, a)
			normSq += a * a
			dot += a * b.cols[j].Obj
		}
		norm := math.Sqrt(normSq)
		cos := 0.0
		if norm > 0 && s.ObjNorm > 0 {
			cos = dot / (norm * s.ObjNorm)
		}
		s.Rows.Lhs = append(s.Rows.Lhs, r.Lhs)
		s.Rows.Rhs = append(s.Rows.Rhs, r.Rhs)
		s.Rows.Norm = append(s.Rows.Norm, norm)
		s.Rows.ObjCosSim = append(s.Rows.ObjCosSim, cos)
		s.Rows.Dual = append(s.Rows.Dual, r.Dual)
		s.Rows.Activity = append(s.Rows.Activity, r.Activity)
		s.Rows.Age = append(s.Rows.Age, r.Age)
	}
	return s
}

func optional(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}

// Inf is +∞, for absent upper bounds and right-hand sides.
var Inf = math.Inf(1)

// NegInf is -∞, for absent lower bounds and left-hand sides.
var NegInf = math.Inf(-1)
