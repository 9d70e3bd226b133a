package solver

import "math"

// VarRef is a borrowed handle to one variable.
type VarRef struct {
	s   *Store
	gen uint64
	i   int
}

// Index returns the variable index.
func (v VarRef) Index() int { return v.i }

// LbLocal returns the local lower bound, ok=false when it is infinite.
func (v VarRef) LbLocal() (float64, bool) {
	v.s.check(v.gen)
	lb := v.s.Vars.LbLocal[v.i]
	return lb, v.s.finite(lb)
}

// UbLocal returns the local upper bound, ok=false when it is infinite.
func (v VarRef) UbLocal() (float64, bool) {
	v.s.check(v.gen)
	ub := v.s.Vars.UbLocal[v.i]
	return ub, v.s.finite(ub)
}

// Type returns the declared variable type.
func (v VarRef) Type() VarType {
	v.s.check(v.gen)
	return v.s.Vars.Type[v.i]
}

// BestSolVal returns the value in the best known solution, ok=false if no
// solution has been found.
func (v VarRef) BestSolVal() (float64, bool) {
	v.s.check(v.gen)
	x := v.s.Vars.BestSol[v.i]
	return x, !math.IsNaN(x)
}

// AvgSol returns the average value over all solutions found, ok=false if
// none has been found.
func (v VarRef) AvgSol() (float64, bool) {
	v.s.check(v.gen)
	x := v.s.Vars.AvgSol[v.i]
	return x, !math.IsNaN(x)
}

// ColRef is a borrowed handle to one LP column.
type ColRef struct {
	s   *Store
	gen uint64
	i   int
}

// Index returns the column position in the LP.
func (c ColRef) Index() int { return c.i }

// Var returns the variable behind the column.
func (c ColRef) Var() VarRef {
	c.s.check(c.gen)
	return VarRef{s: c.s, gen: c.gen, i: c.s.Cols.Var[c.i]}
}

// Lb returns the column lower bound, ok=false when it is infinite.
func (c ColRef) Lb() (float64, bool) {
	c.s.check(c.gen)
	lb := c.s.Cols.Lb[c.i]
	return lb, c.s.finite(lb)
}

// Ub returns the column upper bound, ok=false when it is infinite.
func (c ColRef) Ub() (float64, bool) {
	c.s.check(c.gen)
	ub := c.s.Cols.Ub[c.i]
	return ub, c.s.finite(ub)
}

// ReducedCost returns the reduced cost in the current LP solution.
func (c ColRef) ReducedCost() float64 {
	c.s.check(c.gen)
	return c.s.Cols.RedCost[c.i]
}

// Obj returns the objective coefficient.
func (c ColRef) Obj() float64 {
	c.s.check(c.gen)
	return c.s.Cols.Obj[c.i]
}

// PrimSol returns the primal value in the current LP solution.
func (c ColRef) PrimSol() float64 {
	c.s.check(c.gen)
	return c.s.Cols.PrimSol[c.i]
}

// PrimSolFrac returns the fractional part of the primal value, in [0, 1).
// Values within the feasibility tolerance of an integer report 0.
func (c ColRef) PrimSolFrac() float64 {
	x := c.PrimSol()
	if c.s.feasEq(x, math.Round(x)) {
		return 0.0
	}
	return x - math.Floor(x)
}

// IsPrimSolAtLb reports whether the primal value sits on a finite lower bound.
func (c ColRef) IsPrimSolAtLb() bool {
	lb, ok := c.Lb()
	return ok && c.s.feasEq(c.s.Cols.PrimSol[c.i], lb)
}

// IsPrimSolAtUb reports whether the primal value sits on a finite upper bound.
func (c ColRef) IsPrimSolAtUb() bool {
	ub, ok := c.Ub()
	return ok && c.s.feasEq(c.s.Cols.PrimSol[c.i], ub)
}

// Age returns the number of successive LPs the column stayed at zero.
func (c ColRef) Age() int {
	c.s.check(c.gen)
	return c.s.Cols.Age[c.i]
}

// BasisStatus returns the column status in the current LP basis.
func (c ColRef) BasisStatus() BasisStatus {
	c.s.check(c.gen)
	return c.s.Cols.Basis[c.i]
}

// RowRef is a borrowed handle to one LP row.
type RowRef struct {
	s   *Store
	gen uint64
	i   int
}

// Index returns the row position in the LP.
func (r RowRef) Index() int { return r.i }

// Lhs returns the left-hand side, ok=false when it is infinite.
func (r RowRef) Lhs() (float64, bool) {
	r.s.check(r.gen)
	lhs := r.s.Rows.Lhs[r.i]
	return lhs, r.s.finite(lhs)
}

// Rhs returns the right-hand side, ok=false when it is infinite.
func (r RowRef) Rhs() (float64, bool) {
	r.s.check(r.gen)
	rhs := r.s.Rows.Rhs[r.i]
	return rhs, r.s.finite(rhs)
}

// L2Norm returns the Euclidean norm of the row coefficients.
func (r RowRef) L2Norm() float64 {
	r.s.check(r.gen)
	return r.s.Rows.Norm[r.i]
}

// Age returns the number of successive LPs the row stayed inactive.
func (r RowRef) Age() int {
	r.s.check(r.gen)
	return r.s.Rows.Age[r.i]
}

// ObjCosSim returns the cosine similarity of the row and the objective.
func (r RowRef) ObjCosSim() float64 {
	r.s.check(r.gen)
	return r.s.Rows.ObjCosSim[r.i]
}

// DualSol returns the dual value in the current LP solution.
func (r RowRef) DualSol() float64 {
	r.s.check(r.gen)
	return r.s.Rows.Dual[r.i]
}

// Activity returns the row activity in the current LP solution.
func (r RowRef) Activity() float64 {
	r.s.check(r.gen)
	return r.s.Rows.Activity[r.i]
}

// IsAtLhs reports whether the activity sits on a finite left-hand side.
func (r RowRef) IsAtLhs() bool {
	lhs, ok := r.Lhs()
	return ok && r.s.feasEq(r.s.Rows.Activity[r.i], lhs)
}

// IsAtRhs reports whether the activity sits on a finite right-hand side.
func (r RowRef) IsAtRhs() bool {
	rhs, ok := r.Rhs()
	return ok && r.s.feasEq(r.s.Rows.Activity[r.i], rhs)
}
