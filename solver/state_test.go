package solver_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/learn2branch/solver"
	"github.com/bartolsthoorn/learn2branch/solver/solvertest"
)

func twoColumnStore() *solver.Store {
	return solvertest.New().
		Col(solvertest.Column{Type: solver.VarContinuous, Lb: 0, Ub: solvertest.Inf, Obj: 3, PrimSol: 0, Basis: solver.BasisLower}).
		Col(solvertest.Column{Type: solver.VarInteger, Lb: 0, Ub: 4, Obj: 4, PrimSol: 2.25, Basis: solver.BasisBasic,
			BestSol: 2, HasBestSol: true}).
		Row(solvertest.Row{Lhs: 1, Rhs: 5, Coefs: []float64{1, 1}, Activity: 5, Dual: -0.5}).
		Row(solvertest.Row{Lhs: solvertest.NegInf, Rhs: 3, Coefs: []float64{0, 2}, Activity: 1}).
		NumLPs(7).
		Build()
}

func TestViewsIterateInArrayOrder(t *testing.T) {
	store := twoColumnStore()
	state := store.State()

	var idx []int
	for i, col := range state.Columns().All() {
		assert.Equal(t, i, col.Index())
		idx = append(idx, col.Var().Index())
	}
	assert.Equal(t, []int{0, 1}, idx)

	// A fresh traversal restarts at zero.
	var again []int
	for i := range state.Columns().All() {
		again = append(again, i)
	}
	assert.Equal(t, []int{0, 1}, again)

	assert.Equal(t, 2, state.Rows().Len())
	assert.Equal(t, 2, state.Variables().Len())
	assert.Equal(t, int64(7), state.NumLPs())
	assert.InDelta(t, 5.0, state.ObjNorm(), 1e-12)
	assert.Equal(t, solver.DefaultFeasTol, state.FeasTol())
}

func TestViewEarlyBreak(t *testing.T) {
	state := twoColumnStore().State()
	n := 0
	for range state.Rows().All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestColumnAccessors(t *testing.T) {
	state := twoColumnStore().State()
	cont := state.Columns().At(0)
	intg := state.Columns().At(1)

	lb, ok := cont.Lb()
	assert.True(t, ok)
	assert.Equal(t, 0.0, lb)
	_, ok = cont.Ub()
	assert.False(t, ok)
	assert.True(t, cont.IsPrimSolAtLb())
	assert.False(t, cont.IsPrimSolAtUb())

	assert.InDelta(t, 0.25, intg.PrimSolFrac(), 1e-12)
	assert.Equal(t, solver.BasisBasic, intg.BasisStatus())
	assert.Equal(t, solver.VarInteger, intg.Var().Type())

	best, ok := intg.Var().BestSolVal()
	assert.True(t, ok)
	assert.Equal(t, 2.0, best)
	_, ok = intg.Var().AvgSol()
	assert.False(t, ok)
	_, ok = cont.Var().BestSolVal()
	assert.False(t, ok)
}

func TestRowAccessors(t *testing.T) {
	state := twoColumnStore().State()
	both := state.Rows().At(0)
	rhsOnly := state.Rows().At(1)

	_, ok := rhsOnly.Lhs()
	assert.False(t, ok)
	rhs, ok := rhsOnly.Rhs()
	assert.True(t, ok)
	assert.Equal(t, 3.0, rhs)
	assert.InDelta(t, 2.0, rhsOnly.L2Norm(), 1e-12)
	assert.InDelta(t, 0.8, rhsOnly.ObjCosSim(), 1e-12)

	assert.True(t, both.IsAtRhs())
	assert.False(t, both.IsAtLhs())
	assert.InDelta(t, math.Sqrt2, both.L2Norm(), 1e-12)
}

func TestMatrixIsCallerOwned(t *testing.T) {
	store := twoColumnStore()
	m := store.State().Matrix()
	require.Equal(t, 3, m.NNZ())
	m.Values[0] = 42

	assert.NotEqual(t, 42.0, store.Matrix.Values[0])
}

func TestStaleHandlesPanic(t *testing.T) {
	store := twoColumnStore()
	state := store.State()
	col := state.Columns().At(0)
	view := state.Rows()
	require.True(t, state.Valid())

	store.Invalidate()

	assert.False(t, state.Valid())
	assert.PanicsWithValue(t, solver.ErrStale, func() { col.PrimSol() })
	assert.PanicsWithValue(t, solver.ErrStale, func() {
		for range view.All() {
		}
	})
	assert.PanicsWithValue(t, solver.ErrStale, func() { state.NumLPs() })
	assert.PanicsWithValue(t, solver.ErrStale, func() { view.Len() })

	// A new state works again.
	assert.Equal(t, 0.0, store.State().Columns().At(0).PrimSol())
}

func TestFocusNodeAbsent(t *testing.T) {
	state := twoColumnStore().State()
	_, ok := state.FocusNode()
	assert.False(t, ok)
}

func TestEnumCardinalities(t *testing.T) {
	assert.Equal(t, solver.NumVarTypes, int(solver.VarContinuous)+1)
	assert.Equal(t, solver.NumBasisStatuses, int(solver.BasisNonbasic)+1)
	assert.Equal(t, "implicit-integer", solver.VarImplicitInteger.String())
	assert.Equal(t, "zero", solver.BasisZero.String())
}
