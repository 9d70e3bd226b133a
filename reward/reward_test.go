package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bartolsthoorn/learn2branch/solver"
	"github.com/bartolsthoorn/learn2branch/solver/solvertest"
)

func emptyState() *solver.State {
	return solvertest.New().Build().State()
}

func TestConstant(t *testing.T) {
	assert.Equal(t, 33.0, Constant(33).Obtain(emptyState(), false))
}

func TestArithmetic(t *testing.T) {
	s := emptyState()
	assert.Equal(t, 1.0, Sub(Constant(4), Constant(3)).Obtain(s, false))
	assert.Equal(t, -3.0, Neg(Constant(3)).Obtain(s, false))
	assert.Equal(t, 4.0, Add(Abs(Neg(Constant(2))), Constant(2)).Obtain(s, false))
	assert.Equal(t, 6.0, Mul(Constant(2), Constant(3)).Obtain(s, false))
	assert.Equal(t, 9.0, Apply(Constant(3), func(x float64) float64 { return x * x }).Obtain(s, false))
}

func TestIsDone(t *testing.T) {
	f := IsDone{}
	s := emptyState()
	f.Reset(s)
	assert.Equal(t, 0.0, f.Obtain(s, false))
	assert.Equal(t, 1.0, f.Obtain(s, true))
}

func TestNegLPIterations(t *testing.T) {
	store := solvertest.New().LPIterations(10).Build()
	f := &NegLPIterations{}
	f.Reset(store.State())

	store.LPIterations = 25
	store.Invalidate()
	assert.Equal(t, -15.0, f.Obtain(store.State(), false))

	clone := f.Clone()
	store.LPIterations = 30
	store.Invalidate()
	assert.Equal(t, -5.0, f.Obtain(store.State(), false))
	assert.Equal(t, -5.0, clone.Obtain(store.State(), false))
	assert.LessOrEqual(t, f.Obtain(store.State(), true), 0.0)
}

func TestCompositeResetReachesLeaves(t *testing.T) {
	store := solvertest.New().LPIterations(100).Build()
	f := Neg(&NegLPIterations{})
	f.Reset(store.State())

	store.LPIterations = 104
	store.Invalidate()
	assert.Equal(t, 4.0, f.Obtain(store.State(), false))
}
