package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/learn2branch/solver"
	"github.com/bartolsthoorn/learn2branch/solver/solvertest"
)

func candidateState() *solver.State {
	return solvertest.New().
		Col(solvertest.Column{Type: solver.VarContinuous, Ub: 10, PrimSol: 2.5}).
		Col(solvertest.Column{Type: solver.VarBinary, Ub: 1, PrimSol: 0.2}).
		Col(solvertest.Column{Type: solver.VarInteger, Ub: 10, PrimSol: 3}).
		Col(solvertest.Column{Type: solver.VarInteger, Ub: 10, PrimSol: 4.45}).
		Col(solvertest.Column{Type: solver.VarBinary, Ub: 1, PrimSol: 1 - 1e-9}).
		Build().State()
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []int{1, 3}, Candidates(candidateState()))
}

func TestFirstFractional(t *testing.T) {
	col, err := FirstFractional(candidateState())
	require.NoError(t, err)
	assert.Equal(t, 1, col)
}

func TestMostFractional(t *testing.T) {
	col, err := MostFractional(candidateState())
	require.NoError(t, err)
	assert.Equal(t, 3, col)
}

func TestRandomIsReproducible(t *testing.T) {
	s := candidateState()
	a, b := Random(7), Random(7)
	for range 20 {
		x, err := a(s)
		require.NoError(t, err)
		y, err := b(s)
		require.NoError(t, err)
		assert.Equal(t, x, y)
		assert.Contains(t, []int{1, 3}, x)
	}
}

func TestPoliciesWithoutCandidates(t *testing.T) {
	s := solvertest.New().
		Col(solvertest.Column{Type: solver.VarInteger, Ub: 5, PrimSol: 2}).
		Build().State()
	for name, p := range Policies(1) {
		_, err := p(s)
		assert.ErrorIs(t, err, ErrNoCandidates, name)
	}
}

func TestNodeQueueOrder(t *testing.T) {
	var q nodeQueue
	q.push(&node{id: 3, bound: 2})
	q.push(&node{id: 1, bound: 5})
	q.push(&node{id: 2, bound: 2})
	q.push(&node{id: 4, bound: -1})

	var got []int64
	for q.Len() > 0 {
		got = append(got, q.pop().id)
	}
	assert.Equal(t, []int64{4, 2, 3, 1}, got)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "node-limit", StatusNodeLimit.String())
	assert.Equal(t, "unknown", Status(42).String())
}
