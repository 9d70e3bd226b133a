package observation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/learn2branch/solver"
	"github.com/bartolsthoorn/learn2branch/solver/solvertest"
)

func TestFocusNodeAbsent(t *testing.T) {
	obs := FocusNode{}.Obtain(solvertest.New().Build().State())
	assert.Nil(t, obs)
}

func TestFocusNodeRoot(t *testing.T) {
	store := solvertest.New().
		Focus(solver.Node{Number: 1, Depth: 0, LowerBound: -3.5, Estimate: -3}).
		Build()

	obs := FocusNode{}.Obtain(store.State())
	require.NotNil(t, obs)
	assert.Equal(t, int64(1), obs.Number)
	assert.Equal(t, 0, obs.Depth)
	assert.Equal(t, -3.5, obs.LowerBound)
	assert.Equal(t, -3.0, obs.Estimate)
	assert.False(t, obs.HasParent)
	assert.Zero(t, obs.ParentNumber)
	assert.Zero(t, obs.ParentLowerBound)
}

func TestFocusNodeWithParent(t *testing.T) {
	store := solvertest.New().
		Focus(solver.Node{
			Number: 7, Depth: 3, LowerBound: 2, Estimate: 2.5, NAddedConss: 1,
			HasParent: true, ParentNumber: 4, ParentLowerBound: 1.5,
		}).
		Build()

	obs := FocusNode{}.Obtain(store.State())
	require.NotNil(t, obs)
	assert.Equal(t, &FocusNodeObs{
		Number: 7, Depth: 3, LowerBound: 2, Estimate: 2.5, NAddedConss: 1,
		HasParent: true, ParentNumber: 4, ParentLowerBound: 1.5,
	}, obs)
}
