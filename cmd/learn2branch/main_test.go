package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/learn2branch/branch"
	"github.com/bartolsthoorn/learn2branch/dataset"
	"github.com/bartolsthoorn/learn2branch/highs"
	"github.com/bartolsthoorn/learn2branch/internal/logging"
	"github.com/bartolsthoorn/learn2branch/reward"
)

// writeKnapsack writes a 0-1 knapsack in minimization form to an MPS file.
func writeKnapsack(t *testing.T) string {
	t.Helper()
	m := &highs.Model{
		ColCosts: []float64{-10, -13, -7, -8, -6},
		ColLower: []float64{0, 0, 0, 0, 0},
		ColUpper: []float64{1, 1, 1, 1, 1},
		VarTypes: []highs.VariableType{highs.Integer, highs.Integer, highs.Integer, highs.Integer, highs.Integer},
	}
	m.AddLeRow([]float64{3, 4, 2, 3, 2}, 7)

	s, err := highs.NewSolver()
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SetBoolOption("output_flag", false))
	require.NoError(t, m.Load(s, false))

	path := filepath.Join(t.TempDir(), "knapsack.mps")
	require.NoError(t, s.WriteModel(path))
	return path
}

func TestSolveCommand(t *testing.T) {
	model := writeKnapsack(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"solve", model, "--policy", "first", "--json", "--log-level", "error"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	var res resultJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "optimal", res.Status)
	require.NotNil(t, res.Objective)
	assert.InDelta(t, -23.0, *res.Objective, 1e-6)
	assert.Positive(t, res.Decisions)
}

func TestInspectCommand(t *testing.T) {
	model := writeKnapsack(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"inspect", model, "--steps", "2", "--log-level", "error"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "== step 0: node 1, depth 0")
	assert.Contains(t, out.String(), "== step 1")
	assert.NotContains(t, out.String(), "== step 2")
	assert.Contains(t, out.String(), "normed_reduced_cost")
}

func TestSolveCommandRejectsUnknownPolicy(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"solve", "missing.mps", "--policy", "strong"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestCollect(t *testing.T) {
	model := writeKnapsack(t)
	c := &collector{
		policy: branch.FirstFractional,
		reward: &reward.NegLPIterations{},
		codec:  dataset.CodecZstd,
		outDir: filepath.Join(t.TempDir(), "out"),
		log:    logging.Noop(),
	}

	stats, err := c.collect(context.Background(), []string{model}, 3, 2)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	for _, st := range stats {
		assert.Equal(t, branch.StatusOptimal, st.Result.Status)
		assert.Equal(t, int(st.Result.Decisions), st.Samples)

		_, err := os.Stat(st.File)
		require.NoError(t, err)

		r, err := dataset.Open(st.File)
		require.NoError(t, err)
		n := 0
		for s, err := range r.All() {
			require.NoError(t, err)
			assert.Equal(t, st.Result.Episode, s.Episode)
			assert.Equal(t, n, s.Step)
			assert.Contains(t, s.Candidates, s.Action)
			assert.LessOrEqual(t, s.Reward, 0.0)
			require.NotNil(t, s.Node)
			n++
		}
		require.NoError(t, r.Close())
		assert.Equal(t, st.Samples, n)
	}
}
