package lao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuri-kustar/nova/model"
)

// shortestPathSSP is a three-state chain start (0) -> mid (1) -> goal (2),
// each non-goal transition costing 1, with goal cost 0 and self-looping.
func shortestPathSSP(t *testing.T) *model.MDP {
	t.Helper()
	mdp, err := model.NewMDP(3, 1, 1,
		1.0, 1e-6, 1000,
		[]int32{1, 2, 2},
		[]float64{1, 1, 1},
		[]float64{1, 1, 0},
	)
	require.NoError(t, err)
	return mdp
}

func TestExecuteFindsShortestPathCosts(t *testing.T) {
	mdp := shortestPathSSP(t)
	policy, err := Complete(mdp, []float64{0, 0, 0})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, policy.V[0], 1e-6)
	assert.InDelta(t, 1.0, policy.V[1], 1e-6)
	assert.InDelta(t, 0.0, policy.V[2], 1e-6)
	assert.Equal(t, 0, policy.Pi[0])
	assert.Equal(t, 0, policy.Pi[1])
}

func TestExecuteExpandsEnvelopeFromStartOnly(t *testing.T) {
	mdp := shortestPathSSP(t)
	planner := New(mdp)
	require.NoError(t, planner.Initialize([]float64{0, 0, 0}))
	assert.True(t, planner.envelope[startState])
	assert.False(t, planner.envelope[1])
	assert.False(t, planner.envelope[2])
	require.NoError(t, planner.Uninitialize())
}

func TestAdmissibleHeuristicNeverOverestimates(t *testing.T) {
	mdp := shortestPathSSP(t)
	// An admissible (zero) heuristic must never produce a V above the true
	// optimal cost-to-go computed above.
	policy, err := Complete(mdp, []float64{0, 0, 0})
	require.NoError(t, err)

	trueCost := []float64{2, 1, 0}
	for s := range trueCost {
		assert.LessOrEqual(t, policy.V[s], trueCost[s]+1e-9)
	}
}

func TestUninitializeIsIdempotent(t *testing.T) {
	planner := New(shortestPathSSP(t))
	assert.NoError(t, planner.Uninitialize())
	assert.NoError(t, planner.Uninitialize())
}

func TestInitializeRejectsWrongLengthV0(t *testing.T) {
	planner := New(shortestPathSSP(t))
	err := planner.Initialize([]float64{0, 0})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
