package perseus

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuri-kustar/nova/kernel"
	"github.com/kuri-kustar/nova/model"
)

// singleBeliefPOMDP is a minimal POMDP with one action, two observations
// of which only o=0 can occur, and a single uniform-support belief, enough to exercise one backup
// without the combinatorics of the full Tiger problem.
func singleBeliefPOMDP(t *testing.T) *model.POMDP {
	t.Helper()
	mdp, err := model.NewMDP(2, 1, 1,
		0.9, 1e-6, 10,
		[]int32{0, 1},
		[]float64{1, 1},
		[]float64{1, 0},
	)
	require.NoError(t, err)

	o := []float64{1, 0, 1, 0} // a=0: sp=0 -> o=0 always, sp=1 -> o=0 always
	zIdx := []int32{0, 1}
	b := []float64{0.5, 0.5}
	pomdp, err := model.NewPOMDP(*mdp, 2, 1, 2, o, zIdx, b)
	require.NoError(t, err)
	return pomdp
}

func TestUpdateProducesNonDegradingValue(t *testing.T) {
	pomdp := singleBeliefPOMDP(t)
	planner := New(pomdp, rand.New(rand.NewSource(7)))

	initialGamma := make([]float64, pomdp.NumBeliefs*pomdp.N)
	require.NoError(t, planner.Initialize(initialGamma))

	status, err := planner.Update()
	require.NoError(t, err)
	assert.Equal(t, model.StatusConverged, status) // the only belief improves or ties, so BTilde empties immediately

	// The horizon completed on the very first Update: gammaPrime was this
	// update's destination and now holds the backed-up alpha-vector.
	vAfterDot := kernel.DotBelief(pomdp, 0, planner.gammaPrime.Vector(0))
	assert.GreaterOrEqual(t, vAfterDot, 0.5) // at least the immediate-reward lower bound R[s,a=0]=[1,0] dotted with uniform belief
}

func TestGetPolicyShapeRespectsCapacity(t *testing.T) {
	pomdp := singleBeliefPOMDP(t)
	planner := New(pomdp, rand.New(rand.NewSource(1)))
	initialGamma := make([]float64, pomdp.NumBeliefs*pomdp.N)

	policy, err := planner.Execute(initialGamma)
	require.NoError(t, err)
	assert.LessOrEqual(t, policy.R, pomdp.NumBeliefs)
	assert.Equal(t, pomdp.N, policy.N)
}

func TestAppendBeyondCapacityIsOutOfMemory(t *testing.T) {
	pool := kernel.NewAlphaPool(2, 0)
	err := pool.Append([]float64{0, 0}, 0)
	assert.ErrorIs(t, err, model.ErrOutOfMemory)
}

func TestUninitializeIsIdempotent(t *testing.T) {
	planner := New(singleBeliefPOMDP(t), rand.New(rand.NewSource(1)))
	assert.NoError(t, planner.Uninitialize())
	assert.NoError(t, planner.Uninitialize())
}

func TestInitializeRejectsWrongLengthGamma(t *testing.T) {
	planner := New(singleBeliefPOMDP(t), rand.New(rand.NewSource(1)))
	err := planner.Initialize([]float64{0})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
