package expand

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuri-kustar/nova/kernel"
	"github.com/kuri-kustar/nova/model"
)

func tigerPOMDP(t *testing.T) *model.POMDP {
	t.Helper()
	n, m, z, ns := 2, 2, 2, 1
	s := []int32{0, 0, 1, 1} // state0: a0->0, a1->0; state1: a0->1, a1->1 (self loops, any action)
	tr := []float64{1, 1, 1, 1}
	r := []float64{-1, -1, -1, -1}
	mdp, err := model.NewMDP(n, m, ns, 0.95, 1e-3, 10, s, tr, r)
	require.NoError(t, err)

	o := []float64{0.85, 0.15, 0.15, 0.85, 0.5, 0.5, 0.5, 0.5}
	zIdx := []int32{0, 1}
	b := []float64{0.5, 0.5}
	pomdp, err := model.NewPOMDP(*mdp, z, 1, 2, o, zIdx, b)
	require.NoError(t, err)
	return pomdp
}

func TestRandomYieldsExactCountAndNormalizedRows(t *testing.T) {
	pomdp := tigerPOMDP(t)
	var maxSupport int
	beliefs, err := Random(pomdp, 15, &maxSupport, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Len(t, beliefs, 15)
	for _, b := range beliefs {
		var sum float64
		for _, p := range b {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}
	assert.GreaterOrEqual(t, maxSupport, 1)
}

func TestRandomUpdatesMaxNonZeroValues(t *testing.T) {
	pomdp := tigerPOMDP(t)
	maxSupport := 0
	_, err := Random(pomdp, 5, &maxSupport, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, maxSupport, 1)
	assert.LessOrEqual(t, maxSupport, pomdp.N)
}

func TestRandomRejectsNilPOMDP(t *testing.T) {
	_, err := Random(nil, 1, new(int), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestBeliefUpdateRoundTripThroughKernel(t *testing.T) {
	pomdp := tigerPOMDP(t)
	b := []float64{0.5, 0.5}
	bp, err := kernel.BeliefUpdate(pomdp, b, 0, 0)
	require.NoError(t, err)
	var sum float64
	for _, p := range bp {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}
