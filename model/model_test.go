package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMDPValidatesShapes(t *testing.T) {
	_, err := NewMDP(0, 1, 1, 0.9, 0.01, 10, []int32{-1}, []float64{0}, []float64{0})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewMDP(1, 1, 1, 1.5, 0.01, 10, []int32{-1}, []float64{0}, []float64{0})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewMDP(1, 1, 1, 0.9, 0.01, 10, []int32{-1, -1}, []float64{0}, []float64{0})
	require.ErrorIs(t, err, ErrInvalidArgument)

	mdp, err := NewMDP(1, 1, 1, 0.9, 0.01, 10, []int32{-1}, []float64{0}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, 1, mdp.N)
}

func TestMDPForSuccessorsStopsAtSentinel(t *testing.T) {
	mdp, err := NewMDP(2, 1, 2,
		0.9, 0.01, 10,
		[]int32{1, -1, -1, -1},
		[]float64{1, 0, 0, 0},
		[]float64{0, 0},
	)
	require.NoError(t, err)

	var seen []int
	mdp.ForSuccessors(0, 0, func(sp int, prob float64) {
		seen = append(seen, sp)
		assert.Equal(t, 1.0, prob)
	})
	assert.Equal(t, []int{1}, seen)
}

func TestNewPOMDPValidatesShapes(t *testing.T) {
	mdp, err := NewMDP(2, 1, 1, 0.9, 0.01, 10, []int32{0, 0}, []float64{1, 1}, []float64{0, 0})
	require.NoError(t, err)

	_, err = NewPOMDP(*mdp, 0, 1, 1, nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	o := make([]float64, 1*2*2)
	zIdx := []int32{0}
	b := []float64{1}
	pomdp, err := NewPOMDP(*mdp, 2, 1, 1, o, zIdx, b)
	require.NoError(t, err)
	assert.Equal(t, 2, pomdp.N)
	assert.Equal(t, 2, pomdp.NumObservations)
}

func TestPOMDPForBeliefSupport(t *testing.T) {
	mdp, err := NewMDP(2, 1, 1, 0.9, 0.01, 10, []int32{0, 0}, []float64{1, 1}, []float64{0, 0})
	require.NoError(t, err)

	o := make([]float64, 1*2*2)
	zIdx := []int32{0, 1, -1}
	b := []float64{0.5, 0.5, -1}
	pomdp, err := NewPOMDP(*mdp, 2, 1, 3, o, zIdx, b)
	require.NoError(t, err)

	var states []int
	var total float64
	pomdp.ForBeliefSupport(0, func(s int, prob float64) {
		states = append(states, s)
		total += prob
	})
	assert.Equal(t, []int{0, 1}, states)
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestAlphaVectorsVectorView(t *testing.T) {
	av := &AlphaVectors{N: 2, M: 1, R: 2, Gamma: []float64{1, 2, 3, 4}, Pi: []int{0, 0}}
	assert.Equal(t, []float64{1, 2}, av.Vector(0))
	assert.Equal(t, []float64{3, 4}, av.Vector(1))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "converged", StatusConverged.String())
	assert.Equal(t, "interrupted", StatusInterrupted.String())
	assert.Equal(t, "unknown status", Status(99).String())
}
