package kernel

import (
	"math"

	"github.com/kuri-kustar/nova/model"
)

// AlphaPool is a bounded, preallocated set of alpha-vectors. It backs the
// Gamma/GammaPrime scratch buffers Perseus ping-pongs between: Append grows
// the active set, Reset empties it for reuse as the next horizon's
// destination, and neither ever grows past the capacity fixed at
// construction.
type AlphaPool struct {
	N       int
	Vectors []float64 // [capacity*N]
	Actions []int     // [capacity]
	Count   int
}

// NewAlphaPool allocates a pool with room for capacity alpha-vectors of
// length n.
func NewAlphaPool(n, capacity int) *AlphaPool {
	return &AlphaPool{
		N:       n,
		Vectors: make([]float64, capacity*n),
		Actions: make([]int, capacity),
	}
}

// Vector returns alpha-vector i as a slice view into Vectors.
func (p *AlphaPool) Vector(i int) []float64 {
	return p.Vectors[i*p.N : (i+1)*p.N]
}

// Capacity returns the fixed maximum number of alpha-vectors the pool can
// hold.
func (p *AlphaPool) Capacity() int {
	return len(p.Actions)
}

// Append adds an alpha-vector/action pair to the active set, returning
// model.ErrOutOfMemory if doing so would exceed the pool's capacity.
func (p *AlphaPool) Append(alpha []float64, action int) error {
	if p.Count >= p.Capacity() {
		return model.ErrOutOfMemory
	}
	copy(p.Vector(p.Count), alpha)
	p.Actions[p.Count] = action
	p.Count++
	return nil
}

// Reset empties the active set without releasing the backing storage.
func (p *AlphaPool) Reset() {
	p.Count = 0
}

// DotBelief computes b.alpha over the belief's sparse support.
func DotBelief(pomdp *model.POMDP, bIndex int, alpha []float64) float64 {
	var dot float64
	pomdp.ForBeliefSupport(bIndex, func(s int, prob float64) {
		dot += prob * alpha[s]
	})
	return dot
}

// ValueAtBelief returns max_{alpha in pool} b.alpha and the index of the
// maximizer (first-seen wins on ties). If the pool is empty there is no
// candidate alpha-vector; ValueAtBelief returns negative infinity and
// argmax 0.
func ValueAtBelief(pomdp *model.POMDP, bIndex int, pool *AlphaPool) (value float64, argmax int) {
	value = math.Inf(-1)
	for i := 0; i < pool.Count; i++ {
		dot := DotBelief(pomdp, bIndex, pool.Vector(i))
		if dot > value {
			value = dot
			argmax = i
		}
	}
	return value, argmax
}

// Backup performs the Perseus point-based Bellman backup at belief bIndex
// against pool, returning the resulting alpha-vector and the action that
// produced it: the immediate reward plus, for every observation, the best
// continuation alpha-vector already in pool. If pool is empty,
// the backup degenerates to the immediate reward with no continuation,
// since there is no existing alpha-vector to extend.
func Backup(pomdp *model.POMDP, bIndex int, pool *AlphaPool) (alpha []float64, action int) {
	n := pomdp.N
	bestValue := math.Inf(-1)
	bestAlpha := make([]float64, n)
	candidate := make([]float64, n)

	for a := 0; a < pomdp.M; a++ {
		for s := 0; s < n; s++ {
			candidate[s] = pomdp.Reward(s, a)
		}

		for o := 0; o < pomdp.NumObservations; o++ {
			bestJ := -1
			bestJValue := math.Inf(-1)

			for j := 0; j < pool.Count; j++ {
				alphaPrime := pool.Vector(j)
				var value float64
				pomdp.ForBeliefSupport(bIndex, func(s int, bProb float64) {
					var vtk float64
					pomdp.ForSuccessors(s, a, func(sp int, tProb float64) {
						vtk += pomdp.ObservationProb(a, sp, o) * tProb * alphaPrime[sp]
					})
					value += bProb * pomdp.Gamma * vtk
				})
				if value > bestJValue {
					bestJValue = value
					bestJ = j
				}
			}

			if bestJ < 0 {
				continue
			}
			alphaPrime := pool.Vector(bestJ)
			for s := 0; s < n; s++ {
				var vtk float64
				pomdp.ForSuccessors(s, a, func(sp int, tProb float64) {
					vtk += pomdp.ObservationProb(a, sp, o) * tProb * alphaPrime[sp]
				})
				candidate[s] += pomdp.Gamma * vtk
			}
		}

		value := DotBelief(pomdp, bIndex, candidate)
		if value > bestValue {
			bestValue = value
			copy(bestAlpha, candidate)
			action = a
		}
	}

	return bestAlpha, action
}
