// Package expand grows a POMDP's belief set by simulating random
// trajectories: from the POMDP's own first belief point, it walks a
// random-length sequence of random actions and inverse-CDF-sampled
// observations, recording every belief reached along the way.
package expand

import (
	"fmt"

	"github.com/kuri-kustar/nova/kernel"
	"github.com/kuri-kustar/nova/model"
	"github.com/kuri-kustar/nova/rngsrc"
)

// resampleAttempts bounds how many times a degenerate (zero-posterior)
// observation draw is retried before the trajectory step is skipped
// outright.
const resampleAttempts = 8

// Random simulates trajectories from a POMDP to produce numDesired new
// belief points, returned as a dense [numDesired*pomdp.N] matrix. Every
// trajectory is seeded from the POMDP's belief index 0, decoded through
// its sparse support. On return, *maxNonZeroValues holds the largest
// per-belief support observed, either from the prior value passed in or
// any larger support discovered here; the caller uses it to size a sparse
// rz for the expanded set.
func Random(pomdp *model.POMDP, numDesired int, maxNonZeroValues *int, rng rngsrc.Source) ([][]float64, error) {
	if pomdp == nil {
		return nil, fmt.Errorf("%w: pomdp must not be nil", model.ErrInvalidArgument)
	}
	if numDesired <= 0 {
		return nil, fmt.Errorf("%w: numDesired must be positive", model.ErrInvalidArgument)
	}

	b0 := make([]float64, pomdp.N)
	pomdp.ForBeliefSupport(0, func(s int, prob float64) {
		b0[s] = prob
	})

	bNew := make([][]float64, 0, numDesired)

	for len(bNew) < numDesired {
		h := rng.Intn(pomdp.Horizon + 1)

		b := append([]float64(nil), b0...)

		for t := 0; t < h; t++ {
			a := rng.Intn(pomdp.M)

			o, ok := sampleObservation(pomdp, b, a, rng)
			if !ok {
				continue
			}

			bp, err := belief(pomdp, b, a, o, rng)
			if err != nil {
				return nil, err
			}
			b = bp

			if support := nonZeroSupport(b); support > *maxNonZeroValues {
				*maxNonZeroValues = support
			}

			bNew = append(bNew, append([]float64(nil), b...))
			if len(bNew) >= numDesired {
				break
			}
		}
	}

	return bNew, nil
}

// sampleObservation draws an observation index by inverse-CDF over
// Pr(o | b, a): cumulative probability walked against a single uniform
// draw. It reports false if every observation has zero probability under
// (b, a).
func sampleObservation(pomdp *model.POMDP, b []float64, a int, rng rngsrc.Source) (int, bool) {
	target := rng.Float64()
	var cumulative float64
	lastPositive := -1

	for o := 0; o < pomdp.NumObservations; o++ {
		pr := kernel.ObservationProbability(pomdp, b, a, o)
		if pr > 0 {
			lastPositive = o
		}
		cumulative += pr
		if cumulative >= target && pr > 0 {
			return o, true
		}
	}

	return lastPositive, lastPositive >= 0
}

// belief runs BeliefUpdate, and on a degenerate (zero-mass) draw resamples
// the observation up to resampleAttempts times before giving up and
// returning the unchanged belief b, so one dead-end draw never aborts a
// whole expansion run.
func belief(pomdp *model.POMDP, b []float64, a int, o int, rng rngsrc.Source) ([]float64, error) {
	bp, err := kernel.BeliefUpdate(pomdp, b, a, o)
	if err == nil {
		return bp, nil
	}

	for attempt := 0; attempt < resampleAttempts; attempt++ {
		oRetry, ok := sampleObservation(pomdp, b, a, rng)
		if !ok {
			break
		}
		bp, err = kernel.BeliefUpdate(pomdp, b, a, oRetry)
		if err == nil {
			return bp, nil
		}
	}

	return append([]float64(nil), b...), nil
}

func nonZeroSupport(b []float64) int {
	count := 0
	for _, p := range b {
		if p > 0 {
			count++
		}
	}
	return count
}
