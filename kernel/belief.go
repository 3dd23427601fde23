package kernel

import "github.com/kuri-kustar/nova/model"

// BeliefUpdate computes the normalized successor belief after taking
// action a and observing o from belief b: bp[sp] is proportional to
// O[a,sp,o] * sum_s T[s,a,->sp] * b[s], then L1-normalized. It returns
// model.ErrDegenerateBelief when the observation has zero posterior
// probability under (b, a).
func BeliefUpdate(pomdp *model.POMDP, b []float64, a, o int) ([]float64, error) {
	bp := make([]float64, pomdp.N)

	for s := 0; s < pomdp.N; s++ {
		if b[s] == 0 {
			continue
		}
		pomdp.ForSuccessors(s, a, func(sp int, prob float64) {
			bp[sp] += prob * b[s]
		})
	}

	var sum float64
	for sp := 0; sp < pomdp.N; sp++ {
		bp[sp] *= pomdp.ObservationProb(a, sp, o)
		sum += bp[sp]
	}

	if sum == 0 {
		return nil, model.ErrDegenerateBelief
	}

	for sp := 0; sp < pomdp.N; sp++ {
		bp[sp] /= sum
	}

	return bp, nil
}

// ObservationProbability computes Pr(o | b, a) = sum_s b[s] * sum_l T[s,a,l]
// * O[a, S[s,a,l], o], the denominator BeliefUpdate normalizes by before
// the L1 pass.
func ObservationProbability(pomdp *model.POMDP, b []float64, a, o int) float64 {
	var pr float64
	for s := 0; s < pomdp.N; s++ {
		if b[s] == 0 {
			continue
		}
		var val float64
		pomdp.ForSuccessors(s, a, func(sp int, prob float64) {
			val += prob * pomdp.ObservationProb(a, sp, o)
		})
		pr += val * b[s]
	}
	return pr
}
