// Package kernel holds the Bellman backups shared by every planner: the
// single-state MDP backup used by MDP-VI and LAO*, and the single-belief
// POMDP backup used by Perseus.
package kernel

import (
	"math"

	"github.com/kuri-kustar/nova/model"
)

// BackupState computes the discounted-reward Bellman backup for state s
// against vin: Q(s,a) = R[s,a] + gamma * sum_i T[s,a,i]*vin[S[s,a,i]], and
// returns the greedy value and action, with ties broken by the lowest
// action index.
func BackupState(mdp *model.MDP, vin []float64, s int) (value float64, action int) {
	best := math.Inf(-1)
	bestA := 0

	for a := 0; a < mdp.M; a++ {
		q := mdp.Reward(s, a)
		mdp.ForSuccessors(s, a, func(sp int, prob float64) {
			q += mdp.Gamma * prob * vin[sp]
		})
		if q > best {
			best = q
			bestA = a
		}
	}

	return best, bestA
}

// BackupStateMinCost computes the cost-minimizing Bellman backup used by
// the LAO* stochastic-shortest-path planner, where R holds non-negative
// costs: Q(s,a) = R[s,a] + gamma * sum_i T[s,a,i]*vin[S[s,a,i]], and the
// greedy action minimizes rather than maximizes Q, ties broken by the
// lowest action index.
func BackupStateMinCost(mdp *model.MDP, vin []float64, s int) (value float64, action int) {
	best := math.Inf(1)
	bestA := 0

	for a := 0; a < mdp.M; a++ {
		q := mdp.Reward(s, a)
		mdp.ForSuccessors(s, a, func(sp int, prob float64) {
			q += mdp.Gamma * prob * vin[sp]
		})
		if q < best {
			best = q
			bestA = a
		}
	}

	return best, bestA
}
