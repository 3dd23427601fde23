package model

import "fmt"

// MDP is an immutable, sparse discounted Markov decision process. Successor
// rows are sentinel-terminated: S[s,a,i] < 0 marks the end of the valid
// entries for that (s,a) pair, so every kernel walks S/T with the same
// "break on negative" loop rather than assuming a dense n x n transition
// matrix.
type MDP struct {
	N  int // number of states
	M  int // number of actions
	NS int // max successors per (state, action) pair

	Gamma   float64 // discount factor, in [0,1]
	Horizon int     // iteration cap
	Epsilon float64 // convergence threshold on max value change

	S []int32   // [N*M*NS], successor state id or negative sentinel
	T []float64 // [N*M*NS], matching successor probability
	R []float64 // [N*M], reward (or, for SSP planners, cost)
}

// NewMDP validates dims and array shapes and returns an immutable MDP.
func NewMDP(n, m, ns int, gamma, epsilon float64, horizon int, s []int32, t, r []float64) (*MDP, error) {
	mdp := &MDP{N: n, M: m, NS: ns, Gamma: gamma, Epsilon: epsilon, Horizon: horizon, S: s, T: t, R: r}
	if err := mdp.validate(); err != nil {
		return nil, err
	}
	return mdp, nil
}

func (mdp *MDP) validate() error {
	if mdp.N <= 0 || mdp.M <= 0 || mdp.NS <= 0 {
		return fmt.Errorf("%w: n, m, and ns must be positive", ErrInvalidArgument)
	}
	if mdp.Gamma < 0 || mdp.Gamma > 1 {
		return fmt.Errorf("%w: gamma must be in [0,1]", ErrInvalidArgument)
	}
	if mdp.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive", ErrInvalidArgument)
	}
	if mdp.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be at least 1", ErrInvalidArgument)
	}
	want := mdp.N * mdp.M * mdp.NS
	if len(mdp.S) != want {
		return fmt.Errorf("%w: S must have length n*m*ns", ErrInvalidArgument)
	}
	if len(mdp.T) != want {
		return fmt.Errorf("%w: T must have length n*m*ns", ErrInvalidArgument)
	}
	if len(mdp.R) != mdp.N*mdp.M {
		return fmt.Errorf("%w: R must have length n*m", ErrInvalidArgument)
	}
	return nil
}

// ForSuccessors iterates the sparse successor row for (s,a) in index order,
// stopping at the first negative entry of S.
func (mdp *MDP) ForSuccessors(s, a int, fn func(sp int, prob float64)) {
	base := (s*mdp.M + a) * mdp.NS
	for i := 0; i < mdp.NS; i++ {
		sp := int(mdp.S[base+i])
		if sp < 0 {
			return
		}
		fn(sp, mdp.T[base+i])
	}
}

// Reward returns R[s,a].
func (mdp *MDP) Reward(s, a int) float64 {
	return mdp.R[s*mdp.M+a]
}
