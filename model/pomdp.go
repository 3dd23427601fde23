package model

import "fmt"

// POMDP is an MDP whose true state is hidden behind a probabilistic
// observation function. Policies act over a fixed, sparsely-represented
// set of belief points rather than over states directly.
type POMDP struct {
	MDP

	NumObservations  int // z
	NumBeliefs       int // r
	MaxBeliefSupport int // rz, the sparse belief row width

	O             []float64 // [M*N*NumObservations], O[a*n*z + sp*z + o]
	BeliefSupport []int32   // [NumBeliefs*MaxBeliefSupport], negative sentinel terminates a row
	BeliefProb    []float64 // [NumBeliefs*MaxBeliefSupport], matching probability
}

// NewPOMDP validates dims and array shapes and returns an immutable POMDP.
func NewPOMDP(mdp MDP, numObservations, numBeliefs, maxBeliefSupport int, o []float64, beliefSupport []int32, beliefProb []float64) (*POMDP, error) {
	p := &POMDP{
		MDP:              mdp,
		NumObservations:  numObservations,
		NumBeliefs:       numBeliefs,
		MaxBeliefSupport: maxBeliefSupport,
		O:                o,
		BeliefSupport:    beliefSupport,
		BeliefProb:       beliefProb,
	}
	if err := p.MDP.validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *POMDP) validate() error {
	if p.NumObservations <= 0 || p.NumBeliefs <= 0 || p.MaxBeliefSupport <= 0 {
		return fmt.Errorf("%w: z, r, and rz must be positive", ErrInvalidArgument)
	}
	if want := p.M * p.N * p.NumObservations; len(p.O) != want {
		return fmt.Errorf("%w: O must have length m*n*z", ErrInvalidArgument)
	}
	want := p.NumBeliefs * p.MaxBeliefSupport
	if len(p.BeliefSupport) != want {
		return fmt.Errorf("%w: belief support array must have length r*rz", ErrInvalidArgument)
	}
	if len(p.BeliefProb) != want {
		return fmt.Errorf("%w: belief probability array must have length r*rz", ErrInvalidArgument)
	}
	return nil
}

// ForBeliefSupport iterates the sparse support of belief bIndex in index
// order, stopping at the first negative entry of BeliefSupport.
func (p *POMDP) ForBeliefSupport(bIndex int, fn func(s int, prob float64)) {
	base := bIndex * p.MaxBeliefSupport
	for i := 0; i < p.MaxBeliefSupport; i++ {
		s := int(p.BeliefSupport[base+i])
		if s < 0 {
			return
		}
		fn(s, p.BeliefProb[base+i])
	}
}

// ObservationProb returns Pr(o | arrived at sp via action a).
func (p *POMDP) ObservationProb(a, sp, o int) float64 {
	return p.O[a*p.N*p.NumObservations+sp*p.NumObservations+o]
}
