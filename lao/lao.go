// Package lao implements LAO*: heuristic-guided AND/OR envelope expansion
// interleaved with value-iteration-style backups restricted to the
// expanded envelope, for stochastic shortest-path MDPs whose rewards are
// non-negative costs (0 at goal states).
package lao

import (
	"fmt"
	"math"

	"github.com/kuri-kustar/nova/kernel"
	"github.com/kuri-kustar/nova/model"
)

// startState is the start state, taken as state 0 by convention.
const startState = 0

// Planner owns the scratch state of one LAO* run: V, pi, and the envelope
// of expanded states. Unlike MDP-VI and Perseus, LAO*'s per-iteration
// update is internal; only Initialize, Execute, GetPolicy, and
// Uninitialize are exported.
type Planner struct {
	mdp *model.MDP

	v        []float64
	pi       []int
	envelope []bool

	initialized bool

	// Interrupt, if non-nil, is checked between iterations. A ready
	// channel makes Execute stop expanding and return the policy
	// computed so far.
	Interrupt <-chan struct{}

	// LastResidual is the restricted-VI residual from the most recently
	// completed iteration, exposed for diagnostics only.
	LastResidual float64
}

// New returns a planner bound to mdp. Call Initialize (or Execute) before
// GetPolicy.
func New(mdp *model.MDP) *Planner {
	return &Planner{mdp: mdp}
}

// Complete runs a full LAO* planner from scratch: Initialize, iterate to
// convergence, GetPolicy, Uninitialize. v0 must hold an admissible
// heuristic (a lower bound on true cost-to-go) for every state.
func Complete(mdp *model.MDP, v0 []float64) (*model.ValueFunction, error) {
	return New(mdp).Execute(v0)
}

// Initialize sets V to the admissible heuristic v0, pi to action 0 for
// every state, and the envelope to {startState} only.
func (p *Planner) Initialize(v0 []float64) error {
	if p.mdp == nil {
		return fmt.Errorf("%w: mdp must not be nil", model.ErrInvalidArgument)
	}
	if len(v0) != p.mdp.N {
		return fmt.Errorf("%w: v0 must have length n", model.ErrInvalidArgument)
	}

	p.v = append([]float64(nil), v0...)
	p.pi = make([]int, p.mdp.N)
	p.envelope = make([]bool, p.mdp.N)
	p.envelope[startState] = true
	p.initialized = true

	return nil
}

// solutionGraph returns, as a membership set, the states reachable from
// startState by following the current greedy policy pi. Traversal does not
// continue past a state outside the envelope, but that boundary state
// itself is marked reachable so expand can recognize it as the undiscovered
// successor of a leaf.
func (p *Planner) solutionGraph() []bool {
	reachable := make([]bool, p.mdp.N)
	reachable[startState] = true
	worklist := []int{startState}

	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if !p.envelope[s] {
			continue
		}

		p.mdp.ForSuccessors(s, p.pi[s], func(sp int, _ float64) {
			if !reachable[sp] {
				reachable[sp] = true
				worklist = append(worklist, sp)
			}
		})
	}

	return reachable
}

// expand grows the envelope with the undiscovered successors of every
// non-goal leaf reachable in g, returning whether it expanded anything.
func (p *Planner) expand(g []bool) bool {
	var frontier []int
	for s := 0; s < p.mdp.N; s++ {
		if !g[s] || !p.envelope[s] {
			continue
		}
		isLeaf := false
		p.mdp.ForSuccessors(s, p.pi[s], func(sp int, _ float64) {
			if !p.envelope[sp] {
				isLeaf = true
			}
		})
		if isLeaf {
			frontier = append(frontier, s)
		}
	}

	expanded := false
	for _, s := range frontier {
		p.mdp.ForSuccessors(s, p.pi[s], func(sp int, _ float64) {
			if !p.envelope[sp] {
				p.envelope[sp] = true
				expanded = true
				// V[sp] already holds the admissible heuristic from Initialize.
			}
		})
	}
	return expanded
}

// restrictedVI runs cost-minimizing Bellman backups over every envelope
// state until a full sweep leaves the greedy policy unchanged or the max
// residual drops below epsilon, returning that final residual.
func (p *Planner) restrictedVI() float64 {
	for {
		var residual float64
		changed := false

		for s := 0; s < p.mdp.N; s++ {
			if !p.envelope[s] {
				continue
			}
			value, action := kernel.BackupStateMinCost(p.mdp, p.v, s)
			if action != p.pi[s] {
				changed = true
			}
			if d := math.Abs(value - p.v[s]); d > residual {
				residual = d
			}
			p.v[s] = value
			p.pi[s] = action
		}

		if !changed || residual < p.mdp.Epsilon {
			return residual
		}
	}
}

// iterate runs one LAO* iteration: recompute the solution graph, expand its
// fringe, run restricted VI, then test for convergence.
func (p *Planner) iterate() model.Status {
	select {
	case <-p.Interrupt:
		return model.StatusInterrupted
	default:
	}

	g := p.solutionGraph()
	expanded := p.expand(g)
	residual := p.restrictedVI()
	p.LastResidual = residual

	if !expanded && residual < p.mdp.Epsilon {
		return model.StatusConverged
	}
	return model.StatusSuccess
}

// Execute runs Initialize, iterates to convergence, GetPolicy, and
// Uninitialize, returning the resulting policy. Unexplored states retain
// their v0 heuristic value and pi = 0.
func (p *Planner) Execute(v0 []float64) (*model.ValueFunction, error) {
	if err := p.Initialize(v0); err != nil {
		return nil, err
	}

	for {
		status := p.iterate()
		if status == model.StatusConverged || status == model.StatusInterrupted {
			break
		}
	}

	policy, err := p.GetPolicy()
	if err != nil {
		p.Uninitialize()
		return nil, err
	}
	if err := p.Uninitialize(); err != nil {
		return nil, err
	}
	return policy, nil
}

// GetPolicy allocates a ValueFunction from the current V and pi.
func (p *Planner) GetPolicy() (*model.ValueFunction, error) {
	if !p.initialized {
		return nil, fmt.Errorf("%w: planner not initialized", model.ErrInvalidArgument)
	}
	return &model.ValueFunction{
		N:  p.mdp.N,
		M:  p.mdp.M,
		V:  append([]float64(nil), p.v...),
		Pi: append([]int(nil), p.pi...),
	}, nil
}

// Uninitialize releases scratch state. It is idempotent: calling it on an
// already-uninitialized (or never-initialized) planner succeeds.
func (p *Planner) Uninitialize() error {
	p.v = nil
	p.pi = nil
	p.envelope = nil
	p.initialized = false
	return nil
}
