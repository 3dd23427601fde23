// Package vi implements synchronous value iteration for discounted MDPs:
// double-buffered Bellman backups to a fixed point, ping-ponging between V
// and V' by the parity of the current horizon.
package vi

import (
	"fmt"
	"math"

	"github.com/kuri-kustar/nova/kernel"
	"github.com/kuri-kustar/nova/model"
)

// Planner owns the scratch state of one value-iteration run: V, V', pi, and
// the current horizon. It is not safe for concurrent use.
type Planner struct {
	mdp *model.MDP

	v, vPrime      []float64
	pi             []int
	currentHorizon int
	initialized    bool

	// Interrupt, if non-nil, is checked between sweeps. A ready channel
	// makes Update return StatusInterrupted without mutating state
	// further.
	Interrupt <-chan struct{}

	// LastResidual is the max value change of the most recent sweep,
	// exposed for callers (e.g. viz) that want a convergence curve; it is
	// not part of the convergence decision's contract, which compares
	// against the epsilon-optimal threshold internally.
	LastResidual float64
}

// New returns a planner bound to mdp. Call Initialize (or Execute) before
// Update or GetPolicy.
func New(mdp *model.MDP) *Planner {
	return &Planner{mdp: mdp}
}

// Complete runs a full value-iteration planner from scratch: Initialize,
// Update until Converged, GetPolicy, Uninitialize.
func Complete(mdp *model.MDP, v0 []float64) (*model.ValueFunction, error) {
	return New(mdp).Execute(v0)
}

// Initialize allocates V, V', and pi, copying v0 into both value buffers
// and resetting pi to action 0 and the horizon to 0.
func (p *Planner) Initialize(v0 []float64) error {
	if p.mdp == nil {
		return fmt.Errorf("%w: mdp must not be nil", model.ErrInvalidArgument)
	}
	if len(v0) != p.mdp.N {
		return fmt.Errorf("%w: v0 must have length n", model.ErrInvalidArgument)
	}

	p.v = append([]float64(nil), v0...)
	p.vPrime = append([]float64(nil), v0...)
	p.pi = make([]int, p.mdp.N)
	p.currentHorizon = 0
	p.initialized = true

	return nil
}

// current returns the buffer corresponding to currentHorizon mod 2: the
// source of the next sweep, or (after that sweep completes and increments
// currentHorizon) the buffer it just wrote.
func (p *Planner) current() []float64 {
	if p.currentHorizon%2 == 0 {
		return p.v
	}
	return p.vPrime
}

func (p *Planner) other() []float64 {
	if p.currentHorizon%2 == 0 {
		return p.vPrime
	}
	return p.v
}

// Update performs one synchronous Bellman sweep, ping-ponging the value
// buffers and advancing currentHorizon. It reports StatusConverged once the
// horizon cap is reached or the max value change drops below the
// epsilon-optimal threshold (raw epsilon when gamma is 1).
func (p *Planner) Update() (model.Status, error) {
	if !p.initialized {
		return model.StatusSuccess, fmt.Errorf("%w: planner not initialized", model.ErrInvalidArgument)
	}

	select {
	case <-p.Interrupt:
		return model.StatusInterrupted, nil
	default:
	}

	in, out := p.current(), p.other()

	var maxDelta float64
	for s := 0; s < p.mdp.N; s++ {
		value, action := kernel.BackupState(p.mdp, in, s)
		out[s] = value
		p.pi[s] = action
		if d := math.Abs(value - in[s]); d > maxDelta {
			maxDelta = d
		}
	}

	p.currentHorizon++
	p.LastResidual = maxDelta

	if p.currentHorizon >= p.mdp.Horizon {
		return model.StatusConverged, nil
	}

	threshold := p.mdp.Epsilon
	if p.mdp.Gamma < 1 {
		threshold = p.mdp.Epsilon * (1 - p.mdp.Gamma) / (2 * p.mdp.Gamma)
	}
	if maxDelta < threshold {
		return model.StatusConverged, nil
	}

	return model.StatusSuccess, nil
}

// Execute runs Initialize, repeated Update until Converged or Interrupted,
// GetPolicy, and Uninitialize, returning the resulting policy.
func (p *Planner) Execute(v0 []float64) (*model.ValueFunction, error) {
	if err := p.Initialize(v0); err != nil {
		return nil, err
	}

	for {
		status, err := p.Update()
		if err != nil {
			p.Uninitialize()
			return nil, err
		}
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

// GetPolicy allocates a ValueFunction from the most-recently-written value
// buffer and the current greedy policy.
func (p *Planner) GetPolicy() (*model.ValueFunction, error) {
	if !p.initialized {
		return nil, fmt.Errorf("%w: planner not initialized", model.ErrInvalidArgument)
	}
	return &model.ValueFunction{
		N:  p.mdp.N,
		M:  p.mdp.M,
		V:  append([]float64(nil), p.current()...),
		Pi: append([]int(nil), p.pi...),
	}, nil
}

// Uninitialize releases scratch state. It is idempotent: calling it on an
// already-uninitialized (or never-initialized) planner succeeds.
func (p *Planner) Uninitialize() error {
	p.v = nil
	p.vPrime = nil
	p.pi = nil
	p.currentHorizon = 0
	p.initialized = false
	return nil
}
