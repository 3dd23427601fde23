// Package perseus implements the Perseus point-based POMDP planner:
// randomized alpha-vector backups over a fixed belief set until no sampled
// belief's value degrades, repeated per horizon.
package perseus

import (
	"fmt"

	"github.com/kuri-kustar/nova/kernel"
	"github.com/kuri-kustar/nova/model"
	"github.com/kuri-kustar/nova/rngsrc"
)

// Planner owns the scratch state of one Perseus run: the Gamma/GammaPrime
// alpha-vector pools, the pending-belief set BTilde, and the current
// horizon.
type Planner struct {
	pomdp *model.POMDP
	rng   rngsrc.Source

	gamma, gammaPrime *kernel.AlphaPool
	bTilde            []int
	currentHorizon    int
	initialized       bool

	// Interrupt, if non-nil, is checked at the top of every Update. A
	// ready channel makes Update return StatusInterrupted without
	// touching the pools or BTilde.
	Interrupt <-chan struct{}
}

// New returns a planner bound to pomdp, drawing belief samples from rng
// (ties between alpha-vectors are broken deterministically). Call Initialize (or Execute) before Update
// or GetPolicy.
func New(pomdp *model.POMDP, rng rngsrc.Source) *Planner {
	return &Planner{pomdp: pomdp, rng: rng}
}

// Complete runs a full Perseus planner from scratch: Initialize, Update
// until the horizon cap, GetPolicy, Uninitialize. For Perseus, Complete
// and Execute are the same operation.
func Complete(pomdp *model.POMDP, rng rngsrc.Source, initialGamma []float64) (*model.AlphaVectors, error) {
	return New(pomdp, rng).Execute(initialGamma)
}

// Initialize allocates the Gamma/GammaPrime pools (capacity NumBeliefs
// each), copies initialGamma's storage into both, and resets BTilde to
// every belief index. Both pools start with an empty active set: the
// copied content is inert until Update's Append calls grow Count.
func (p *Planner) Initialize(initialGamma []float64) error {
	if p.pomdp == nil {
		return fmt.Errorf("%w: pomdp must not be nil", model.ErrInvalidArgument)
	}
	r, n := p.pomdp.NumBeliefs, p.pomdp.N
	if len(initialGamma) != r*n {
		return fmt.Errorf("%w: initialGamma must have length r*n", model.ErrInvalidArgument)
	}

	p.gamma = kernel.NewAlphaPool(n, r)
	p.gammaPrime = kernel.NewAlphaPool(n, r)
	copy(p.gamma.Vectors, initialGamma)
	copy(p.gammaPrime.Vectors, initialGamma)

	p.bTilde = make([]int, r)
	for i := range p.bTilde {
		p.bTilde[i] = i
	}

	p.currentHorizon = 0
	p.initialized = true

	return nil
}

// buffers selects the source (V_n) and destination (V_n+1) pools by the
// parity of currentHorizon.
func (p *Planner) buffers() (src, dst *kernel.AlphaPool) {
	if p.currentHorizon%2 == 0 {
		return p.gamma, p.gammaPrime
	}
	return p.gammaPrime, p.gamma
}

// Update samples one pending belief, backs it up against the source pool,
// appends the result (or, if it didn't improve, the incumbent best
// alpha-vector) to the destination pool, and recomputes BTilde as the set
// of beliefs that got worse. Once BTilde empties, the horizon is complete:
// currentHorizon advances, the now-stale source pool is reset for reuse as
// next horizon's destination, and BTilde is restored to every belief
// index.
func (p *Planner) Update() (model.Status, error) {
	if !p.initialized {
		return model.StatusSuccess, fmt.Errorf("%w: planner not initialized", model.ErrInvalidArgument)
	}

	select {
	case <-p.Interrupt:
		return model.StatusInterrupted, nil
	default:
	}

	src, dst := p.buffers()

	bTildeIndex := p.rng.Intn(len(p.bTilde))
	bIndex := p.bTilde[bTildeIndex]

	alpha, action := kernel.Backup(p.pomdp, bIndex, src)
	bDotAlpha := kernel.DotBelief(p.pomdp, bIndex, alpha)
	vnb, argmax := kernel.ValueAtBelief(p.pomdp, bIndex, src)

	var err error
	if bDotAlpha >= vnb {
		err = dst.Append(alpha, action)
	} else {
		err = dst.Append(src.Vector(argmax), src.Actions[argmax])
	}
	if err != nil {
		return model.StatusSuccess, err
	}

	newBTilde := make([]int, 0, len(p.bTilde))
	for i := 0; i < p.pomdp.NumBeliefs; i++ {
		vn, _ := kernel.ValueAtBelief(p.pomdp, i, src)
		vnp1, _ := kernel.ValueAtBelief(p.pomdp, i, dst)
		if vnp1 < vn {
			newBTilde = append(newBTilde, i)
		}
	}
	p.bTilde = newBTilde

	if len(p.bTilde) == 0 {
		p.currentHorizon++
		src.Reset()

		p.bTilde = make([]int, p.pomdp.NumBeliefs)
		for i := range p.bTilde {
			p.bTilde[i] = i
		}

		return model.StatusConverged, nil
	}

	return model.StatusSuccess, nil
}

// Execute runs Initialize, then drives Update (each full horizon converges
// internally once BTilde empties) until currentHorizon reaches the model's
// horizon cap, then GetPolicy and Uninitialize.
func (p *Planner) Execute(initialGamma []float64) (*model.AlphaVectors, error) {
	if err := p.Initialize(initialGamma); err != nil {
		return nil, err
	}

	for p.currentHorizon < p.pomdp.Horizon {
		status, err := p.Update()
		if err != nil {
			p.Uninitialize()
			return nil, err
		}
		if status == model.StatusInterrupted {
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

// GetPolicy copies the currently-written pool (Gamma if currentHorizon is
// even, else GammaPrime) into an AlphaVectors policy.
func (p *Planner) GetPolicy() (*model.AlphaVectors, error) {
	if !p.initialized {
		return nil, fmt.Errorf("%w: planner not initialized", model.ErrInvalidArgument)
	}

	pool := p.gammaPrime
	if p.currentHorizon%2 == 0 {
		pool = p.gamma
	}

	return &model.AlphaVectors{
		N:     p.pomdp.N,
		M:     p.pomdp.M,
		R:     pool.Count,
		Gamma: append([]float64(nil), pool.Vectors[:pool.Count*pool.N]...),
		Pi:    append([]int(nil), pool.Actions[:pool.Count]...),
	}, nil
}

// Uninitialize releases scratch state. It is idempotent: calling it on an
// already-uninitialized (or never-initialized) planner succeeds.
func (p *Planner) Uninitialize() error {
	p.gamma = nil
	p.gammaPrime = nil
	p.bTilde = nil
	p.currentHorizon = 0
	p.initialized = false
	return nil
}
