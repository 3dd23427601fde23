// Command planlab builds three canonical planning problems and runs each
// planner against the one it fits, printing the resulting policy and
// writing a convergence chart. It exists only to exercise the core
// library end to end; the core itself stays free of this CLI, logging,
// and file-writing concern.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/kuri-kustar/nova/expand"
	"github.com/kuri-kustar/nova/lao"
	"github.com/kuri-kustar/nova/model"
	"github.com/kuri-kustar/nova/perseus"
	"github.com/kuri-kustar/nova/render"
	"github.com/kuri-kustar/nova/vi"
	"github.com/kuri-kustar/nova/viz"
)

func main() {
	runAbsorbingGoalMDP()
	runShortestPathSSP()
	runTigerPOMDP()
}

// runAbsorbingGoalMDP solves a 2-state, 2-action MDP where state 0's
// action 1 reaches the reward-earning absorbing state 1.
func runAbsorbingGoalMDP() {
	fmt.Println("=== absorbing-goal MDP (value iteration) ===")

	n, m, ns := 2, 2, 1
	s := []int32{
		0, 1, // state 0: action 0 -> state 0, action 1 -> state 1
		1, 1, // state 1: both actions self-loop
	}
	t := []float64{1, 1, 1, 1}
	r := []float64{0, 1, 0, 0}

	mdp, err := model.NewMDP(n, m, ns, 0.9, 1e-6, 10000, s, t, r)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	planner := vi.New(mdp)
	var residuals []float64
	if err := planner.Initialize([]float64{0, 0}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	for {
		status, err := planner.Update()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		residuals = append(residuals, planner.LastResidual)
		if status == model.StatusConverged {
			break
		}
	}
	policy, err := planner.GetPolicy()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	_ = planner.Uninitialize()

	render.ValueFunction(os.Stdout, policy)
	if err := viz.Convergence("charts/vi.html", viz.Curve{Name: "value iteration", Values: residuals}); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// runShortestPathSSP solves a 3-state stochastic shortest path
// (start -> mid -> goal) with LAO* from an admissible zero heuristic.
func runShortestPathSSP() {
	fmt.Println("=== shortest-path SSP (LAO*) ===")

	n, m, ns := 3, 1, 1
	s := []int32{
		1, // start -> mid
		2, // mid -> goal
		2, // goal self-loops
	}
	t := []float64{1, 1, 1}
	r := []float64{1, 1, 0}

	mdp, err := model.NewMDP(n, m, ns, 1.0, 1e-6, 1000, s, t, r)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	policy, err := lao.Complete(mdp, []float64{0, 0, 0})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	render.ValueFunction(os.Stdout, policy)
	render.Grid(os.Stdout, policy, 1, 3, 0)
}

// runTigerPOMDP solves the canonical two-state Tiger problem with Perseus
// over a small belief set spanning [0,1].
func runTigerPOMDP() {
	fmt.Println("=== Tiger POMDP (Perseus) ===")

	const (
		listen, openLeft, openRight = 0, 1, 2
		tigerLeft, tigerRight       = 0, 1
		hearLeft, hearRight         = 0, 1
	)

	n, m, z, ns := 2, 3, 2, 2

	s := make([]int32, n*m*ns)
	t := make([]float64, n*m*ns)
	r := make([]float64, n*m)

	for state := 0; state < n; state++ {
		base := (state*m + listen) * ns
		s[base], t[base] = int32(state), 1
		s[base+1] = -1
		r[state*m+listen] = -1

		for _, a := range []int{openLeft, openRight} {
			base = (state*m + a) * ns
			s[base], t[base] = tigerLeft, 0.5
			s[base+1], t[base+1] = tigerRight, 0.5
		}
	}
	r[tigerLeft*m+openLeft] = -100
	r[tigerLeft*m+openRight] = 10
	r[tigerRight*m+openLeft] = 10
	r[tigerRight*m+openRight] = -100

	mdp, err := model.NewMDP(n, m, ns, 0.95, 1e-3, 10, s, t, r)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	o := make([]float64, m*n*z)
	for state := 0; state < n; state++ {
		correct, wrong := hearLeft, hearRight
		if state == tigerRight {
			correct, wrong = hearRight, hearLeft
		}
		o[listen*n*z+state*z+correct] = 0.85
		o[listen*n*z+state*z+wrong] = 0.15
		for _, a := range []int{openLeft, openRight} {
			o[a*n*z+state*z+hearLeft] = 0.5
			o[a*n*z+state*z+hearRight] = 0.5
		}
	}

	r3 := 3
	rz := 2
	zIdx := []int32{
		0, 1,
		0, -1,
		1, -1,
	}
	b := []float64{
		0.5, 0.5,
		1, 0,
		1, 0,
	}

	pomdp, err := model.NewPOMDP(*mdp, z, r3, rz, o, zIdx, b)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	rng := rand.New(rand.NewSource(1))
	initialGamma := make([]float64, r3*n)

	policy, err := perseus.Complete(pomdp, rng, initialGamma)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	render.AlphaVectors(os.Stdout, policy, func(i int) float64 {
		v := policy.Vector(i)
		return 0.5*v[0] + 0.5*v[1]
	})

	var maxSupport int
	beliefs, err := expand.Random(pomdp, 20, &maxSupport, rng)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Printf("expanded %d beliefs, max support %d\n", len(beliefs), maxSupport)
}
