// Package render prints planner outputs to a terminal with aurora color
// coding.
package render

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/kuri-kustar/nova/model"
)

// ValueFunction prints one line per state: the state index, its value in
// blue, and its greedy action in green.
func ValueFunction(w io.Writer, vf *model.ValueFunction) {
	for s := 0; s < vf.N; s++ {
		fmt.Fprintf(w, "s%-4d v=%s pi=%s\n",
			s,
			aurora.Blue(fmt.Sprintf("%8.4f", vf.V[s])),
			aurora.Green(vf.Pi[s]),
		)
	}
}

// Grid prints a ValueFunction laid out as a rows x cols grid, coloring the
// current state green and every other cell blue, for domains whose states
// are a flattened grid (row*cols + col).
func Grid(w io.Writer, vf *model.ValueFunction, rows, cols, current int) {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			s := r*cols + c
			cell := fmt.Sprintf("%6.2f", vf.V[s])
			if s == current {
				fmt.Fprint(w, aurora.Green(cell))
			} else {
				fmt.Fprint(w, aurora.Blue(cell))
			}
			fmt.Fprint(w, aurora.White("|"))
		}
		fmt.Fprintln(w)
	}
}

// AlphaVectors prints each alpha-vector's action label and its value at
// one reference belief, supplied by dotAt.
func AlphaVectors(w io.Writer, av *model.AlphaVectors, dotAt func(i int) float64) {
	for i := 0; i < av.R; i++ {
		fmt.Fprintf(w, "alpha%-4d pi=%s value=%s\n",
			i,
			aurora.Green(av.Pi[i]),
			aurora.Blue(fmt.Sprintf("%8.4f", dotAt(i))),
		)
	}
}
