package model

// ValueFunction is the output of MDP-VI and LAO*: a value and a greedy
// action per state.
type ValueFunction struct {
	N, M int
	V    []float64
	Pi   []int
}

// AlphaVectors is the output of Perseus: a set of alpha-vectors (each of
// length N) with an action label per vector. R is the number of vectors
// actually in use, which may be less than the model's belief-set capacity.
type AlphaVectors struct {
	N, M int
	R    int
	Gamma []float64 // [R*N]
	Pi    []int     // [R]
}

// Vector returns alpha-vector i as a slice view into Gamma.
func (av *AlphaVectors) Vector(i int) []float64 {
	return av.Gamma[i*av.N : (i+1)*av.N]
}
