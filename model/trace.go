package model

import (
	"gonum.org/v1/gonum/mat"
)

// Trace is the ordered set of draws kept from one chain. Beta[i], Sigma2[i]
// and Iterations[i] all describe the same chain iteration.
type Trace struct {
	P          int         // Coefficient count
	Beta       [][]float64 // Coefficient draws, each of length P
	Sigma2     []float64   // Variance draws
	Iterations []int       // 0-based chain iteration of each draw
}

// NewTrace returns an empty trace with room for capacity draws
func NewTrace(p int, capacity int) *Trace {
	return &Trace{
		P:          p,
		Beta:       make([][]float64, 0, capacity),
		Sigma2:     make([]float64, 0, capacity),
		Iterations: make([]int, 0, capacity),
	}
}

// Len is the number of draws retained
func (t *Trace) Len() int {
	return len(t.Sigma2)
}

// Add appends a draw. beta is copied, so the caller is free to keep updating
// its own vector.
func (t *Trace) Add(iter int, beta mat.Vector, sigma2 float64) {
	b := make([]float64, beta.Len())
	for i := range b {
		b[i] = beta.AtVec(i)
	}

	t.Beta = append(t.Beta, b)
	t.Sigma2 = append(t.Sigma2, sigma2)
	t.Iterations = append(t.Iterations, iter)
}

// BetaMatrix returns the coefficient draws as a Len x P matrix. Returns nil
// for an empty trace (gonum does not allow zero sized matrices).
func (t *Trace) BetaMatrix() *mat.Dense {
	if t.Len() < 1 {
		return nil
	}

	m := mat.NewDense(t.Len(), t.P, nil)
	for i, b := range t.Beta {
		m.SetRow(i, b)
	}
	return m
}

// Sigma2Vector returns a copy of the variance draws as a vector. Returns nil
// for an empty trace.
func (t *Trace) Sigma2Vector() *mat.VecDense {
	if t.Len() < 1 {
		return nil
	}

	s := make([]float64, t.Len())
	copy(s, t.Sigma2)
	return mat.NewVecDense(len(s), s)
}
