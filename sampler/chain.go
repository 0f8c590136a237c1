package sampler

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Options controls the length of a chain and which iterations are kept.
// Iteration i (0-based) is kept iff i >= BurnIn and (i - BurnIn) % Thinning
// is 0.
type Options struct {
	Draws    int    // Total iterations to run (n_draws), >= 1
	BurnIn   int    // Leading iterations to discard, >= 0
	Thinning int    // Keep every Thinning-th draw after burn in, >= 1
	Seed     *int64 // Only used by Run: nil means seed from the clock
}

// DefaultOptions keeps every one of draws iterations
func DefaultOptions(draws int) Options {
	return Options{
		Draws:    draws,
		BurnIn:   0,
		Thinning: 1,
	}
}

// WithSeed returns a copy of the options using the given seed
func (o Options) WithSeed(seed int64) Options {
	o.Seed = &seed
	return o
}

// Check returns an error wrapping ErrInvalidHyperparameter for options we
// can not run with. Note that BurnIn >= Draws is valid: it just keeps nothing.
func (o Options) Check() error {
	if o.Draws < 1 {
		return errors.Wrapf(ErrInvalidHyperparameter, "Draw count %d must be >= 1", o.Draws)
	}
	if o.BurnIn < 0 {
		return errors.Wrapf(ErrInvalidHyperparameter, "Burn in %d must be >= 0", o.BurnIn)
	}
	if o.Thinning < 1 {
		return errors.Wrapf(ErrInvalidHyperparameter, "Thinning %d must be >= 1", o.Thinning)
	}
	return nil
}

// Retained is the number of draws a chain with these options keeps:
// ceil((Draws - BurnIn) / Thinning), or 0 if BurnIn >= Draws.
func (o Options) Retained() int {
	if o.BurnIn >= o.Draws || o.Thinning < 1 {
		return 0
	}
	// ceil(post / Thinning) without overflowing for huge Thinning
	post := o.Draws - o.BurnIn
	return 1 + (post-1)/o.Thinning
}

// keep reports whether iteration i is retained
func (o Options) keep(i int) bool {
	return i >= o.BurnIn && (i-o.BurnIn)%o.Thinning == 0
}

// chain is the mutable state of one run: the current (beta, sigma2) pair and
// the scratch space used to update it. Nothing here is shared between runs.
type chain struct {
	beta   *mat.VecDense // Current coefficients
	sigma2 float64       // Current variance, always > 0

	z      []float64     // Standard normal draws
	zv     *mat.VecDense // Vector view of z
	chol   mat.Cholesky  // Factorization of sigma2 * Vn
	lower  *mat.TriDense // Lower factor L of sigma2 * Vn
	resid  *mat.VecDense // y - X beta
	offset *mat.VecDense // beta - m0
}

// newChain returns a chain at its starting state (m0, 1.0)
func newChain(m0 *mat.VecDense, n int) *chain {
	p := m0.Len()
	z := make([]float64, p)
	return &chain{
		beta:   mat.VecDenseCopyOf(m0),
		sigma2: 1.0,
		z:      z,
		zv:     mat.NewVecDense(p, z),
		lower:  &mat.TriDense{},
		resid:  mat.NewVecDense(n, nil),
		offset: mat.NewVecDense(p, nil),
	}
}

// finiteVec returns false if any element is NaN or infinite
func finiteVec(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		x := v.AtVec(i)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
