package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Source is the randomness Simulate needs; rand.Generator is one
type Source interface {
	Float64() float64
	StdNormal(dst []float64)
}

// DiffusePrior is a weak prior for p coefficients: m0 = 0, V0 = 1e6 I and
// a0 = b0 = 0.01.
func DiffusePrior(p int) *Prior {
	cov := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		cov.SetSym(i, i, 1e6)
	}
	return &Prior{
		Mean:  mat.NewVecDense(p, nil),
		Cov:   cov,
		Shape: 0.01,
		Scale: 0.01,
	}
}

// Simulate draws n observations of y = X beta + N(0, noiseSD^2). Column 0 of
// X is an intercept of ones and every other column is uniform on [lo, hi).
// The noise is drawn before X. The model gets DiffusePrior.
func Simulate(src Source, n int, beta []float64, noiseSD, lo, hi float64) (*Model, error) {
	p := len(beta)
	if n < 1 || p < 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "Simulation needs n >= 1 and p >= 1, found n=%d p=%d", n, p)
	}
	if !(noiseSD >= 0) || math.IsInf(noiseSD, 1) {
		return nil, errors.Errorf("Noise standard deviation %v must be finite and >= 0", noiseSD)
	}
	if !(hi > lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errors.Errorf("Predictor range [%v, %v) is empty or unbounded", lo, hi)
	}

	noise := make([]float64, n)
	src.StdNormal(noise)

	b := mat.NewVecDense(p, append([]float64(nil), beta...))
	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1.0)
		for j := 1; j < p; j++ {
			x.Set(i, j, lo+(hi-lo)*src.Float64())
		}
		y.SetVec(i, mat.Dot(x.RowView(i), b)+noiseSD*noise[i])
	}

	return &Model{
		Name:  fmt.Sprintf("simulated-%dx%d", n, p),
		N:     n,
		P:     p,
		X:     x,
		Y:     y,
		Prior: DiffusePrior(p),
	}, nil
}
