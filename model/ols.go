package model

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LeastSquares returns the ordinary least squares estimate (XᵀX)⁻¹Xᵀy for
// the model's data. It ignores the prior, which makes it the reference a
// posterior mean under a diffuse prior should approach.
func LeastSquares(m *Model) (*mat.VecDense, error) {
	if m.X == nil || m.Y == nil {
		return nil, errors.Wrap(ErrShapeMismatch, "Model is missing X or y")
	}
	rows, cols := m.X.Dims()
	if rows != m.Y.Len() {
		return nil, errors.Wrapf(ErrShapeMismatch, "X has %d rows but y has length %d", rows, m.Y.Len())
	}

	xtx := mat.NewSymDense(cols, nil)
	xtx.SymOuterK(1, m.X.T())

	xty := mat.NewVecDense(cols, nil)
	xty.MulVec(m.X.T(), m.Y)

	var chol mat.Cholesky
	if ok := chol.Factorize(xtx); !ok {
		return nil, errors.Wrap(ErrNumerical, "XᵀX is not positive definite (is X full rank?)")
	}

	beta := mat.NewVecDense(cols, nil)
	if err := chol.SolveVecTo(beta, xty); err != nil {
		return nil, errors.Wrapf(ErrNumerical, "Least squares solve failed: %v", err)
	}

	return beta, nil
}
