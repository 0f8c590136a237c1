package model

import (
	"math"

	"github.com/pkg/errors"
)

// ErrorSuite represents the loss functions we use to compare an estimated
// coefficient vector against a reference (usually a posterior mean against
// the least squares solution).
type ErrorSuite struct {
	MeanAbsError float64
	MaxAbsError  float64
	RMSE         float64
	MaxRelError  float64 // Relative to |ref|, floored at 1e-12
}

// NewErrorSuite returns an ErrorSuite with all calculated error functions
func NewErrorSuite(est []float64, ref []float64) (*ErrorSuite, error) {
	if len(est) != len(ref) {
		return nil, errors.Wrapf(ErrShapeMismatch, "Coefficient count mismatch %d != %d", len(est), len(ref))
	}
	if len(est) < 1 {
		return nil, errors.Errorf("No coefficients to score")
	}

	const eps = 1e-12
	es := ErrorSuite{}

	for i, e := range est {
		d := math.Abs(e - ref[i])
		es.MeanAbsError += d
		es.MaxAbsError = math.Max(d, es.MaxAbsError)
		es.RMSE += d * d
		es.MaxRelError = math.Max(d/math.Max(math.Abs(ref[i]), eps), es.MaxRelError)
	}

	fc := float64(len(est))
	es.MeanAbsError /= fc
	es.RMSE = math.Sqrt(es.RMSE / fc)

	return &es, nil
}
