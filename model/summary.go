package model

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Summary holds posterior means and standard deviations estimated from a
// trace.
type Summary struct {
	Draws      int
	BetaMean   []float64
	BetaStdDev []float64
	Sigma2Mean float64
	Sigma2SD   float64
}

// Summarize computes per-coefficient and variance moments of a trace. A
// single draw has a NaN standard deviation.
func Summarize(t *Trace) (*Summary, error) {
	if t == nil || t.Len() < 1 {
		return nil, errors.New("Can not summarize an empty trace")
	}

	s := &Summary{
		Draws:      t.Len(),
		BetaMean:   make([]float64, t.P),
		BetaStdDev: make([]float64, t.P),
	}

	col := make([]float64, t.Len())
	for j := 0; j < t.P; j++ {
		for i, b := range t.Beta {
			if len(b) != t.P {
				return nil, errors.Errorf("Draw %d has %d coefficients, expected %d", i, len(b), t.P)
			}
			col[i] = b[j]
		}
		s.BetaMean[j], s.BetaStdDev[j] = stat.MeanStdDev(col, nil)
	}

	s.Sigma2Mean, s.Sigma2SD = stat.MeanStdDev(t.Sigma2, nil)

	return s, nil
}
