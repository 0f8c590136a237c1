package sampler

import (
	"context"

	"github.com/CraigKelly/linreg-gibbs/model"
	"github.com/CraigKelly/linreg-gibbs/rand"
)

// Error kinds returned by the sampler. They are the same values as the
// model package's, so errors.Is works with either name.
var (
	ErrShapeMismatch         = model.ErrShapeMismatch
	ErrInvalidHyperparameter = model.ErrInvalidHyperparameter
	ErrNumerical             = model.ErrNumerical
)

// A Drawer supplies the only randomness a chain needs. rand.Generator is the
// real implementation; a Drawer must be owned by a single chain.
type Drawer interface {
	StdNormal(dst []float64)                   // Fill dst with iid N(0,1) draws
	InverseGamma(shape, scale float64) float64 // One draw from InverseGamma(shape, scale)
}

// An Observer is told about every completed iteration and the variance it
// drew. It is called from the sampling loop, so it should be cheap and must
// not block.
type Observer interface {
	Iteration(i int, sigma2 float64, retained bool)
}

// Step is one half of a Gibbs iteration
type Step int

// The two conditional draws of an iteration, in the order they happen
const (
	BetaStep Step = iota
	Sigma2Step
)

func (s Step) String() string {
	switch s {
	case BetaStep:
		return "BETA_STEP"
	case Sigma2Step:
		return "SIGMA2_STEP"
	}
	return "UNKNOWN_STEP"
}

// Run is the one call version of the sampler: it seeds a new generator
// (from the clock when opts.Seed is nil), runs a single chain over m and
// returns the retained draws.
func Run(m *model.Model, opts Options) (*model.Trace, error) {
	// Check everything before we create the generator so a bad call never
	// touches the random stream.
	if m == nil {
		return nil, ErrNoModel
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	if err := opts.Check(); err != nil {
		return nil, err
	}

	var gen *rand.Generator
	var err error
	if opts.Seed != nil {
		gen, err = rand.NewGenerator(*opts.Seed)
	} else {
		gen, _, err = rand.NewClockGenerator()
	}
	if err != nil {
		return nil, err
	}

	g, err := NewGibbs(m, gen)
	if err != nil {
		return nil, err
	}

	return g.Run(context.Background(), opts)
}
