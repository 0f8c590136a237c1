package sampler

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/CraigKelly/linreg-gibbs/model"
)

// ErrNoModel is returned when a sampler is created without a model
var ErrNoModel = errors.New("No model supplied")

// Gibbs samples the posterior of a Bayesian linear regression with a
// Normal-Inverse-Gamma prior. Each iteration draws beta | sigma2, y from
// Normal(mn, sigma2 * Vn) and then sigma2 | beta, y from
// InverseGamma(an, bn).
//
// Vn = (XᵀX + V0⁻¹)⁻¹ and mn = Vn (Xᵀy + V0⁻¹ m0) do not depend on the chain
// state, so they are computed once by NewGibbs along with their Cholesky
// factorization. Each iteration rescales that factorization by sigma2, which
// gives the same factor as factorizing sigma2 * Vn directly.
type Gibbs struct {
	Observer Observer // Optional: told about each completed iteration

	mod  *model.Model
	draw Drawer

	v0Inv  *mat.SymDense // V0⁻¹
	xty    *mat.VecDense // Xᵀy
	vn     *mat.SymDense // Posterior covariance basis Vn
	mn     *mat.VecDense // Posterior mean mn
	vnChol mat.Cholesky  // Vn = U'U
	an     float64       // a0 + n/2
}

// NewGibbs checks the model and precomputes everything that is constant over
// a chain. Shape and hyperparameter problems are reported before any linear
// algebra happens; no randomness is consumed here.
func NewGibbs(m *model.Model, d Drawer) (*Gibbs, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	if d == nil {
		return nil, errors.New("No random source supplied")
	}

	err := m.Check()
	if err != nil {
		return nil, err
	}

	g := &Gibbs{
		mod:  m.Clone(),
		draw: d,
	}

	err = g.precompute()
	if err != nil {
		return nil, err
	}

	return g, nil
}

// PosteriorMean returns a copy of mn, the mean of beta | sigma2, y
func (g *Gibbs) PosteriorMean() *mat.VecDense {
	return mat.VecDenseCopyOf(g.mn)
}

// PosteriorCov returns a copy of Vn: beta | sigma2, y has covariance sigma2 * Vn
func (g *Gibbs) PosteriorCov() *mat.SymDense {
	cp := mat.NewSymDense(g.vn.SymmetricDim(), nil)
	cp.CopySym(g.vn)
	return cp
}

func (g *Gibbs) precompute() error {
	m := g.mod
	p := m.P
	prior := m.Prior

	var v0Chol mat.Cholesky
	if ok := v0Chol.Factorize(prior.Cov); !ok {
		return errors.Wrap(ErrNumerical, "Prior covariance V0 is not positive definite")
	}
	g.v0Inv = mat.NewSymDense(p, nil)
	if err := v0Chol.InverseTo(g.v0Inv); err != nil {
		return errors.Wrapf(ErrNumerical, "Could not invert prior covariance V0: %v", err)
	}

	xtx := mat.NewSymDense(p, nil)
	xtx.SymOuterK(1, m.X.T())

	g.xty = mat.NewVecDense(p, nil)
	g.xty.MulVec(m.X.T(), m.Y)

	// Posterior precision basis: XᵀX + V0⁻¹
	prec := mat.NewSymDense(p, nil)
	prec.AddSym(xtx, g.v0Inv)

	var precChol mat.Cholesky
	if ok := precChol.Factorize(prec); !ok {
		return errors.Wrap(ErrNumerical, "XᵀX + V0⁻¹ is not positive definite")
	}
	g.vn = mat.NewSymDense(p, nil)
	if err := precChol.InverseTo(g.vn); err != nil {
		return errors.Wrapf(ErrNumerical, "Could not invert XᵀX + V0⁻¹: %v", err)
	}

	rhs := mat.NewVecDense(p, nil)
	rhs.MulVec(g.v0Inv, prior.Mean)
	rhs.AddVec(rhs, g.xty)

	g.mn = mat.NewVecDense(p, nil)
	g.mn.MulVec(g.vn, rhs)

	if ok := g.vnChol.Factorize(g.vn); !ok {
		return errors.Wrap(ErrNumerical, "Cholesky factorization of Vn failed")
	}

	g.an = prior.Shape + float64(m.N)/2.0

	return nil
}

// Run advances a fresh chain from (m0, 1.0) for opts.Draws iterations and
// returns the retained draws. opts.Seed is ignored: the chain uses the Drawer
// given to NewGibbs. Any numerical failure aborts the whole run and no draws
// are returned. The context is checked between iterations; a cancelled run
// returns the context's error and no draws.
func (g *Gibbs) Run(ctx context.Context, opts Options) (*model.Trace, error) {
	err := opts.Check()
	if err != nil {
		return nil, err
	}

	trace := model.NewTrace(g.mod.P, opts.Retained())
	ch := newChain(g.mod.Prior.Mean, g.mod.N)

	for i := 0; i < opts.Draws; i++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if err = g.betaStep(ch); err != nil {
			return nil, errors.Wrapf(err, "Chain failed on iteration %d (%v)", i, BetaStep)
		}
		if err = g.sigma2Step(ch); err != nil {
			return nil, errors.Wrapf(err, "Chain failed on iteration %d (%v)", i, Sigma2Step)
		}

		keep := opts.keep(i)
		if keep {
			trace.Add(i, ch.beta, ch.sigma2)
		}
		if g.Observer != nil {
			g.Observer.Iteration(i, ch.sigma2, keep)
		}
	}

	return trace, nil
}

// betaStep draws beta ~ Normal(mn, sigma2 * Vn) as mn + L z where L is the
// lower Cholesky factor of sigma2 * Vn and z is standard normal.
func (g *Gibbs) betaStep(ch *chain) error {
	if !(ch.sigma2 > 0) || math.IsInf(ch.sigma2, 1) {
		return errors.Wrapf(ErrNumerical, "Can not factorize sigma2 * Vn with sigma2=%v", ch.sigma2)
	}

	ch.chol.Scale(ch.sigma2, &g.vnChol)
	ch.chol.LTo(ch.lower)

	g.draw.StdNormal(ch.z)

	ch.beta.MulVec(ch.lower, ch.zv)
	ch.beta.AddVec(ch.beta, g.mn)

	if !finiteVec(ch.beta) {
		return errors.Wrapf(ErrNumerical, "Non-finite beta draw (sigma2=%v)", ch.sigma2)
	}
	return nil
}

// sigma2Step draws sigma2 ~ InverseGamma(an, bn) with
// bn = b0 + (r·r + (beta - m0)ᵀ V0⁻¹ (beta - m0)) / 2 and r = y - X beta.
func (g *Gibbs) sigma2Step(ch *chain) error {
	m := g.mod

	ch.resid.MulVec(m.X, ch.beta)
	ch.resid.SubVec(m.Y, ch.resid)

	ch.offset.SubVec(ch.beta, m.Prior.Mean)

	bn := m.Prior.Scale + 0.5*(mat.Dot(ch.resid, ch.resid)+mat.Inner(ch.offset, g.v0Inv, ch.offset))
	if !(bn > 0) || math.IsInf(bn, 1) {
		return errors.Wrapf(ErrNumerical, "Inverse gamma scale bn=%v is not usable", bn)
	}

	s := g.draw.InverseGamma(g.an, bn)
	if !(s > 0) || math.IsInf(s, 1) {
		return errors.Wrapf(ErrNumerical, "Inverse gamma draw %v is not a valid variance", s)
	}

	ch.sigma2 = s
	return nil
}
