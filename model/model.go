package model

import (
	"io/ioutil"
	"math"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Error kinds. Every error we return for a bad model or a failed
// computation wraps one of these, so callers can use errors.Is.
var (
	ErrShapeMismatch         = errors.New("Shape mismatch")
	ErrInvalidHyperparameter = errors.New("Invalid hyperparameter")
	ErrNumerical             = errors.New("Numerical failure")
)

// Reader implementors instantiate a model from a byte stream and apply a
// prior from a second byte stream.
type Reader interface {
	ReadModel(data []byte) (*Model, error)
	ApplyPrior(data []byte, m *Model) error
}

// Prior is the conjugate Normal-Inverse-Gamma prior: beta | sigma2 is
// Normal(Mean, sigma2 * Cov) and sigma2 is InverseGamma(Shape, Scale).
type Prior struct {
	Mean  *mat.VecDense // m0 - length P
	Cov   *mat.SymDense // V0 - P x P, symmetric positive definite
	Shape float64       // a0 > 0
	Scale float64       // b0 > 0
}

// Clone returns a deep copy of the prior
func (p *Prior) Clone() *Prior {
	cp := &Prior{
		Shape: p.Shape,
		Scale: p.Scale,
	}
	if p.Mean != nil {
		cp.Mean = mat.VecDenseCopyOf(p.Mean)
	}
	if p.Cov != nil {
		cp.Cov = mat.NewSymDense(p.Cov.SymmetricDim(), nil)
		cp.Cov.CopySym(p.Cov)
	}
	return cp
}

// Model is a linear regression problem: a design matrix, a response and the
// prior we sample under. N and P are stated explicitly and must agree with
// every matrix and vector.
type Model struct {
	Name  string        // Model name
	N     int           // Observation count
	P     int           // Predictor count
	X     *mat.Dense    // Design matrix, N x P
	Y     *mat.VecDense // Response, length N
	Prior *Prior        // Prior hyperparameters
}

// Clone returns a deep copy of the current model.
func (m *Model) Clone() *Model {
	cp := &Model{
		Name: m.Name,
		N:    m.N,
		P:    m.P,
	}
	if m.X != nil {
		cp.X = mat.DenseCopyOf(m.X)
	}
	if m.Y != nil {
		cp.Y = mat.VecDenseCopyOf(m.Y)
	}
	if m.Prior != nil {
		cp.Prior = m.Prior.Clone()
	}
	return cp
}

// NewModelFromFile reads the model in filename and the prior in
// filename + ".prior".
func NewModelFromFile(r Reader, filename string) (*Model, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ model from %s", filename)
	}

	m, err := r.ReadModel(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE model")
	}

	// Name the model from the file
	var ext = filepath.Ext(filename)
	m.Name = filename[0 : len(filename)-len(ext)]

	err = m.ApplyPriorFromFile(r, filename+".prior")
	if err != nil {
		return nil, err
	}

	err = m.Check()
	if err != nil {
		return nil, errors.Wrapf(err, "Model %s is not valid", m.Name)
	}

	return m, nil
}

// NewModelFromBuffer creates a model from pre-read model and prior data
func NewModelFromBuffer(r Reader, data []byte, priorData []byte) (*Model, error) {
	m, err := r.ReadModel(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE model")
	}

	err = r.ApplyPrior(priorData, m)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE prior")
	}

	err = m.Check()
	if err != nil {
		return nil, errors.Wrapf(err, "Parsed model is not valid")
	}

	return m, nil
}

// ApplyPriorFromFile will read, parse, and apply the prior, replacing any
// prior already on the model.
func (m *Model) ApplyPriorFromFile(r Reader, priorFilename string) error {
	data, err := ioutil.ReadFile(priorFilename)
	if err != nil {
		return errors.Wrapf(err, "Could not READ model prior from %s", priorFilename)
	}

	err = r.ApplyPrior(data, m)
	if err != nil {
		return errors.Wrapf(err, "Could not apply prior to model %s", m.Name)
	}

	return nil
}

// Check returns an error if there is a problem with the model. Dimension
// problems wrap ErrShapeMismatch and bad prior parameters wrap
// ErrInvalidHyperparameter. Check does no linear algebra: a prior covariance
// that is not positive definite is only found when sampling starts.
func (m *Model) Check() error {
	if m.N < 1 || m.P < 1 {
		return errors.Wrapf(ErrShapeMismatch, "Model needs n >= 1 and p >= 1, found n=%d p=%d", m.N, m.P)
	}
	if m.X == nil || m.Y == nil {
		return errors.Wrap(ErrShapeMismatch, "Model is missing X or y")
	}

	rows, cols := m.X.Dims()
	if rows != m.N || cols != m.P {
		return errors.Wrapf(ErrShapeMismatch, "X is %dx%d, expected %dx%d", rows, cols, m.N, m.P)
	}
	if m.Y.Len() != m.N {
		return errors.Wrapf(ErrShapeMismatch, "y has length %d, expected %d", m.Y.Len(), m.N)
	}

	pr := m.Prior
	if pr == nil || pr.Mean == nil || pr.Cov == nil {
		return errors.Wrap(ErrShapeMismatch, "Model is missing a prior mean or covariance")
	}
	if pr.Mean.Len() != m.P {
		return errors.Wrapf(ErrShapeMismatch, "Prior mean has length %d, expected %d", pr.Mean.Len(), m.P)
	}
	if pr.Cov.SymmetricDim() != m.P {
		return errors.Wrapf(ErrShapeMismatch, "Prior covariance is %dx%d, expected %dx%d",
			pr.Cov.SymmetricDim(), pr.Cov.SymmetricDim(), m.P, m.P)
	}

	if !(pr.Shape > 0) || math.IsInf(pr.Shape, 1) {
		return errors.Wrapf(ErrInvalidHyperparameter, "Prior shape a0=%v must be > 0", pr.Shape)
	}
	if !(pr.Scale > 0) || math.IsInf(pr.Scale, 1) {
		return errors.Wrapf(ErrInvalidHyperparameter, "Prior scale b0=%v must be > 0", pr.Scale)
	}

	return nil
}
