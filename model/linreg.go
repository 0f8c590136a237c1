package model

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LINREG is the header token for our model file format
const LINREG = "LINREG"

// LinRegReader reads our plain text regression format. A model file is
//
//	LINREG
//	n p
//	x11 ... x1p    (n rows of the design matrix)
//	y1 ... yn
//
// and the matching prior file is
//
//	p
//	m0             (p values)
//	V0             (p*p values, row major, symmetric)
//	a0 b0
//
// Whitespace (including newlines) only separates tokens. Blank lines and lines
// starting with 'c' are comments.
type LinRegReader struct {
}

// Preprocessor for our files: drop lines that are blank or comments. Return
// the new buffer and the count of "real" lines found.
func linregPreprocess(data []byte) (string, int) {
	lines := strings.Split(string(data), "\n")

	newPos := 0
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if len(ln) < 1 || ln[0] == 'c' {
			continue // Empty or comment: skip
		}
		lines[newPos] = ln
		newPos++
	}

	return strings.Join(lines[:newPos], "\n"), newPos
}

// ReadModel implements the model.Reader interface. The returned model has no
// prior: use ApplyPrior.
func (r LinRegReader) ReadModel(data []byte) (*Model, error) {
	text, lineCount := linregPreprocess(data)
	if lineCount < 1 {
		return nil, errors.Errorf("No lines found in file")
	}
	fr := NewFieldReader(text)

	// Smallest possible model: header, n, p, one x and one y
	if len(fr.Fields) < 5 {
		return nil, errors.Errorf("Invalid data: only %d fields found (<5)", len(fr.Fields))
	}

	header, err := fr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "Error reading model file on header")
	}
	if header != LINREG {
		return nil, errors.Errorf("Unknown model type %v", header)
	}

	m := &Model{}

	m.N, err = fr.ReadInt()
	if err != nil {
		return nil, errors.Wrap(err, "Error reading observation count")
	}
	m.P, err = fr.ReadInt()
	if err != nil {
		return nil, errors.Wrap(err, "Error reading predictor count")
	}
	if m.N < 1 || m.P < 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "Invalid dimensions n=%d p=%d", m.N, m.P)
	}
	if m.P > math.MaxInt/m.N {
		return nil, errors.Wrapf(ErrShapeMismatch, "Design matrix %dx%d is too large", m.N, m.P)
	}

	xs, err := fr.ReadFloats(m.N * m.P)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading %dx%d design matrix", m.N, m.P)
	}
	ys, err := fr.ReadFloats(m.N)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading response of length %d", m.N)
	}
	if fr.Remaining() > 0 {
		return nil, errors.Errorf("Found %d unexpected trailing values", fr.Remaining())
	}

	m.X = mat.NewDense(m.N, m.P, xs)
	m.Y = mat.NewVecDense(m.N, ys)

	// We leave it to our caller to perform final checking
	return m, nil
}

// ApplyPrior is part of the reader interface - read the prior file and set it
// on the model.
func (r LinRegReader) ApplyPrior(data []byte, m *Model) error {
	text, lineCount := linregPreprocess(data)
	if lineCount < 1 {
		return errors.Errorf("Invalid data buffer: there is no data")
	}
	fr := NewFieldReader(text)

	p, err := fr.ReadInt()
	if err != nil {
		return errors.Wrap(err, "Error reading prior dimension")
	}
	if p != m.P {
		return errors.Wrapf(ErrShapeMismatch, "Prior dimension %d != model predictor count %d", p, m.P)
	}

	mean, err := fr.ReadFloats(p)
	if err != nil {
		return errors.Wrap(err, "Error reading prior mean")
	}
	cov, err := fr.ReadFloats(p * p)
	if err != nil {
		return errors.Wrap(err, "Error reading prior covariance")
	}

	// SymDense only looks at the upper triangle, so refuse to quietly drop
	// the lower one
	const symTol = 1e-12
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			a, b := cov[i*p+j], cov[j*p+i]
			if math.Abs(a-b) > symTol*math.Max(1, math.Max(math.Abs(a), math.Abs(b))) {
				return errors.Wrapf(ErrInvalidHyperparameter, "Prior covariance not symmetric at (%d,%d): %v != %v", i, j, a, b)
			}
		}
	}

	ab, err := fr.ReadFloats(2)
	if err != nil {
		return errors.Wrap(err, "Error reading prior shape and scale")
	}
	if fr.Remaining() > 0 {
		return errors.Errorf("Found %d unexpected trailing values in prior", fr.Remaining())
	}

	m.Prior = &Prior{
		Mean:  mat.NewVecDense(p, mean),
		Cov:   mat.NewSymDense(p, cov),
		Shape: ab[0],
		Scale: ab[1],
	}

	return nil
}

// WriteLinReg writes the model's data in the format ReadModel reads. The
// prior is not written: see WriteLinRegPrior.
func WriteLinReg(w io.Writer, m *Model) error {
	if m.X == nil || m.Y == nil {
		return errors.Wrap(ErrShapeMismatch, "Model is missing X or y")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "c %s\n%s\n%d %d\n", m.Name, LINREG, m.N, m.P)
	for i := 0; i < m.N; i++ {
		writeFloats(&sb, mat.Row(nil, i, m.X))
	}
	writeFloats(&sb, mat.Col(nil, 0, m.Y))

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteLinRegPrior writes a prior in the format ApplyPrior reads
func WriteLinRegPrior(w io.Writer, pr *Prior) error {
	if pr == nil || pr.Mean == nil || pr.Cov == nil {
		return errors.Wrap(ErrShapeMismatch, "Prior is missing a mean or covariance")
	}
	p := pr.Mean.Len()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n", p)
	writeFloats(&sb, mat.Col(nil, 0, pr.Mean))
	for i := 0; i < p; i++ {
		writeFloats(&sb, mat.Row(nil, i, pr.Cov))
	}
	writeFloats(&sb, []float64{pr.Shape, pr.Scale})

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeFloats(sb *strings.Builder, vals []float64) {
	for i, v := range vals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%.17g", v)
	}
	sb.WriteByte('\n')
}
