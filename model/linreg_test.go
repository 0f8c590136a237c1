package model

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const linregExample = `c A tiny intercept + slope model
LINREG
4 2
1 0.0
1 1.0
1 2.0
1 3.0

1.0 3.1 4.9 7.2
`

const linregPrior = `c prior for the example
2
0 0
100 0
0 100
0.01 0.01
`

func TestLinRegReadModel(t *testing.T) {
	assert := assert.New(t)

	r := LinRegReader{}
	m, err := NewModelFromBuffer(r, []byte(linregExample), []byte(linregPrior))
	assert.NoError(err)
	assert.NoError(m.Check())

	assert.Equal(4, m.N)
	assert.Equal(2, m.P)
	assert.Equal(2.0, m.X.At(2, 1))
	assert.Equal(7.2, m.Y.AtVec(3))

	assert.Equal(100.0, m.Prior.Cov.At(1, 1))
	assert.Equal(0.0, m.Prior.Cov.At(0, 1))
	assert.Equal(0.01, m.Prior.Shape)
	assert.Equal(0.01, m.Prior.Scale)
}

func TestLinRegBadModels(t *testing.T) {
	assert := assert.New(t)

	r := LinRegReader{}

	cases := []string{
		"",
		"c only comments",
		"NOPE\n1 1\n1\n1\n",
		"LINREG\n2 1\n1\n1\n",
		"LINREG\n1 1\n1\n1\n1\n",
		"LINREG\n0 1\n1\n1\n",
		"LINREG\n1 1\nfish\n1\n",
		"LINREG\n2 2\n1 2 3 4\n1 x\n",
	}

	for i, c := range cases {
		m, err := r.ReadModel([]byte(c))
		assert.Nil(m, "Case %d", i)
		assert.Error(err, "Case %d", i)
	}
}

func TestLinRegHugeDimensions(t *testing.T) {
	assert := assert.New(t)

	// n * p wraps around int
	m, err := LinRegReader{}.ReadModel([]byte("LINREG\n2 9223372036854775807\n1 2 3\n"))
	assert.Nil(m)
	assert.True(errors.Is(err, ErrShapeMismatch))
	assert.Contains(err.Error(), "too large")
}

func TestLinRegBadPriors(t *testing.T) {
	assert := assert.New(t)

	r := LinRegReader{}
	m, err := r.ReadModel([]byte(linregExample))
	assert.NoError(err)

	err = r.ApplyPrior([]byte("3\n0 0 0\n1 0 0 0 1 0 0 0 1\n1 1\n"), m)
	assert.True(errors.Is(err, ErrShapeMismatch))

	err = r.ApplyPrior([]byte("2\n0 0\n1 0.5 0.4 1\n1 1\n"), m)
	assert.True(errors.Is(err, ErrInvalidHyperparameter))

	err = r.ApplyPrior([]byte("2\n0 0\n1 0 0 1\n1\n"), m)
	assert.Error(err)

	err = r.ApplyPrior([]byte(""), m)
	assert.Error(err)

	// A valid prior with a0 <= 0 parses, but the model fails its check
	err = r.ApplyPrior([]byte("2\n0 0\n1 0 0 1\n0 1\n"), m)
	assert.NoError(err)
	assert.True(errors.Is(m.Check(), ErrInvalidHyperparameter))
}

func TestLinRegFromFile(t *testing.T) {
	assert := assert.New(t)

	dir, err := ioutil.TempDir("", "linreg")
	assert.NoError(err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "tiny.lr")
	assert.NoError(ioutil.WriteFile(filename, []byte(linregExample), 0644))

	// No prior file yet
	m, err := NewModelFromFile(LinRegReader{}, filename)
	assert.Nil(m)
	assert.Error(err)

	assert.NoError(ioutil.WriteFile(filename+".prior", []byte(linregPrior), 0644))
	m, err = NewModelFromFile(LinRegReader{}, filename)
	assert.NoError(err)
	assert.Equal(filepath.Join(dir, "tiny"), m.Name)
	assert.Equal(4, m.N)
}
