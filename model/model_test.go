package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func vanillaModel() *Model {
	return &Model{
		Name: "TestingModel",
		N:    3,
		P:    2,
		X:    mat.NewDense(3, 2, []float64{1, 0.5, 1, 1.5, 1, 3.0}),
		Y:    mat.NewVecDense(3, []float64{1.1, 2.0, 3.2}),
		Prior: &Prior{
			Mean:  mat.NewVecDense(2, []float64{0, 0}),
			Cov:   mat.NewSymDense(2, []float64{10, 0, 0, 10}),
			Shape: 2.0,
			Scale: 1.0,
		},
	}
}

func TestModelCheck(t *testing.T) {
	assert := assert.New(t)

	// Make sure we have a valid model before we start breaking things
	m := vanillaModel()
	assert.NoError(m.Check())

	shapeCases := []func(m *Model){
		func(m *Model) { m.N = 4 },
		func(m *Model) { m.P = 3 },
		func(m *Model) { m.N = 0 },
		func(m *Model) { m.X = nil },
		func(m *Model) { m.Y = mat.NewVecDense(2, nil) },
		func(m *Model) { m.Prior = nil },
		func(m *Model) { m.Prior.Mean = mat.NewVecDense(3, nil) },
		func(m *Model) { m.Prior.Cov = mat.NewSymDense(1, []float64{1}) },
	}
	for i, breakIt := range shapeCases {
		m = vanillaModel()
		breakIt(m)
		err := m.Check()
		assert.True(errors.Is(err, ErrShapeMismatch), "Case %d: expected shape mismatch, got %v", i, err)
	}

	hyperCases := []func(m *Model){
		func(m *Model) { m.Prior.Shape = 0 },
		func(m *Model) { m.Prior.Shape = -1 },
		func(m *Model) { m.Prior.Scale = 0 },
		func(m *Model) { m.Prior.Scale = -0.5 },
	}
	for i, breakIt := range hyperCases {
		m = vanillaModel()
		breakIt(m)
		err := m.Check()
		assert.True(errors.Is(err, ErrInvalidHyperparameter), "Case %d: expected bad hyperparameter, got %v", i, err)
	}
}

func TestModelClone(t *testing.T) {
	assert := assert.New(t)

	m := vanillaModel()
	cp := m.Clone()
	assert.NoError(cp.Check())

	// Changing the clone must not touch the original
	cp.X.Set(0, 0, 99)
	cp.Y.SetVec(0, 99)
	cp.Prior.Mean.SetVec(0, 99)
	cp.Prior.Cov.SetSym(0, 1, 99)
	cp.Prior.Shape = 99

	assert.Equal(1.0, m.X.At(0, 0))
	assert.Equal(1.1, m.Y.AtVec(0))
	assert.Equal(0.0, m.Prior.Mean.AtVec(0))
	assert.Equal(0.0, m.Prior.Cov.At(0, 1))
	assert.Equal(2.0, m.Prior.Shape)
}
