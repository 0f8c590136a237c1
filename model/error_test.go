package model

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorSuiteBad(t *testing.T) {
	assert := assert.New(t)

	suite, err := NewErrorSuite([]float64{1.0}, []float64{1.0, 2.0})
	assert.Nil(suite)
	assert.True(errors.Is(err, ErrShapeMismatch))

	suite, err = NewErrorSuite([]float64{}, []float64{})
	assert.Nil(suite)
	assert.Error(err)
}

func TestErrorSuiteSame(t *testing.T) {
	assert := assert.New(t)

	suite, err := NewErrorSuite([]float64{1.5, -2.0, 0.0}, []float64{1.5, -2.0, 0.0})
	assert.NoError(err)
	assert.Equal(0.0, suite.MeanAbsError)
	assert.Equal(0.0, suite.MaxAbsError)
	assert.Equal(0.0, suite.RMSE)
	assert.Equal(0.0, suite.MaxRelError)
}

// Hand calculated: diffs are 0.5, 1.0, 2.5
func TestErrorSuiteMaxMean(t *testing.T) {
	assert := assert.New(t)

	est := []float64{1.5, 1.0, 7.5}
	ref := []float64{1.0, 2.0, 5.0}

	const eps = 1e-8

	suite, err := NewErrorSuite(est, ref)
	assert.NoError(err)
	assert.InEpsilon(4.0/3.0, suite.MeanAbsError, eps)
	assert.InEpsilon(2.5, suite.MaxAbsError, eps)
	assert.InEpsilon(math.Sqrt((0.25+1.0+6.25)/3.0), suite.RMSE, eps)
	assert.InEpsilon(0.5, suite.MaxRelError, eps)
}
