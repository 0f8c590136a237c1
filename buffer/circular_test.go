package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularFloat(t *testing.T) {
	assert := assert.New(t)

	cf := NewCircularFloat(4)
	assert.Equal(4, cf.BufSize)
	assert.Equal(0, cf.Count)
	assert.Equal(0.0, cf.Mean())
	assert.Equal([]float64{}, cf.Values())

	cf.Add(1)
	cf.Add(2)
	cf.Add(3)
	assert.Equal(3, cf.Count)
	assert.Equal([]float64{1, 2, 3}, cf.Values())
	assert.InDelta(2.0, cf.Mean(), 1e-12)

	cf.Add(4)
	assert.Equal(4, cf.Count)
	assert.Equal([]float64{1, 2, 3, 4}, cf.Values())

	// 1 2 3 4 add 5 add 6 => 5 6 3 4, oldest first is 3 4 5 6
	cf.Add(5)
	cf.Add(6)
	assert.Equal(4, cf.Count)
	assert.Equal(int64(6), cf.TotalSeen)
	assert.Equal([]float64{3, 4, 5, 6}, cf.Values())
	assert.InDelta(4.5, cf.Mean(), 1e-12)
}

func TestCircularFloatTiny(t *testing.T) {
	assert := assert.New(t)

	cf := NewCircularFloat(0)
	assert.Equal(1, cf.BufSize)

	cf.Add(7)
	cf.Add(8)
	assert.Equal([]float64{8}, cf.Values())
	assert.Equal(8.0, cf.Mean())
}
