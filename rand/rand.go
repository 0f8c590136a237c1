package rand

import (
	"time"

	"github.com/seehuhn/mt19937"
	"gonum.org/v1/gonum/stat/distuv"
)

// A Generator is a single, seeded Mersenne twister (MT19937-64) stream. A
// Generator is owned by exactly one chain: it is NOT safe for concurrent use,
// and sharing one between chains destroys reproducibility.
type Generator struct {
	mt *mt19937.MT19937
}

// NewGenerator returns a new PRNG seeded with the given seed
func NewGenerator(seed int64) (*Generator, error) {
	mt := mt19937.New()
	mt.Seed(seed)
	return &Generator{mt: mt}, nil
}

// NewClockGenerator seeds a new generator from the current time. Use it when
// the caller did not ask for a specific seed.
func NewClockGenerator() (*Generator, int64, error) {
	seed := time.Now().UnixNano()
	gen, err := NewGenerator(seed)
	return gen, seed, err
}

// Uint64 makes Generator a math/rand/v2 Source, which is what gonum's
// distributions expect.
func (g *Generator) Uint64() uint64 {
	return g.mt.Uint64()
}

// Int63 provides the same interface as Go's math/rand
func (g *Generator) Int63() int64 {
	return g.mt.Int63()
}

// Int63n is a copy of the current Go code
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}

// Float64 is uniform on [0, 1) with 53 bits of precision. model.Simulate
// uses it for predictor values.
func (g *Generator) Float64() float64 {
	// See the Go lang comments for Rand Float64 implementation for details
	return float64(g.Int63n(1<<53)) / (1 << 53)
}

// StdNormal fills dst with independent draws from N(0, 1)
func (g *Generator) StdNormal(dst []float64) {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: g}
	for i := range dst {
		dst[i] = norm.Rand()
	}
}

// InverseGamma draws once from InverseGamma(shape, scale). Note that scale
// here is the same as the rate of the Gamma distribution whose reciprocal we
// are sampling, which is exactly gonum's parameterization.
func (g *Generator) InverseGamma(shape, scale float64) float64 {
	return distuv.InverseGamma{Alpha: shape, Beta: scale, Src: g}.Rand()
}
