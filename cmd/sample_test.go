package cmd

import (
	"bytes"
	"io/ioutil"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Roughly y = 1 + 2x
const lineModel = `LINREG
8 2
1 0
1 1
1 2
1 3
1 4
1 5
1 6
1 7
1.1 2.9 5.2 6.8 9.1 11.0 12.9 15.2
`

const linePrior = `2
0 0
1000 0
0 1000
0.01 0.01
`

// testParams writes the model files to dir and returns params with output
// captured in the returned buffer.
func testParams(t *testing.T, dir string) (*startupParams, *bytes.Buffer) {
	modelFile := filepath.Join(dir, "line.lr")
	if err := ioutil.WriteFile(modelFile, []byte(lineModel), 0644); err != nil {
		t.Fatalf("Could not write model: %v", err)
	}
	if err := ioutil.WriteFile(modelFile+".prior", []byte(linePrior), 0644); err != nil {
		t.Fatalf("Could not write prior: %v", err)
	}

	buf := &bytes.Buffer{}
	sp := &startupParams{
		modelFile:  modelFile,
		randomSeed: 3,
		seedSet:    true,
		draws:      500,
		burnIn:     50,
		thinning:   2,
		out:        log.New(buf, "", 0),
		trace:      log.New(ioutil.Discard, "", 0),
	}
	return sp, buf
}

func TestSampleCommand(t *testing.T) {
	assert := assert.New(t)

	dir, err := ioutil.TempDir("", "linreg-cmd")
	assert.NoError(err)
	defer os.RemoveAll(dir)

	sp, buf := testParams(t, dir)

	traceFile := filepath.Join(dir, "line.trace")
	f, err := os.Create(traceFile)
	assert.NoError(err)
	sp.traceFile = traceFile
	sp.trace = log.New(f, "", 0)
	sp.traceCloser = f

	assert.NoError(Sample(sp))
	sp.teardown()

	out := buf.String()
	assert.Contains(out, "Model has 8 observations and 2 predictors")
	assert.Contains(out, "Kept 225 of 500 draws")
	assert.Contains(out, "beta[1]")
	assert.Contains(out, "POSTERIOR MEAN VS LEAST SQUARES")

	data, err := ioutil.ReadFile(traceFile)
	assert.NoError(err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(225, len(lines))
	assert.Equal(4, len(strings.Fields(lines[0])))
	assert.True(strings.HasPrefix(lines[0], "50 "))
	assert.True(strings.HasPrefix(lines[1], "52 "))
}

func TestSampleCommandBadOptions(t *testing.T) {
	assert := assert.New(t)

	dir, err := ioutil.TempDir("", "linreg-cmd")
	assert.NoError(err)
	defer os.RemoveAll(dir)

	sp, _ := testParams(t, dir)
	sp.thinning = 0
	assert.Error(Sample(sp))

	sp, _ = testParams(t, dir)
	sp.modelFile = filepath.Join(dir, "missing.lr")
	assert.Error(Sample(sp))

	// Everything burned: not an error, just nothing to report
	sp, buf := testParams(t, dir)
	sp.burnIn = sp.draws
	assert.NoError(Sample(sp))
	assert.Contains(buf.String(), "Kept 0 of 500 draws")
}

// tracedSample runs Sample with its trace written to name in dir and
// returns the trace file contents
func tracedSample(t *testing.T, dir string, name string, seed int64) string {
	sp, _ := testParams(t, dir)
	sp.randomSeed = seed

	traceFile := filepath.Join(dir, name)
	f, err := os.Create(traceFile)
	if err != nil {
		t.Fatalf("Could not create trace file: %v", err)
	}
	sp.traceFile = traceFile
	sp.trace = log.New(f, "", 0)
	sp.traceCloser = f

	if err = Sample(sp); err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	sp.teardown()

	data, err := ioutil.ReadFile(traceFile)
	if err != nil {
		t.Fatalf("Could not read trace file: %v", err)
	}
	return string(data)
}

func TestSampleSeedReproducible(t *testing.T) {
	assert := assert.New(t)

	dir, err := ioutil.TempDir("", "linreg-cmd")
	assert.NoError(err)
	defer os.RemoveAll(dir)

	first := tracedSample(t, dir, "a.trace", 17)
	second := tracedSample(t, dir, "b.trace", 17)
	other := tracedSample(t, dir, "c.trace", 18)

	assert.NotEmpty(first)
	assert.Equal(first, second)
	assert.NotEqual(first, other)
}

func TestSampleHugeThinning(t *testing.T) {
	assert := assert.New(t)

	dir, err := ioutil.TempDir("", "linreg-cmd")
	assert.NoError(err)
	defer os.RemoveAll(dir)

	sp, buf := testParams(t, dir)
	sp.thinning = math.MaxInt
	assert.NoError(Sample(sp))

	assert.Contains(buf.String(), "Kept 1 of 500 draws")
	assert.NotContains(buf.String(), "no draws will be kept")
}

func TestSimulateCommand(t *testing.T) {
	assert := assert.New(t)

	dir, err := ioutil.TempDir("", "linreg-cmd")
	assert.NoError(err)
	defer os.RemoveAll(dir)

	buf := &bytes.Buffer{}
	sp := &startupParams{
		modelFile:  filepath.Join(dir, "sim.lr"),
		randomSeed: 5,
		seedSet:    true,
		simObs:     200,
		simBeta:    []float64{1.0, 3.0},
		simNoise:   0.25,
		simLow:     -1.0,
		simHigh:    1.0,
		draws:      300,
		burnIn:     100,
		thinning:   1,
		out:        log.New(buf, "", 0),
		trace:      log.New(ioutil.Discard, "", 0),
	}

	assert.NoError(Simulate(sp))
	assert.FileExists(sp.modelFile)
	assert.FileExists(sp.modelFile + ".prior")
	assert.Contains(buf.String(), "Simulated 200 observations of 2 predictors")

	// What we wrote is a valid model that samples cleanly
	assert.NoError(Sample(sp))
	assert.Contains(buf.String(), "Kept 200 of 300 draws")

	sp.simObs = 0
	assert.Error(Simulate(sp))
}

func TestSeedFlagDefault(t *testing.T) {
	assert := assert.New(t)

	addFlags()

	f := rootCmd.PersistentFlags().Lookup("seed")
	assert.NotNil(f)
	assert.Equal("0", f.DefValue)
	assert.Contains(f.Usage, "clock")

	for _, line := range strings.Split(rootCmd.PersistentFlags().FlagUsages(), "\n") {
		if strings.Contains(line, "--seed") {
			assert.NotContains(line, "(default")
		}
	}
}

func TestLeastSquaresCommand(t *testing.T) {
	assert := assert.New(t)

	dir, err := ioutil.TempDir("", "linreg-cmd")
	assert.NoError(err)
	defer os.RemoveAll(dir)

	sp, buf := testParams(t, dir)
	assert.NoError(LeastSquaresReport(sp))
	assert.Contains(buf.String(), "beta[0]")
	assert.Contains(buf.String(), "beta[1]")
}

func TestMonitorCounts(t *testing.T) {
	assert := assert.New(t)

	mon := newMonitor()
	mon.Iteration(0, 1.0, false)
	mon.Iteration(1, 2.0, true)
	mon.Iteration(2, 6.0, true)

	assert.Equal(int64(3), mon.Iterations.Value())
	assert.Equal(int64(2), mon.Retained.Value())
	assert.Equal(6.0, mon.LastSigma2.Value())
	assert.InDelta(3.0, mon.RecentSigma2Mean.Value(), 1e-12)

	// Never started, so Stop is a no-op
	mon.Stop()
}
