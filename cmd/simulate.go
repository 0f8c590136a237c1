package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CraigKelly/linreg-gibbs/model"
	"github.com/CraigKelly/linreg-gibbs/rand"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Write a simulated model and diffuse prior to --model",
	RunE:  runWith(Simulate),
}

// Simulate draws a data set with known coefficients and writes it to the
// model file, with a diffuse prior in <model>.prior. Sampling it should
// recover the coefficients.
func Simulate(sp *startupParams) error {
	gen, err := rand.NewGenerator(sp.randomSeed)
	if err != nil {
		return err
	}

	mod, err := model.Simulate(gen, sp.simObs, sp.simBeta, sp.simNoise, sp.simLow, sp.simHigh)
	if err != nil {
		return errors.Wrap(err, "Could not simulate model")
	}
	sp.out.Printf("Simulated %d observations of %d predictors (beta=%v, noise=%v, seed=%d)\n",
		mod.N, mod.P, sp.simBeta, sp.simNoise, sp.randomSeed)

	err = writeFile(sp.modelFile, func(f *os.File) error { return model.WriteLinReg(f, mod) })
	if err != nil {
		return err
	}
	err = writeFile(sp.modelFile+".prior", func(f *os.File) error { return model.WriteLinRegPrior(f, mod.Prior) })
	if err != nil {
		return err
	}

	sp.out.Printf("Wrote model to %s and prior to %s.prior\n", sp.modelFile, sp.modelFile)
	return nil
}

// writeFile creates filename and hands it to fn, reporting close errors
func writeFile(filename string, fn func(*os.File) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Could not create %s", filename)
	}

	err = fn(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "Could not write %s", filename)
	}
	return nil
}
