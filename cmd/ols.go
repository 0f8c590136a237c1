package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CraigKelly/linreg-gibbs/model"
)

var olsCmd = &cobra.Command{
	Use:   "ols",
	Short: "Print the least squares estimate for a model",
	RunE:  runWith(LeastSquaresReport),
}

// LeastSquaresReport reads a model and prints the OLS coefficients, the
// reference a diffuse prior posterior should approach.
func LeastSquaresReport(sp *startupParams) error {
	sp.out.Printf("Reading model from %s\n", sp.modelFile)
	mod, err := model.NewModelFromFile(model.LinRegReader{}, sp.modelFile)
	if err != nil {
		return err
	}
	sp.out.Printf("Model has %d observations and %d predictors\n", mod.N, mod.P)

	beta, err := model.LeastSquares(mod)
	if err != nil {
		return err
	}

	for j := 0; j < beta.Len(); j++ {
		sp.out.Printf("beta[%d] %14.6g\n", j, beta.AtVec(j))
	}
	return nil
}
