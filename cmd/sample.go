package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/CraigKelly/linreg-gibbs/model"
	"github.com/CraigKelly/linreg-gibbs/rand"
	"github.com/CraigKelly/linreg-gibbs/sampler"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run the Gibbs sampler on a model and summarize the posterior",
	RunE:  runWith(Sample),
}

// Sample reads a model, runs one chain, and reports posterior summaries
// against the least squares estimate. Kept draws go to the trace file.
func Sample(sp *startupParams) error {
	sp.out.Printf("Reading model from %s\n", sp.modelFile)
	mod, err := model.NewModelFromFile(model.LinRegReader{}, sp.modelFile)
	if err != nil {
		return err
	}
	sp.out.Printf("Model has %d observations and %d predictors\n", mod.N, mod.P)

	opts := sampler.Options{
		Draws:    sp.draws,
		BurnIn:   sp.burnIn,
		Thinning: sp.thinning,
	}
	if err = opts.Check(); err != nil {
		return err
	}

	sp.out.Printf("Draws: %d, Burn-In: %d, Thinning: %d, Seed: %d\n", opts.Draws, opts.BurnIn, opts.Thinning, sp.randomSeed)
	if opts.Retained() < 1 {
		sp.out.Printf("WARNING: burn in %d >= draws %d, no draws will be kept\n", opts.BurnIn, opts.Draws)
	}

	gen, err := rand.NewGenerator(sp.randomSeed)
	if err != nil {
		return err
	}

	samp, err := sampler.NewGibbs(mod, gen)
	if err != nil {
		return errors.Wrapf(err, "Could not create sampler for %s", mod.Name)
	}
	sp.verbosef("Posterior mean basis mn: %v\n", samp.PosteriorMean().RawVector().Data)

	if sp.monitor {
		mon := newMonitor()
		mon.Draws.Set(int64(opts.Draws))
		mon.BurnIn.Set(int64(opts.BurnIn))
		mon.Thinning.Set(int64(opts.Thinning))
		mon.Seed.Set(sp.randomSeed)
		if err = mon.Start(sp.monitorAddr); err != nil {
			return err
		}
		defer mon.Stop()
		samp.Observer = mon
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	trace, err := samp.Run(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "Sampling failed")
	}
	sp.out.Printf("Kept %d of %d draws in %.3fs\n", trace.Len(), opts.Draws, time.Since(startTime).Seconds())

	if trace.Len() < 1 {
		return nil
	}

	writeTrace(sp, trace)

	summary, err := model.Summarize(trace)
	if err != nil {
		return err
	}

	ols, err := model.LeastSquares(mod)
	if err != nil {
		// Rank deficient X is fine for the sampler - the prior takes care
		// of it - so this is only worth a note
		sp.out.Printf("No least squares reference: %v\n", err)
	}

	summaryReport(sp, summary, ols)

	if ols != nil {
		score, err := model.NewErrorSuite(summary.BetaMean, ols.RawVector().Data)
		if err != nil {
			return err
		}
		errorReport(sp, "POSTERIOR MEAN VS LEAST SQUARES", score)
	}

	return nil
}

// summaryReport prints one line per coefficient and one for sigma2
func summaryReport(sp *startupParams, s *model.Summary, ols *mat.VecDense) {
	sp.out.Printf("%-10s %14s %14s %14s\n", "Param", "Mean", "StdDev", "LeastSquares")
	for j := range s.BetaMean {
		ref := "-"
		if ols != nil {
			ref = fmt.Sprintf("%14.6g", ols.AtVec(j))
		}
		sp.out.Printf("%-10s %14.6g %14.6g %14s\n", fmt.Sprintf("beta[%d]", j), s.BetaMean[j], s.BetaStdDev[j], ref)
	}
	sp.out.Printf("%-10s %14.6g %14.6g %14s\n", "sigma2", s.Sigma2Mean, s.Sigma2SD, "-")
}

// errorReport prints an ErrorSuite on a single line
func errorReport(sp *startupParams, title string, score *model.ErrorSuite) {
	sp.out.Printf("%s\n", title)
	sp.out.Printf(
		"MeanAE:%10.6f MaxAE:%10.6f RMSE:%10.6f MaxRel:%10.6f\n",
		score.MeanAbsError,
		score.MaxAbsError,
		score.RMSE,
		score.MaxRelError,
	)
}

// writeTrace writes one line per kept draw: iteration, sigma2, then beta
func writeTrace(sp *startupParams, t *model.Trace) {
	if len(sp.traceFile) > 0 {
		sp.out.Printf("Writing %d draws to trace file %v\n", t.Len(), sp.traceFile)
	}

	var sb strings.Builder
	for i, beta := range t.Beta {
		sb.Reset()
		fmt.Fprintf(&sb, "%d %.17g", t.Iterations[i], t.Sigma2[i])
		for _, b := range beta {
			fmt.Fprintf(&sb, " %.17g", b)
		}
		sp.trace.Printf("%s\n", sb.String())
	}
}
