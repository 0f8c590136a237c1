package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// startupParams is everything a command needs to run, gathered from flags
// and an optional config file.
type startupParams struct {
	cfgFile     string
	verbose     bool
	modelFile   string
	traceFile   string
	randomSeed  int64
	seedSet     bool
	draws       int
	burnIn      int
	thinning    int
	monitor     bool
	monitorAddr string

	simObs   int
	simBeta  []float64
	simNoise float64
	simLow   float64
	simHigh  float64

	out   *log.Logger
	trace *log.Logger

	traceCloser io.Closer
}

var sp = &startupParams{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linreg-gibbs",
	Short: "Gibbs sampling for Bayesian linear regression",
	Long: `linreg-gibbs draws from the posterior of a Bayesian linear regression
with a conjugate Normal-Inverse-Gamma prior. Among other features:

  - Reads a plain text model file and a matching .prior file
  - A Gibbs sampler with burn in and thinning
  - Posterior summaries compared against least squares
  - Simulated data sets with known coefficients
`,
	SilenceUsage: true,
}

// setup finishes startupParams once cobra has parsed flags: apply the config
// file, then create the loggers.
func (sp *startupParams) setup(cmd *cobra.Command) error {
	if len(sp.cfgFile) > 0 {
		cfg, err := loadConfig(sp.cfgFile)
		if err != nil {
			return err
		}
		cfg.apply(sp, func(name string) bool {
			f := cmd.Flags().Lookup(name)
			return f != nil && f.Changed
		})
	}

	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		sp.seedSet = true
	}
	if !sp.seedSet {
		sp.randomSeed = time.Now().UnixNano()
		sp.seedSet = true
	}

	if len(sp.modelFile) < 1 {
		return errors.New("A model file is required (--model or config file)")
	}

	sp.out = log.New(os.Stdout, "", log.Ltime)

	if len(sp.traceFile) > 0 {
		f, err := os.Create(sp.traceFile)
		if err != nil {
			return errors.Wrapf(err, "Could not create trace file %s", sp.traceFile)
		}
		sp.traceCloser = f
		sp.trace = log.New(f, "", 0)
	} else {
		sp.trace = log.New(io.Discard, "", 0)
	}

	return nil
}

// teardown closes anything setup opened
func (sp *startupParams) teardown() {
	if sp.traceCloser != nil {
		sp.traceCloser.Close()
		sp.traceCloser = nil
	}
}

// verbosef only logs in verbose mode
func (sp *startupParams) verbosef(format string, args ...interface{}) {
	if sp.verbose {
		sp.out.Printf(format, args...)
	}
}

// runWith wraps a command function with setup and teardown
func runWith(fn func(*startupParams) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := sp.setup(cmd)
		if err != nil {
			return err
		}
		defer sp.teardown()
		return fn(sp)
	}
}

// addFlags registers the persistent and per command flags. The seed default
// is only a placeholder: setup uses the clock unless --seed was given.
func addFlags() {
	pf := rootCmd.PersistentFlags()
	if pf.Lookup("seed") != nil {
		return // Already registered
	}

	pf.StringVarP(&sp.cfgFile, "config", "c", "", "YAML config file (flags override its values)")
	pf.BoolVarP(&sp.verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")
	pf.StringVarP(&sp.modelFile, "model", "m", "", "Model file to read (the prior is read from <model>.prior)")
	pf.Int64VarP(&sp.randomSeed, "seed", "r", 0, "Random seed to use (seeded from the clock when not given)")

	sampleCmd.Flags().IntVarP(&sp.draws, "draws", "n", 1000, "Total chain iterations")
	sampleCmd.Flags().IntVarP(&sp.burnIn, "burn-in", "b", 0, "Iterations to discard before keeping draws")
	sampleCmd.Flags().IntVarP(&sp.thinning, "thinning", "t", 1, "Keep every Nth draw after burn in")
	sampleCmd.Flags().StringVarP(&sp.traceFile, "trace", "o", "", "Write every kept draw to this file")
	sampleCmd.Flags().BoolVar(&sp.monitor, "monitor", false, "Serve progress over HTTP (see /debug/vars)")
	sampleCmd.Flags().StringVar(&sp.monitorAddr, "monitor-addr", ":8000", "Address for --monitor")

	simulateCmd.Flags().IntVar(&sp.simObs, "obs", 100, "Observations to simulate")
	simulateCmd.Flags().Float64SliceVar(&sp.simBeta, "beta", []float64{2.0, -1.5}, "True coefficients, intercept first")
	simulateCmd.Flags().Float64Var(&sp.simNoise, "noise", 0.5, "Standard deviation of the noise added to y")
	simulateCmd.Flags().Float64Var(&sp.simLow, "low", -2.0, "Lower bound of the uniform predictors")
	simulateCmd.Flags().Float64Var(&sp.simHigh, "high", 2.0, "Upper bound of the uniform predictors")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	addFlags()
	rootCmd.AddCommand(sampleCmd, olsCmd, simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
