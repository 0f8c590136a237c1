package cmd

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML config file. Pointer fields are optional: only
// values present in the file are applied.
type fileConfig struct {
	Model       string `yaml:"model"`
	Draws       *int   `yaml:"draws"`
	BurnIn      *int   `yaml:"burn_in"`
	Thinning    *int   `yaml:"thinning"`
	Seed        *int64 `yaml:"seed"`
	Trace       string `yaml:"trace"`
	Verbose     *bool  `yaml:"verbose"`
	Monitor     *bool  `yaml:"monitor"`
	MonitorAddr string `yaml:"monitor_addr"`
}

// loadConfig reads a YAML config file. Environment variables in the file are
// expanded and unknown keys are an error.
func loadConfig(filename string) (*fileConfig, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ config from %s", filename)
	}

	cfg, err := parseConfig([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE config %s", filename)
	}
	return cfg, nil
}

func parseConfig(data []byte) (*fileConfig, error) {
	cfg := &fileConfig{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == io.EOF {
		return cfg, nil // Empty file
	}
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// apply copies config values into sp, skipping any setting whose flag was
// given on the command line.
func (c *fileConfig) apply(sp *startupParams, changed func(flag string) bool) {
	if len(c.Model) > 0 && !changed("model") {
		sp.modelFile = c.Model
	}
	if c.Draws != nil && !changed("draws") {
		sp.draws = *c.Draws
	}
	if c.BurnIn != nil && !changed("burn-in") {
		sp.burnIn = *c.BurnIn
	}
	if c.Thinning != nil && !changed("thinning") {
		sp.thinning = *c.Thinning
	}
	if c.Seed != nil && !changed("seed") {
		sp.randomSeed = *c.Seed
		sp.seedSet = true
	}
	if len(c.Trace) > 0 && !changed("trace") {
		sp.traceFile = c.Trace
	}
	if c.Verbose != nil && !changed("verbose") {
		sp.verbose = *c.Verbose
	}
	if c.Monitor != nil && !changed("monitor") {
		sp.monitor = *c.Monitor
	}
	if len(c.MonitorAddr) > 0 && !changed("monitor-addr") {
		sp.monitorAddr = c.MonitorAddr
	}
}
