package cmd

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/CraigKelly/linreg-gibbs/buffer"
)

// expvar names are process global, so the progress map is only published once
var publishOnce sync.Once

// recentWindow is how many of the latest variance draws feed Recent-Sigma2-Mean
const recentWindow = 100

// monitor exposes chain progress over HTTP via expvar. It is also a
// sampler.Observer, which is how it learns about progress.
type monitor struct {
	info    *expvar.Map
	stopped chan struct{}
	server  *http.Server
	start   time.Time
	recent  *buffer.CircularFloat

	Draws            *expvar.Int
	BurnIn           *expvar.Int
	Thinning         *expvar.Int
	Seed             *expvar.Int
	Iterations       *expvar.Int
	Retained         *expvar.Int
	RunTime          *expvar.Float
	LastSigma2       *expvar.Float
	RecentSigma2Mean *expvar.Float
}

func newMonitor() *monitor {
	m := &monitor{
		info:             new(expvar.Map).Init(),
		start:            time.Now(),
		recent:           buffer.NewCircularFloat(recentWindow),
		Draws:            new(expvar.Int),
		BurnIn:           new(expvar.Int),
		Thinning:         new(expvar.Int),
		Seed:             new(expvar.Int),
		Iterations:       new(expvar.Int),
		Retained:         new(expvar.Int),
		RunTime:          new(expvar.Float),
		LastSigma2:       new(expvar.Float),
		RecentSigma2Mean: new(expvar.Float),
	}

	m.info.Set("Draws", m.Draws)
	m.info.Set("Burn-In", m.BurnIn)
	m.info.Set("Thinning", m.Thinning)
	m.info.Set("Seed", m.Seed)
	m.info.Set("Iterations", m.Iterations)
	m.info.Set("Retained", m.Retained)
	m.info.Set("Run-Time", m.RunTime)
	m.info.Set("Last-Sigma2", m.LastSigma2)
	m.info.Set("Recent-Sigma2-Mean", m.RecentSigma2Mean)

	return m
}

// Iteration implements sampler.Observer
func (m *monitor) Iteration(i int, sigma2 float64, retained bool) {
	m.Iterations.Set(int64(i + 1))
	if retained {
		m.Retained.Add(1)
	}

	m.recent.Add(sigma2)
	m.LastSigma2.Set(sigma2)
	m.RecentSigma2Mean.Set(m.recent.Mean())
	m.RunTime.Set(time.Since(m.start).Seconds())
}

// Start begins serving the progress map on addr
func (m *monitor) Start(addr string) error {
	if m.server != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	publishOnce.Do(func() {
		expvar.Publish("linreg-progress", m.info)
	})

	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	// Help the user and redirect to the only thing currently available
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})

	m.stopped = make(chan struct{})
	m.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Actual server that will close the stopped channel on exit
	started := make(chan struct{})
	go func() {
		defer close(m.stopped)
		fmt.Fprintf(os.Stderr, "HTTP now available at %v (see debug/vars/)\n", m.server.Addr)
		close(started)
		m.server.ListenAndServe()
	}()

	<-started
	return nil
}

func (m *monitor) Stop() {
	if m.server == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		fmt.Fprintf(os.Stderr, "HTTP Info Stopped\n")
	case <-time.After(2 * time.Second):
		fmt.Fprintf(os.Stderr, "HTTP would NOT stop: just continuing on\n")
	}
}
