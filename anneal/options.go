package anneal

import (
	"time"
)

// Options are options of an annealing run.
type Options struct {
	steps    int
	backend  Backend
	metrics  *Metrics
	progress time.Duration
}

// NewOptions returns the default options: 100 steps on the in memory backend, logging progress every minute.
func NewOptions() Options {
	opt := Options{}
	opt.steps = 100
	opt.backend = MemoryBackend{}
	opt.progress = time.Minute
	return opt
}

// Steps sets the number of annealing steps, which must be at least two.
func (opt Options) Steps(n int) Options {
	opt.steps = n
	return opt
}

// Backend sets the backend that materializes and diagonalizes the interpolated Hamiltonians.
func (opt Options) Backend(b Backend) Options {
	opt.backend = b
	return opt
}

// Metrics sets the metrics to record to.
func (opt Options) Metrics(m *Metrics) Options {
	opt.metrics = m
	return opt
}

// Progress sets the minimum interval between progress logs.
func (opt Options) Progress(d time.Duration) Options {
	opt.progress = d
	return opt
}

// NumSteps returns the number of annealing steps.
func (opt Options) NumSteps() int { return opt.steps }
