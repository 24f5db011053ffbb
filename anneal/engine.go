// Package anneal simulates adiabatic interpolation between a transverse field and a target Ising Hamiltonian.
//
// At step t of N, the Hamiltonian is H(s) = (1-s)*H_transverse + s*H_target with s = t/(N-1).
// The state, starting from the uniform superposition, is propagated with I - i*dt*H(s) where dt = 1/N,
// and the spectral gap of H(s) is recorded.
package anneal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/fumin/spinglass"
	"github.com/fumin/spinglass/pauli"
	"github.com/fumin/spinglass/util"
)

// Results are the outputs of an annealing run, with one entry per step.
type Results struct {
	SpectralGaps []float64
	States       [][]complex128
}

// FinalState returns the state after the last step.
func (r Results) FinalState() []complex128 {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

func (r Results) clone() Results {
	c := Results{SpectralGaps: append([]float64(nil), r.SpectralGaps...), States: make([][]complex128, 0, len(r.States))}
	for _, s := range r.States {
		c.States = append(c.States, append([]complex128(nil), s...))
	}
	return c
}

// Engine runs the annealing schedule of a target Hamiltonian.
type Engine struct {
	target     *pauli.Op
	transverse *pauli.Op
	opt        Options
}

// NewEngine creates an engine for target, with the transverse field on the same number of qubits.
// At most one Options may be given.
func NewEngine(target *pauli.Op, options ...Options) (*Engine, error) {
	opt := NewOptions()
	switch len(options) {
	case 0:
	case 1:
		opt = options[0]
	default:
		return nil, errors.Errorf("%d options, expected at most 1", len(options))
	}
	if target == nil {
		return nil, spinglass.NewError(spinglass.MissingHamiltonian, "target")
	}
	if opt.steps < 2 {
		return nil, spinglass.NewError(spinglass.InvalidSteps, "%d steps, need at least 2", opt.steps)
	}
	if opt.backend == nil {
		opt.backend = MemoryBackend{}
	}
	transverse, err := pauli.Transverse(target.NumQubits())
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return &Engine{target: target, transverse: transverse, opt: opt}, nil
}

// Target returns the target Hamiltonian.
func (e *Engine) Target() *pauli.Op { return e.target }

// Transverse returns the transverse field Hamiltonian.
func (e *Engine) Transverse() *pauli.Op { return e.transverse }

// Hamiltonian returns the interpolated Hamiltonian (1-s)*H_transverse + s*H_target.
func (e *Engine) Hamiltonian(s float64) (*pauli.Op, error) {
	return pauli.Combine([]complex128{complex(1-s, 0), complex(s, 0)}, []*pauli.Op{e.transverse, e.target})
}

// Execute runs all annealing steps.
// ctx is checked between steps, and a canceled run returns no results.
func (e *Engine) Execute(ctx context.Context) (Results, error) {
	res, err := e.execute(ctx)
	switch {
	case err == nil:
		e.opt.metrics.run(outcomeOK)
	case ctx.Err() != nil:
		e.opt.metrics.run(outcomeCanceled)
	default:
		e.opt.metrics.run(outcomeError)
	}
	return res, err
}

func (e *Engine) execute(ctx context.Context) (Results, error) {
	if e.target == nil || e.transverse == nil {
		return Results{}, spinglass.NewError(spinglass.MissingHamiltonian, "target %t transverse %t", e.target != nil, e.transverse != nil)
	}
	numSteps := e.opt.steps
	if numSteps < 2 {
		return Results{}, spinglass.NewError(spinglass.InvalidSteps, "%d steps, need at least 2", numSteps)
	}

	res := Results{SpectralGaps: make([]float64, 0, numSteps), States: make([][]complex128, 0, numSteps)}
	prop := newPropagator(e.target.NumQubits(), 1/float64(numSteps))
	throttler := util.NewSkipThrottler(e.opt.progress)
	for t := range numSteps {
		if err := ctx.Err(); err != nil {
			return Results{}, errors.Wrap(err, "")
		}
		start := time.Now()

		s := float64(t) / float64(numSteps-1)
		h, err := e.Hamiltonian(s)
		if err != nil {
			return Results{}, errors.Wrap(err, "")
		}
		spectrum, err := e.opt.backend.Diagonalize(ctx, h)
		if err != nil {
			return Results{}, errors.Wrap(err, fmt.Sprintf("step %d", t))
		}

		prop.step(spectrum.Matrix)
		res.States = append(res.States, prop.state())

		gap, err := spectrum.Gap()
		if err != nil {
			return Results{}, errors.Wrap(err, fmt.Sprintf("step %d", t))
		}
		res.SpectralGaps = append(res.SpectralGaps, gap)

		e.opt.metrics.step(gap, time.Since(start).Seconds())
		if throttler.Ok() || t == numSteps-1 {
			log.Printf("step %d/%d s %.4f gap %f", t+1, numSteps, s, gap)
		}
	}
	return res, nil
}
