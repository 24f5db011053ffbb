package anneal

import (
	"context"

	"github.com/fumin/spinglass"
	"github.com/fumin/spinglass/pauli"
)

// State is the lifecycle state of a Session.
type State int

const (
	Uninitialized State = iota
	Initialized
	Executed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}

// Session runs a spin glass through the annealing engine.
// It must be initialized, then executed, before its results are available.
// A failed call leaves the session as it was.
type Session struct {
	state   State
	engine  *Engine
	results Results
}

// NewSession returns an uninitialized session.
func NewSession() *Session {
	return &Session{}
}

// Initialize prepares the session for the Hamiltonian of sg.
// Initializing again replaces the Hamiltonians and discards previous results.
func (s *Session) Initialize(sg *spinglass.SpinGlass, options ...Options) error {
	h, ok := sg.Hamiltonian()
	if !ok {
		return spinglass.NewError(spinglass.MissingHamiltonian, "spin glass has no hamiltonian")
	}
	engine, err := NewEngine(h, options...)
	if err != nil {
		return err
	}

	s.engine = engine
	s.results = Results{}
	s.state = Initialized
	return nil
}

// Execute runs the annealing schedule.
func (s *Session) Execute(ctx context.Context) error {
	if s.engine == nil {
		return spinglass.NewError(spinglass.MissingHamiltonian, "session is %s", s.state)
	}
	res, err := s.engine.Execute(ctx)
	if err != nil {
		return err
	}

	s.results = res
	s.state = Executed
	return nil
}

// Results returns a copy of the spectral gaps and states of each step.
func (s *Session) Results() (Results, error) {
	if s.state != Executed {
		return Results{}, spinglass.NewError(spinglass.NotExecuted, "session is %s", s.state)
	}
	return s.results.clone(), nil
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// NumQubits returns the number of qubits of the target Hamiltonian, or zero before initialization.
func (s *Session) NumQubits() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.target.NumQubits()
}

// NumSteps returns the number of annealing steps, or zero before initialization.
func (s *Session) NumSteps() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.opt.steps
}

// Target returns the target Hamiltonian, or nil before initialization.
func (s *Session) Target() *pauli.Op {
	if s.engine == nil {
		return nil
	}
	return s.engine.target
}

// Transverse returns the transverse field Hamiltonian, or nil before initialization.
func (s *Session) Transverse() *pauli.Op {
	if s.engine == nil {
		return nil
	}
	return s.engine.transverse
}
