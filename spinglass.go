// Package spinglass encodes combinatorial optimization problems as Ising Hamiltonians.
//
// A Hamiltonian is a pauli.Op whose labels contain only I and Z, so that every computational basis state is an eigenstate whose energy is the cost of the corresponding assignment.
// The anneal package simulates the adiabatic interpolation from a transverse field to such a Hamiltonian.
package spinglass

import (
	"slices"

	"gonum.org/v1/gonum/graph"

	"github.com/fumin/spinglass/pauli"
)

// SpinGlass holds the target Hamiltonian of a problem instance.
// The zero value has no Hamiltonian.
type SpinGlass struct {
	hamiltonian *pauli.Op
}

// FromGraph returns the spin glass of problem p on graph g.
func FromGraph(g graph.Graph, p Problem) (*SpinGlass, error) {
	h, err := EncodeGraph(g, p)
	if err != nil {
		return nil, err
	}
	return &SpinGlass{hamiltonian: h}, nil
}

// FromSet returns the spin glass of problem p on the sequence s.
func FromSet(s []float64, p Problem) (*SpinGlass, error) {
	h, err := EncodeSet(s, p)
	if err != nil {
		return nil, err
	}
	return &SpinGlass{hamiltonian: h}, nil
}

// FromNumberSet is like FromSet, with the elements of s taken in ascending order.
func FromNumberSet(s map[float64]struct{}, p Problem) (*SpinGlass, error) {
	seq := make([]float64, 0, len(s))
	for v := range s {
		seq = append(seq, v)
	}
	slices.Sort(seq)
	return FromSet(seq, p)
}

// Hamiltonian returns the target Hamiltonian, and false if it is absent.
func (sg *SpinGlass) Hamiltonian() (*pauli.Op, bool) {
	if sg == nil || sg.hamiltonian == nil {
		return nil, false
	}
	return sg.hamiltonian, true
}

// NumQubits returns the number of qubits of the Hamiltonian, or zero if it is absent.
func (sg *SpinGlass) NumQubits() int {
	h, ok := sg.Hamiltonian()
	if !ok {
		return 0
	}
	return h.NumQubits()
}
