package anneal

import (
	"fmt"
	"math"
	"slices"

	"github.com/fumin/spinglass/mat"
)

// propagator evolves a dense state with the first order propagator U = I - i*dt*H.
// U is not unitary, so the norm of the state drifts with the number of steps.
type propagator struct {
	dt  float64
	psi []complex128
}

// newPropagator returns a propagator starting from the uniform superposition over numQubits qubits.
func newPropagator(numQubits int, dt float64) *propagator {
	dim := 1 << numQubits
	p := &propagator{dt: dt, psi: make([]complex128, dim)}
	amplitude := complex(1/math.Sqrt(float64(dim)), 0)
	for i := range p.psi {
		p.psi[i] = amplitude
	}
	return p
}

// state returns a copy of the current state.
func (p *propagator) state() []complex128 {
	return slices.Clone(p.psi)
}

// step applies U = I - i*dt*h to the state, that is psi += -i*dt*h*psi.
func (p *propagator) step(h *mat.COO) {
	dim := len(p.psi)
	if h.Rows() != dim || h.Cols() != dim {
		panic(fmt.Sprintf("hamiltonian %dx%d state %d", h.Rows(), h.Cols(), dim))
	}

	hpsi := h.MulVec(p.psi)
	c := complex(0, -p.dt)
	for i, v := range hpsi {
		p.psi[i] += c * v
	}
}
