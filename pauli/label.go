package pauli

import (
	"strings"

	"github.com/pkg/errors"
)

// ZLabel returns the label on n qubits with Z at the given sites and I elsewhere.
// Sites out of range are ignored.
func ZLabel(n int, sites ...int) string {
	return label(n, 'Z', sites...)
}

// XLabel returns the label on n qubits with X at the given sites and I elsewhere.
func XLabel(n int, sites ...int) string {
	return label(n, 'X', sites...)
}

func label(n int, p byte, sites ...int) string {
	b := []byte(strings.Repeat("I", n))
	for _, s := range sites {
		if s < 0 || s >= n {
			continue
		}
		b[s] = p
	}
	return string(b)
}

// Transverse returns the transverse field operator -sum_i X_i on n qubits.
func Transverse(n int) (*Op, error) {
	if n < 1 {
		return nil, errors.Errorf("%d qubits", n)
	}
	terms := make([]Term, 0, n)
	for i := range n {
		terms = append(terms, Term{Label: XLabel(n, i), Coeff: -1})
	}
	return New(n, terms)
}
