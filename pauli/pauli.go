// Package pauli implements sparse operators, which are weighted sums of tensor products of Pauli matrices.
//
// An operator on n qubits is a mapping from labels to coefficients.
// A label is a string of length n over the alphabet {I, X, Z}, where the character at position p is the p-th factor of the Kronecker product.
// For example, on three qubits the label "ZIZ" is Z⊗I⊗Z.
package pauli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/fumin/spinglass/mat"
)

var (
	paulis = map[byte]*mat.COO{
		'I': mat.M(mat.Identity),
		'X': mat.M(mat.PauliX),
		'Z': mat.M(mat.PauliZ),
	}
)

// Term is a single weighted Pauli string.
type Term struct {
	Label string
	Coeff complex128
}

// Op is an immutable sparse operator.
// Coefficients of duplicate labels are summed, and labels keep the order in which they first appeared.
type Op struct {
	n      int
	labels []string
	coeffs map[string]complex128
}

// New creates an operator on n qubits from terms.
func New(n int, terms []Term) (*Op, error) {
	if n < 1 {
		return nil, errors.Errorf("%d qubits", n)
	}
	op := &Op{n: n, labels: make([]string, 0, len(terms)), coeffs: make(map[string]complex128, len(terms))}
	for i, t := range terms {
		if err := checkLabel(n, t.Label); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d", i))
		}
		op.add(t.Label, t.Coeff)
	}
	return op, nil
}

func checkLabel(n int, label string) error {
	if len(label) != n {
		return errors.Errorf("label %q length %d, expected %d", label, len(label), n)
	}
	for i := 0; i < len(label); i++ {
		if _, ok := paulis[label[i]]; !ok {
			return errors.Errorf("label %q invalid character %q", label, label[i])
		}
	}
	return nil
}

func (op *Op) add(label string, c complex128) {
	if _, ok := op.coeffs[label]; !ok {
		op.labels = append(op.labels, label)
	}
	op.coeffs[label] += c
}

// NumQubits returns the number of qubits.
func (op *Op) NumQubits() int { return op.n }

// Len returns the number of distinct labels.
func (op *Op) Len() int { return len(op.labels) }

// Coeff returns the coefficient of label, and whether the label is present.
func (op *Op) Coeff(label string) (complex128, bool) {
	c, ok := op.coeffs[label]
	return c, ok
}

// Terms returns the terms in order of first appearance.
func (op *Op) Terms() []Term {
	terms := make([]Term, 0, len(op.labels))
	for _, l := range op.labels {
		terms = append(terms, Term{Label: l, Coeff: op.coeffs[l]})
	}
	return terms
}

// Labels returns the labels in order of first appearance.
func (op *Op) Labels() []string {
	return slices.Clone(op.labels)
}

// Equal reports whether a and b have the same labels and coefficients, regardless of order.
func (a *Op) Equal(b *Op) bool {
	if a.n != b.n || len(a.coeffs) != len(b.coeffs) {
		return false
	}
	for l, ac := range a.coeffs {
		bc, ok := b.coeffs[l]
		if !ok || ac != bc {
			return false
		}
	}
	return true
}

// Diagonal reports whether the operator only contains I and Z factors.
func (op *Op) Diagonal() bool {
	for _, l := range op.labels {
		if strings.ContainsRune(l, 'X') {
			return false
		}
	}
	return true
}

// Combine returns the operator sum_i ws[i]*ops[i].
func Combine(ws []complex128, ops []*Op) (*Op, error) {
	if len(ws) != len(ops) {
		return nil, errors.Errorf("%d weights %d operators", len(ws), len(ops))
	}
	if len(ops) == 0 {
		return nil, errors.Errorf("no operators")
	}
	n := ops[0].n
	c := &Op{n: n, labels: make([]string, 0), coeffs: make(map[string]complex128)}
	for i, op := range ops {
		if op.n != n {
			return nil, errors.Errorf("operator %d has %d qubits, expected %d", i, op.n, n)
		}
		for _, l := range op.labels {
			c.add(l, ws[i]*op.coeffs[l])
		}
	}
	return c, nil
}

// Add returns a + b.
func (a *Op) Add(b *Op) (*Op, error) {
	return Combine([]complex128{1, 1}, []*Op{a, b})
}

// Scale returns c*op.
func (op *Op) Scale(c complex128) *Op {
	s := &Op{n: op.n, labels: slices.Clone(op.labels), coeffs: make(map[string]complex128, len(op.coeffs))}
	for l, v := range op.coeffs {
		s.coeffs[l] = c * v
	}
	return s
}

// MaterializeTo writes the 2^n by 2^n matrix of the operator into dst, using buf as scratch space.
func (op *Op) MaterializeTo(dst, buf mat.Matrix) {
	dim := 1 << op.n
	dst.Zeros(dim, dim)
	for _, l := range op.labels {
		c := op.coeffs[l]
		if c == 0 {
			continue
		}
		buf.Scalar(1)
		for i := 0; i < len(l); i++ {
			buf.Kron(paulis[l[i]])
		}
		dst.Add(c, buf)
	}
}

// COO returns the matrix of the operator.
func (op *Op) COO() *mat.COO {
	m, buf := mat.COOZeros(1, 1), mat.COOZeros(1, 1)
	op.MaterializeTo(m, buf)
	return m
}
