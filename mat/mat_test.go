package mat

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"
)

func TestAdd(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a          *COO
		c          complex128
		b          *COO
		z          *COO
		numNonZero int
	}{
		{
			a: M([][]complex128{
				{1, 0},
				{0, 2i},
			}),
			c: 1i,
			b: M([][]complex128{
				{1i, 0},
				{2, -5},
			}),
			z: M([][]complex128{
				{0, 0},
				{2i, -3i},
			}),
			numNonZero: 2,
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s", test.a), func(t *testing.T) {
			t.Parallel()
			test.a.Add(test.c, test.b)
			if !test.a.Equal(test.z) {
				t.Fatalf("%s, expected %s", test.a, test.z)
			}
			if len(test.a.Data) != test.numNonZero {
				t.Fatalf("%d, expected %d", len(test.a.Data), test.numNonZero)
			}
		})
	}
}

func TestKron(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a *COO
		b *COO
		c *COO
	}{
		{
			a: M([][]complex128{
				{1, -4, 7},
				{-2, 0, 3},
			}),
			b: M([][]complex128{
				{8, -9, -6, 5},
				{1, -3, 0, 7},
				{2, 8, -8, -3},
				{1, 2, -5, -1},
			}),
			c: M([][]complex128{
				{8, -9, -6, 5, -32, 36, 24, -20, 56, -63, -42, 35},
				{1, -3, 0, 7, -4, 12, 0, -28, 7, -21, 0, 49},
				{2, 8, -8, -3, -8, -32, 32, 12, 14, 56, -56, -21},
				{1, 2, -5, -1, -4, -8, 20, 4, 7, 14, -35, -7},
				{-16, 18, 12, -10, 0, 0, 0, 0, 24, -27, -18, 15},
				{-2, 6, 0, -14, 0, 0, 0, 0, 3, -9, 0, 21},
				{-4, -16, 16, 6, 0, 0, 0, 0, 6, 24, -24, -9},
				{-2, -4, 10, 2, 0, 0, 0, 0, 3, 6, -15, -3},
			}),
		},
		// Scalar kronecker.
		{
			a: M([][]complex128{{1}}),
			b: M([][]complex128{
				{1, 2},
				{3, 4},
			}),
			c: M([][]complex128{
				{1, 2},
				{3, 4},
			}),
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s", test.a), func(t *testing.T) {
			t.Parallel()
			test.a.Kron(test.b)
			if !test.a.Equal(test.c) {
				t.Fatalf("%s, expected %s", test.a, test.c)
			}
		})
	}
}

func TestMulVec(t *testing.T) {
	t.Parallel()
	m := M([][]complex128{
		{1, 2i},
		{0, -1},
	})
	y := m.MulVec([]complex128{1, 1i})
	expected := []complex128{-1, -1i}
	for i, v := range y {
		if v != expected[i] {
			t.Fatalf("%v, expected %v", y, expected)
		}
	}
}

func TestDiagonal(t *testing.T) {
	t.Parallel()
	m := M([][]complex128{
		{3, 1, 0},
		{1, 0, 0},
		{0, 0, -2},
	})
	diag := m.Diagonal()
	expected := []complex128{3, 0, -2}
	for i, v := range diag {
		if v != expected[i] {
			t.Fatalf("%v, expected %v", diag, expected)
		}
	}
	if v := m.At(0, 1); v != 1 {
		t.Fatalf("%v, expected 1", v)
	}
	if v := m.At(2, 1); v != 0 {
		t.Fatalf("%v, expected 0", v)
	}
}

func TestEigen(t *testing.T) {
	t.Parallel()
	tests := []struct {
		m    *COO
		vals []float64
	}{
		{
			m:    M(PauliX),
			vals: []float64{-1, 1},
		},
		{
			m: M([][]complex128{
				{2, 1, 0},
				{1, 2, 0},
				{0, 0, -4},
			}),
			vals: []float64{-4, 1, 3},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s", test.m), func(t *testing.T) {
			t.Parallel()
			vvs, err := test.m.Eigen(true)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if len(vvs) != len(test.vals) {
				t.Fatalf("%d, expected %d", len(vvs), len(test.vals))
			}
			for i, vv := range vvs {
				if math.Abs(real(vv.Val)-test.vals[i]) > 1e-9 {
					t.Fatalf("%d %v, expected %f", i, vv.Val, test.vals[i])
				}

				// Check m*v = lambda*v.
				mv := test.m.MulVec(vv.Vec)
				for j, x := range mv {
					if cmplx.Abs(x-vv.Val*vv.Vec[j]) > 1e-9 {
						t.Fatalf("%d %d %v %v", i, j, x, vv.Val*vv.Vec[j])
					}
				}
			}
		})
	}
}

func TestEigenNotSymmetric(t *testing.T) {
	t.Parallel()
	tests := []struct {
		m *COO
	}{
		{m: M([][]complex128{{0, -1i}, {1i, 0}})},
		{m: M([][]complex128{{1, 2}, {0, 1}})},
		{m: M([][]complex128{{1, 2, 3}, {2, 1, 0}})},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s", test.m), func(t *testing.T) {
			t.Parallel()
			if _, err := test.m.Eigen(false); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
