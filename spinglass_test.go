package spinglass

import (
	"flag"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/pkg/errors"
)

func TestSpinGlass(t *testing.T) {
	t.Parallel()
	var empty SpinGlass
	if _, ok := empty.Hamiltonian(); ok {
		t.Fatalf("expected no hamiltonian")
	}
	if n := empty.NumQubits(); n != 0 {
		t.Fatalf("%d, expected 0", n)
	}

	var nilGlass *SpinGlass
	if _, ok := nilGlass.Hamiltonian(); ok {
		t.Fatalf("expected no hamiltonian")
	}

	sg, err := FromGraph(completeGraph(5), Clique)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h, ok := sg.Hamiltonian()
	if !ok {
		t.Fatalf("expected hamiltonian")
	}
	if h.NumQubits() != 5 || sg.NumQubits() != 5 {
		t.Fatalf("%d %d, expected 5", h.NumQubits(), sg.NumQubits())
	}
}

func TestSpinGlassInvalid(t *testing.T) {
	t.Parallel()
	sg, err := FromGraph(completeGraph(3), "knapsack")
	if sg != nil {
		t.Fatalf("%v, expected nil", sg)
	}
	if !errors.Is(err, ErrInvalidProblem) {
		t.Fatalf("%+v, expected %v", err, ErrInvalidProblem)
	}

	sg, err = FromSet([]float64{3, 3}, Partition)
	if sg != nil {
		t.Fatalf("%v, expected nil", sg)
	}
	if !errors.Is(err, ErrInvalidSet) || errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("%+v, expected %v", err, ErrInvalidSet)
	}
}

func TestFromNumberSet(t *testing.T) {
	t.Parallel()
	sg, err := FromNumberSet(map[float64]struct{}{3: {}, 1: {}, 2: {}}, Partition)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h, _ := sg.Hamiltonian()

	expected, err := EncodeSet([]float64{1, 2, 3}, Partition)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !h.Equal(expected) {
		t.Fatalf("%v, expected %v", h.Terms(), expected.Terms())
	}

	if _, err := FromNumberSet(map[float64]struct{}{}, Partition); !errors.Is(err, ErrInvalidSet) {
		t.Fatalf("%+v, expected %v", err, ErrInvalidSet)
	}
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.Wrap(NewError(MissingHamiltonian, "target"), "initialize")
	if !errors.Is(err, ErrMissingHamiltonian) {
		t.Fatalf("%+v, expected %v", err, ErrMissingHamiltonian)
	}
	if errors.Is(err, ErrNotExecuted) {
		t.Fatalf("%+v, expected not %v", err, ErrNotExecuted)
	}
	if k := KindOf(err); k != MissingHamiltonian {
		t.Fatalf("%s, expected %s", k, MissingHamiltonian)
	}
	if k := KindOf(errors.New("other")); k != 0 {
		t.Fatalf("%s, expected 0", k)
	}
	if s := err.Error(); s != "initialize: missing hamiltonian: target" {
		t.Fatalf("%q", s)
	}
	if s := ErrNotExecuted.Error(); s != "not executed" {
		t.Fatalf("%q", s)
	}
}

func ExampleFromSet() {
	sg, err := FromSet([]float64{1, 2, 3}, Partition)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	h, _ := sg.Hamiltonian()
	for _, term := range h.Terms() {
		fmt.Printf("%s %g\n", term.Label, real(term.Coeff))
	}
	// Output:
	// ZII 1
	// IZI 4
	// IIZ 9
	// ZZI 4
	// ZIZ 6
	// IZZ 12
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	os.Exit(m.Run())
}
