package anneal

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/pkg/errors"

	"github.com/fumin/spinglass"
)

func TestSpectrumGap(t *testing.T) {
	t.Parallel()
	tests := []struct {
		values   []complex128
		expected float64
	}{
		{values: []complex128{-3, 1, 2}, expected: 1},
		{values: []complex128{-2, -1, 0.5}, expected: 0.5},
		{values: []complex128{-1, 1}, expected: 0},
		{values: []complex128{-4, -2, 0, 2, 4}, expected: 2},
	}
	for _, test := range tests {
		gap, err := Spectrum{Values: test.values}.Gap()
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if gap != test.expected {
			t.Fatalf("%v %f, expected %f", test.values, gap, test.expected)
		}
	}

	if _, err := (Spectrum{Values: []complex128{1}}).Gap(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDiskBackend(t *testing.T) {
	t.Parallel()
	target, err := spinglass.EncodeGraph(completeGraph(3), spinglass.HamiltonianPath)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	e, err := NewEngine(target)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h, err := e.Hamiltonian(0.3)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	dir := t.TempDir()
	disk, err := DiskBackend{Dir: dir}.Diagonalize(context.Background(), h)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	memory, err := MemoryBackend{}.Diagonalize(context.Background(), h)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if len(disk.Values) != 8 {
		t.Fatalf("%d, expected 8", len(disk.Values))
	}
	for i := range memory.Values {
		if math.Abs(real(memory.Values[i])-real(disk.Values[i])) > 1e-9 {
			t.Fatalf("%d %v, expected %v", i, disk.Values[i], memory.Values[i])
		}
	}
	md, dd := memory.Matrix.Dense(), disk.Matrix.Dense()
	for i := range md {
		for j := range md[i] {
			if math.Abs(real(md[i][j])-real(dd[i][j])) > 1e-12 {
				t.Fatalf("%d %d %v, expected %v", i, j, dd[i][j], md[i][j])
			}
		}
	}

	// Each database is removed after use.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("%v, expected empty", entries)
	}
}

func TestDiskBackendEngine(t *testing.T) {
	t.Parallel()
	target, err := spinglass.EncodeSet([]float64{1, 2}, spinglass.Partition)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	memory, err := NewEngine(target, NewOptions().Steps(3))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	expected, err := memory.Execute(context.Background())
	if err != nil {
		t.Fatalf("%+v", err)
	}

	disk, err := NewEngine(target, NewOptions().Steps(3).Backend(DiskBackend{Dir: t.TempDir()}))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	res, err := disk.Execute(context.Background())
	if err != nil {
		t.Fatalf("%+v", err)
	}

	for i, g := range expected.SpectralGaps {
		if math.Abs(g-res.SpectralGaps[i]) > 1e-9 {
			t.Fatalf("%d %f, expected %f", i, res.SpectralGaps[i], g)
		}
	}
	for i := range expected.States {
		checkState(t, expected.States[i], res.States[i], 1e-12)
	}
}

func TestDiskBackendCanceled(t *testing.T) {
	t.Parallel()
	h, err := spinglass.EncodeSet([]float64{1, 2}, spinglass.Partition)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (DiskBackend{Dir: t.TempDir()}).Diagonalize(ctx, h); !errors.Is(err, context.Canceled) {
		t.Fatalf("%+v, expected %v", err, context.Canceled)
	}
}
