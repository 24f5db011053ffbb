package anneal

import (
	"cmp"
	"context"
	"math/cmplx"
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"

	"github.com/fumin/spinglass/mat"
	"github.com/fumin/spinglass/pauli"
)

// Spectrum is a materialized Hamiltonian together with its eigenvalues.
type Spectrum struct {
	Matrix *mat.COO
	Values []complex128
}

// Gap returns the difference between the two smallest eigenvalue magnitudes.
// Eigenvalues are ordered by absolute value before taking the difference, so the two may come from opposite ends of the spectrum.
func (s Spectrum) Gap() (float64, error) {
	if len(s.Values) < 2 {
		return 0, errors.Errorf("%d eigenvalues", len(s.Values))
	}
	abs := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		abs = append(abs, cmplx.Abs(v))
	}
	slices.SortFunc(abs, cmp.Compare[float64])
	return abs[1] - abs[0], nil
}

// Backend materializes and diagonalizes Hamiltonians.
type Backend interface {
	Diagonalize(context.Context, *pauli.Op) (Spectrum, error)
}

// MemoryBackend assembles Hamiltonians in memory.
type MemoryBackend struct{}

func (MemoryBackend) Diagonalize(ctx context.Context, h *pauli.Op) (Spectrum, error) {
	return diagonalize(h.COO())
}

// DiskBackend assembles Hamiltonians in sqlite databases under Dir, or the system temporary directory if Dir is empty.
// Both the Hamiltonian and its Kronecker buffer live on disk, and each call removes its databases before returning.
type DiskBackend struct {
	Dir string
}

func (b DiskBackend) Diagonalize(ctx context.Context, h *pauli.Op) (Spectrum, error) {
	dir, err := os.MkdirTemp(b.Dir, "hamiltonian")
	if err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}
	defer os.RemoveAll(dir)

	m, err := mat.NewDiskMatrix(filepath.Join(dir, "h.db"), [][]complex128{{0}})
	if err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}
	defer m.Close()
	buf, err := mat.NewDiskMatrix(filepath.Join(dir, "buf.db"), [][]complex128{{0}})
	if err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}
	defer buf.Close()

	if err := materialize(ctx, h, m, buf); err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}

	cooDir := filepath.Join(dir, "coo")
	if err := os.Mkdir(cooDir, os.ModePerm); err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}
	if err := m.WriteCOO(cooDir); err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}
	coo, err := mat.ReadCOO(cooDir)
	if err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}
	return diagonalize(coo)
}

// materialize is like pauli.Op.MaterializeTo, but recovers from the panics of disk matrices.
func materialize(ctx context.Context, h *pauli.Op, dst, buf mat.Matrix) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "")
	}
	h.MaterializeTo(dst, buf)
	return nil
}

func diagonalize(m *mat.COO) (Spectrum, error) {
	vvs, err := m.Eigen(false)
	if err != nil {
		return Spectrum{}, errors.Wrap(err, "")
	}
	s := Spectrum{Matrix: m, Values: make([]complex128, 0, len(vvs))}
	for _, vv := range vvs {
		s.Values = append(s.Values, vv.Val)
	}
	return s, nil
}
