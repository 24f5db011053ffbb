package mat

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	FnameShape = "shape.csv"
	FnameCOO   = "coo.csv"

	// hermitianTol is the tolerance when checking that a matrix is real symmetric.
	hermitianTol = 1e-12
)

var (
	Identity = [][]complex128{
		{1, 0},
		{0, 1},
	}
	PauliX = [][]complex128{
		{0, 1},
		{1, 0},
	}
	PauliZ = [][]complex128{
		{1, 0},
		{0, -1},
	}
)

// Matrix is a matrix that can be assembled from Kronecker products and sums.
// It is implemented by the in memory COO and the sqlite backed DiskMatrix.
type Matrix interface {
	Zeros(int, int)
	Scalar(complex128)
	Rows() int
	Cols() int

	Add(complex128, Matrix)
	Kron(*COO)
	COO() *COO
}

type vRowCol struct {
	v   complex128
	row int
	col int
}

// COO is a sparse matrix in coordinate format, with Data sorted in row major order.
type COO struct {
	rows int
	cols int
	Data []vRowCol
}

func M(dense [][]complex128) *COO {
	m := &COO{rows: len(dense), cols: len(dense[0]), Data: make([]vRowCol, 0)}
	for i, row := range dense {
		for j, v := range row {
			if v == 0 {
				continue
			}
			m.Data = append(m.Data, vRowCol{v: v, row: i, col: j})
		}
	}
	return m
}

func COOZeros(rows, cols int) *COO {
	m := M([][]complex128{{0}})
	m.Zeros(rows, cols)
	return m
}

func (m *COO) Rows() int { return m.rows }
func (m *COO) Cols() int { return m.cols }

func (m *COO) Zeros(rows, cols int) {
	m.rows, m.cols = rows, cols
	m.Data = m.Data[:0]
}

func (m *COO) Scalar(v complex128) {
	m.rows, m.cols = 1, 1
	m.Data = m.Data[:0]
	m.Data = append(m.Data, vRowCol{v: v, row: 0, col: 0})
}

// At returns the element at row i and column j.
func (m *COO) At(i, j int) complex128 {
	k, ok := slices.BinarySearchFunc(m.Data, vRowCol{row: i, col: j}, rowMajor)
	if !ok {
		return 0
	}
	return m.Data[k].v
}

// Diagonal returns the diagonal of a square matrix.
func (m *COO) Diagonal() []complex128 {
	diag := make([]complex128, min(m.rows, m.cols))
	for _, v := range m.Data {
		if v.row == v.col {
			diag[v.row] = v.v
		}
	}
	return diag
}

func (a *COO) Equal(b *COO) bool {
	if a.rows != b.rows {
		return false
	}
	if a.cols != b.cols {
		return false
	}
	if len(a.Data) != len(b.Data) {
		return false
	}
	for i, av := range a.Data {
		bv := b.Data[i]
		if av != bv {
			return false
		}
	}
	return true
}

// Add sets a to a + c*b.
// b must either be a scalar, a column vector broadcast across columns, or have the same shape as a.
func (a *COO) Add(c complex128, bMatrix Matrix) {
	b := bMatrix.COO()
	bm := make(map[[2]int]complex128, len(b.Data))
	for _, v := range b.Data {
		bm[[2]int{v.row, v.col}] = v.v
	}

	for i, av := range a.Data {
		var byx [2]int
		switch {
		case b.rows == 1 && b.cols == 1:
		case b.rows == a.rows && b.cols == 1:
			byx[0] = av.row
		case b.rows == a.rows && b.cols == a.cols:
			byx[0], byx[1] = av.row, av.col
		default:
			panic(fmt.Sprintf("wrong dimensions %dx%d %dx%d", a.rows, a.cols, b.rows, b.cols))
		}
		bv := bm[byx]
		delete(bm, byx)

		a.Data[i].v = av.v + c*bv
	}

	a.Data = slices.DeleteFunc(a.Data, func(v vRowCol) bool {
		return v.v == 0
	})
	if b.rows == a.rows && b.cols == a.cols {
		for yx, bv := range bm {
			if c*bv == 0 {
				continue
			}
			a.Data = append(a.Data, vRowCol{v: c * bv, row: yx[0], col: yx[1]})
		}
	}
	slices.SortFunc(a.Data, rowMajor)
}

// MulVec returns the matrix vector product m*x.
func (m *COO) MulVec(x []complex128) []complex128 {
	if len(x) != m.cols {
		panic(fmt.Sprintf("wrong dimensions %dx%d %d", m.rows, m.cols, len(x)))
	}
	y := make([]complex128, m.rows)
	for _, v := range m.Data {
		y[v.row] += v.v * x[v.col]
	}
	return y
}

func (a *COO) Kron(b *COO) {
	rows := a.rows * b.rows
	cols := a.cols * b.cols
	a.rows, a.cols = rows, cols

	prevElemNum := len(a.Data)
	for i := prevElemNum - 1; i >= 0; i-- {
		av := a.Data[i]
		a.Data[i].v = 0
		for _, bv := range b.Data {
			ky := av.row*b.rows + bv.row
			kx := av.col*b.cols + bv.col
			a.Data = append(a.Data, vRowCol{v: av.v * bv.v, row: ky, col: kx})
		}
	}

	a.Data = slices.DeleteFunc(a.Data, func(v vRowCol) bool {
		return v.v == 0
	})
	slices.SortFunc(a.Data, rowMajor)
}

func (m *COO) COO() *COO {
	return m
}

func (m *COO) Dense() [][]complex128 {
	dense := make([][]complex128, m.rows)
	for i := range dense {
		dense[i] = make([]complex128, m.cols)
	}

	for _, v := range m.Data {
		dense[v.row][v.col] = v.v
	}

	return dense
}

type COOReader struct {
	f *os.File
	r *csv.Reader
	i int

	prev vRowCol
}

func NewCOOReader(dir string) (*COOReader, error) {
	r := &COOReader{i: -1}

	cooPath := filepath.Join(dir, FnameCOO)
	var err error
	r.f, err = os.Open(cooPath)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	r.r = csv.NewReader(r.f)
	return r, nil
}

func (r *COOReader) Close() error {
	return r.f.Close()
}

// Read returns the next element, io.EOF when there are no more.
// An empty value or row field repeats the previously read one.
func (r *COOReader) Read() (vRowCol, error) {
	r.i++
	record, err := r.r.Read()
	if err == io.EOF {
		return vRowCol{}, io.EOF
	}
	if err != nil {
		return vRowCol{}, errors.Wrap(err, fmt.Sprintf("%d", r.i))
	}
	if len(record) != 3 {
		return vRowCol{}, errors.Errorf("%d %#v", r.i, record)
	}

	var vrc vRowCol
	switch {
	case record[0] == "":
		vrc.v = r.prev.v
	default:
		s := strings.ReplaceAll(record[0], "j", "i")
		vrc.v, err = strconv.ParseComplex(s, 128)
		if err != nil {
			return vRowCol{}, errors.Wrap(err, fmt.Sprintf("%d %#v", r.i, record))
		}
	}

	switch {
	case record[1] == "":
		vrc.row = r.prev.row
	default:
		vrc.row, err = strconv.Atoi(record[1])
		if err != nil {
			return vRowCol{}, errors.Wrap(err, fmt.Sprintf("%d %#v", r.i, record))
		}
	}

	vrc.col, err = strconv.Atoi(record[2])
	if err != nil {
		return vRowCol{}, errors.Wrap(err, fmt.Sprintf("%d %#v", r.i, record))
	}

	r.prev = vrc
	return vrc, nil
}

func ReadCOO(dir string) (*COO, error) {
	m := M([][]complex128{{0}})
	var err error
	m.rows, m.cols, err = readShape(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	r, err := NewCOOReader(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer r.Close()
	for {
		v, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "")
		}

		m.Data = append(m.Data, v)
	}

	return m, nil
}

func readShape(dir string) (int, int, error) {
	f, err := os.Open(filepath.Join(dir, FnameShape))
	if err != nil {
		return -1, -1, errors.Wrap(err, "")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return -1, -1, errors.Wrap(err, "")
	}
	if len(records) == 0 {
		return -1, -1, errors.Errorf("empty")
	}
	row := records[0]

	if len(row) != 2 {
		return -1, -1, errors.Errorf("%#v", row)
	}
	i, err := strconv.Atoi(row[0])
	if err != nil {
		return -1, -1, errors.Wrap(err, fmt.Sprintf("%#v", row))
	}
	j, err := strconv.Atoi(row[1])
	if err != nil {
		return -1, -1, errors.Wrap(err, fmt.Sprintf("%#v", row))
	}

	return i, j, nil
}

func (m *COO) String() string {
	lines := []string{}
	for i := 0; i < m.rows; i++ {
		cs := []string{}
		for j := 0; j < m.cols; j++ {
			v := m.At(i, j)
			switch {
			case imag(v) == 0:
				cs = append(cs, format(real(v)))
			case real(v) == 0:
				cs = append(cs, format(imag(v))+"i")
			default:
				cs = append(cs, format(real(v))+"+"+format(imag(v))+"i")
			}
		}
		l := strings.Join(cs, "\t")
		lines = append(lines, l)
	}

	return strings.Join(lines, "\n")
}

type ValVec struct {
	Val complex128
	Vec []complex128
}

// Eigen returns the eigenvalues of a real symmetric matrix in ascending order.
// Eigenvectors are filled in only when vectors is true.
func (m *COO) Eigen(vectors bool) ([]ValVec, error) {
	if m.rows != m.cols {
		return nil, errors.Errorf("not square %dx%d", m.rows, m.cols)
	}
	sym := mat.NewSymDense(m.rows, nil)
	for _, v := range m.Data {
		if math.Abs(imag(v.v)) > hermitianTol {
			return nil, errors.Errorf("not real %d %d %v", v.row, v.col, v.v)
		}
		if d := m.At(v.col, v.row) - v.v; math.Abs(real(d)) > hermitianTol {
			return nil, errors.Errorf("not symmetric %d %d %v", v.row, v.col, v.v)
		}
		if v.row <= v.col {
			sym.SetSym(v.row, v.col, real(v.v))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, vectors); !ok {
		return nil, errors.Errorf("eigen factorization failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	if vectors {
		eig.VectorsTo(&vecs)
	}

	vvs := make([]ValVec, 0, len(vals))
	for i, v := range vals {
		vv := ValVec{Val: complex(v, 0)}
		if vectors {
			vv.Vec = make([]complex128, 0, m.rows)
			for j := 0; j < m.rows; j++ {
				vv.Vec = append(vv.Vec, complex(vecs.At(j, i), 0))
			}
		}
		vvs = append(vvs, vv)
	}
	slices.SortFunc(vvs, func(a, b ValVec) int { return cmp.Compare(real(a.Val), real(b.Val)) })

	return vvs, nil
}

func rowMajor(a, b vRowCol) int {
	if c := cmp.Compare(a.row, b.row); c != 0 {
		return c
	}
	return cmp.Compare(a.col, b.col)
}

func format(v float64) string {
	// If v is 0 or -0, return "0" immediately to avoid returning "-0".
	if v == 0 {
		return " 0"
	}

	s := fmt.Sprintf("%v", v)

	// Add a space before non-negative numbers to align with other negative numbers in the same column.
	if v >= 0 {
		s = " " + s
	}

	return s
}

func FormatNumpy(v complex128) string {
	switch {
	case imag(v) == 0:
		return strconv.FormatFloat(real(v), 'g', -1, 64)
	default:
		s := fmt.Sprintf("%v", v)
		s = strings.ReplaceAll(s, "i", "j")
		return s
	}
}
