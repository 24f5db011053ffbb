package mat

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableMatrix = "m"
)

// DiskMatrix is a sparse matrix stored in a sqlite database.
// Methods that cannot return errors panic, in the same way the in memory COO panics on dimension mismatches.
type DiskMatrix struct {
	Path string
	rows int
	cols int

	db *sql.DB
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// NewDiskMatrix creates a matrix at dbPath, overwriting any previous content, and fills it with dense.
func NewDiskMatrix(dbPath string, dense [][]complex128) (*DiskMatrix, error) {
	m := &DiskMatrix{Path: dbPath, rows: len(dense), cols: len(dense[0])}
	var err error
	m.db, err = newDB(m.Path)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err = m.inTx(ctx, func(tx execer) error {
		for i, row := range dense {
			for j, v := range row {
				if err := setItem(ctx, tx, i, j, v); err != nil {
					return errors.Wrap(err, "")
				}
			}
		}
		return nil
	})
	if err != nil {
		m.Close()
		return nil, errors.Wrap(err, "")
	}

	return m, nil
}

func (m *DiskMatrix) Close() error {
	var err error
	if err1 := m.db.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err1 := os.Remove(m.Path); err1 != nil && err == nil {
		err = err1
	}
	return err
}

func (m *DiskMatrix) Zeros(rows, cols int) {
	m.rows, m.cols = rows, cols
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := deleteAll(ctx, m.db); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (m *DiskMatrix) Scalar(v complex128) {
	m.rows, m.cols = 1, 1
	if err := m.scalar(v); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (m *DiskMatrix) scalar(v complex128) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := deleteAll(ctx, m.db); err != nil {
		return errors.Wrap(err, "")
	}
	if err := setItem(ctx, m.db, 0, 0, v); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func (m *DiskMatrix) Rows() int { return m.rows }
func (m *DiskMatrix) Cols() int { return m.cols }

func (a *DiskMatrix) COO() *COO {
	b, err := a.coo()
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return b
}

func (a *DiskMatrix) coo() (*COO, error) {
	b := &COO{rows: a.rows, cols: a.cols, Data: make([]vRowCol, 0)}

	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()
	sqlStr := fmt.Sprintf(`SELECT i, j, re, im FROM %s ORDER BY i, j`, tableMatrix)
	rows, err := a.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	for rows.Next() {
		var i, j int
		var re, im float64
		if err := rows.Scan(&i, &j, &re, &im); err != nil {
			return nil, errors.Wrap(err, "")
		}
		b.Data = append(b.Data, vRowCol{v: complex(re, im), row: i, col: j})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}

	return b, nil
}

func (a *DiskMatrix) Add(c complex128, b Matrix) {
	if err := a.add(c, b); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (a *DiskMatrix) add(c complex128, bMatrix Matrix) error {
	if bMatrix.Rows() != a.rows || bMatrix.Cols() != a.cols {
		return errors.Errorf("wrong dimensions %dx%d %dx%d", a.rows, a.cols, bMatrix.Rows(), bMatrix.Cols())
	}
	b := bMatrix.COO()

	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()
	return a.inTx(ctx, func(tx execer) error {
		sqlStr := fmt.Sprintf(`INSERT INTO %s (i, j, re, im) VALUES (?, ?, ?, ?)
			ON CONFLICT (i, j) DO UPDATE SET re = re + excluded.re, im = im + excluded.im`, tableMatrix)
		for _, bv := range b.Data {
			v := c * bv.v
			if v == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, sqlStr, bv.row, bv.col, real(v), imag(v)); err != nil {
				return errors.Wrap(err, fmt.Sprintf("%d %d", bv.row, bv.col))
			}
		}

		sqlStr = fmt.Sprintf(`DELETE FROM %s WHERE re = 0 AND im = 0`, tableMatrix)
		if _, err := tx.ExecContext(ctx, sqlStr); err != nil {
			return errors.Wrap(err, "")
		}
		return nil
	})
}

func (a *DiskMatrix) Kron(b *COO) {
	if err := a.kron(b); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (a *DiskMatrix) kron(b *COO) error {
	dir, err := os.MkdirTemp("", "")
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer os.RemoveAll(dir)

	if err := a.WriteCOO(dir); err != nil {
		return errors.Wrap(err, "")
	}
	cooReader, err := NewCOOReader(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer cooReader.Close()

	a.rows, a.cols = a.rows*b.rows, a.cols*b.cols

	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()
	return a.inTx(ctx, func(tx execer) error {
		if err := deleteAll(ctx, tx); err != nil {
			return errors.Wrap(err, fmt.Sprintf("db %s", a.Path))
		}

		for {
			av, err := cooReader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return errors.Wrap(err, "")
			}

			for _, bv := range b.Data {
				ky := av.row*b.rows + bv.row
				kx := av.col*b.cols + bv.col
				if err := setItem(ctx, tx, ky, kx, av.v*bv.v); err != nil {
					return errors.Wrap(err, "")
				}
			}
		}
		return nil
	})
}

func (m *DiskMatrix) WriteCOO(dir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()

	shapePath := filepath.Join(dir, FnameShape)
	if err := os.WriteFile(shapePath, []byte(fmt.Sprintf("%d,%d", m.rows, m.cols)), 0644); err != nil {
		return errors.Wrap(err, "")
	}

	sqlStr := fmt.Sprintf(`SELECT i, j, re, im FROM %s ORDER BY i, j`, tableMatrix)
	rows, err := m.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer rows.Close()

	cooPath := filepath.Join(dir, FnameCOO)
	cooF, err := os.Create(cooPath)
	if err != nil {
		return errors.Wrap(err, "")
	}
	w := csv.NewWriter(cooF)

	for rows.Next() {
		var i, j int
		var re, im float64
		if err1 := rows.Scan(&i, &j, &re, &im); err1 != nil && err == nil {
			err = errors.Wrap(err1, "")
			break
		}

		if err1 := w.Write([]string{FormatNumpy(complex(re, im)), strconv.Itoa(i), strconv.Itoa(j)}); err1 != nil && err == nil {
			err = errors.Wrap(err1, "")
			break
		}
	}
	if err1 := rows.Err(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}

	w.Flush()
	if err1 := w.Error(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	if err1 := cooF.Close(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	return err
}

func (m *DiskMatrix) inTx(ctx context.Context, fn func(execer) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func setItem(ctx context.Context, db execer, i, j int, v complex128) error {
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (i, j, re, im) VALUES (?, ?, ?, ?)`, tableMatrix)
	args := []any{i, j, real(v), imag(v)}
	if v == 0 {
		sqlStr = fmt.Sprintf(`DELETE FROM %s WHERE i=? AND j=?`, tableMatrix)
		args = []any{i, j}
	}
	if _, err := db.ExecContext(ctx, sqlStr, args...); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s %#v", sqlStr, args))
	}
	return nil
}

func newDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	// A single connection keeps transactions and plain statements on the same database handle.
	db.SetMaxOpenConns(1)

	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}

	return db, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableMatrix)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr = fmt.Sprintf(`CREATE TABLE %s (i INTEGER, j INTEGER, re REAL, im REAL, PRIMARY KEY (i, j)) STRICT`, tableMatrix)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func deleteAll(ctx context.Context, db execer) error {
	sqlStr := fmt.Sprintf(`DELETE FROM %s`, tableMatrix)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
