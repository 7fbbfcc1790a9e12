package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a row-major dense float64 matrix. A Matrix with no rows or no
// columns carries no storage and reports zero dimensions.
type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		if nr*nc != 0 {
			m = mat.NewDense(nr, nc, dataO[0])
		}
	} else if nr*nc != 0 {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// NewMatrixFromRows copies a ragged-free set of rows into a new Matrix.
func NewMatrixFromRows(rows [][]float64) (R Matrix, err error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	nc := len(rows[0])
	data := make([]float64, 0, len(rows)*nc)
	for i, row := range rows {
		if len(row) != nc {
			err = fmt.Errorf("row %d has %d columns, expected %d", i, len(row), nc)
			return
		}
		data = append(data, row...)
	}
	R = NewMatrix(len(rows), nc, data)
	return
}

// Dims and At are the read side of mat.Matrix.
func (m Matrix) Dims() (r, c int) {
	if m.M == nil {
		return 0, 0
	}
	return m.M.Dims()
}
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }

func (m Matrix) IsEmpty() bool {
	nr, nc := m.Dims()
	return nr*nc == 0
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.M.SetRow(i, data)
	return m
}

// RowView returns the storage backing row i, without copying.
func (m Matrix) RowView(i int) []float64 {
	return m.M.RawRowView(i)
}

func (m Matrix) Row(i int) (r []float64) {
	_, nc := m.Dims()
	r = make([]float64, nc)
	copy(r, m.M.RawRowView(i))
	return
}

func (m Matrix) Data() []float64 {
	if m.M == nil {
		return nil
	}
	return m.M.RawMatrix().Data
}
