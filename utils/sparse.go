package utils

import (
	"github.com/james-bowman/sparse"
)

// DOK accumulates a sparse matrix one entry at a time, then converts to CSR
// for traversal.
type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{sparse.NewDOK(nr, nc)}
	return
}

func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m DOK) ToCSR() CSR {
	return CSR{M: m.M.ToCSR()}
}

type CSR struct {
	M *sparse.CSR
}

func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }

// ColumnCounts returns the number of stored non-zeros in each column
func (m CSR) ColumnCounts() (counts []int) {
	_, nc := m.Dims()
	counts = make([]int, nc)
	m.M.DoNonZero(func(i, j int, v float64) {
		if v != 0 {
			counts[j]++
		}
	})
	return
}

// RowCounts returns the number of stored non-zeros in each row
func (m CSR) RowCounts() (counts []int) {
	nr, _ := m.Dims()
	counts = make([]int, nr)
	m.M.DoNonZero(func(i, j int, v float64) {
		if v != 0 {
			counts[i]++
		}
	})
	return
}
