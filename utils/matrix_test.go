package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	{ // Allocation and row access
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		nr, nc := M.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 3, nc)
		assert.Equal(t, []float64{4, 5, 6}, M.Row(1))
		assert.Equal(t, 6., M.At(1, 2))
		r := M.Row(0)
		r[0] = 100
		assert.Equal(t, 1., M.At(0, 0))
		M.RowView(0)[0] = 100
		assert.Equal(t, 100., M.At(0, 0))
	}
	{ // Empty matrices carry no storage
		M := NewMatrix(0, 3)
		nr, nc := M.Dims()
		assert.Zero(t, nr)
		assert.Zero(t, nc)
		assert.True(t, M.IsEmpty())
		assert.Nil(t, M.Data())
		var Z Matrix
		assert.True(t, Z.IsEmpty())
	}
	{
		assert.Panics(t, func() { NewMatrix(2, 2, []float64{1, 2, 3}) })
	}
	{ // From rows
		M, err := NewMatrixFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, M.Data())
		_, err = NewMatrixFromRows([][]float64{{1, 2}, {3}})
		assert.Error(t, err)
	}
	{
		M := NewMatrix(2, 2)
		M.SetRow(1, []float64{2, 3})
		assert.Equal(t, []float64{0, 0, 2, 3}, M.Data())
	}
}

func TestIsNan(t *testing.T) {
	assert.False(t, IsNan(NewMatrix(2, 2, []float64{1, 2, 3, 4})))
	assert.True(t, IsNan(NewMatrix(1, 2, []float64{1, math.NaN()})))
	assert.True(t, IsNan([]float64{math.Inf(-1)}))
	assert.True(t, IsNan(float32(math.NaN())))
	assert.False(t, IsNan("not a number"))
	assert.Contains(t, GetMemUsage(), "Alloc = ")
}
