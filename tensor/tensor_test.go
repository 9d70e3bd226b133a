package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseRowMajor(t *testing.T) {
	m := NewDense(2, 3)
	m.Set(1, 2, 7)
	m.Set(0, 1, 3)

	assert.Equal(t, 6, m.Size())
	assert.Equal(t, []float64{0, 3, 0, 0, 0, 7}, m.Data)
	assert.Equal(t, []float64{0, 0, 7}, m.Row(1))

	c := m.Clone()
	c.Set(0, 0, 1)
	assert.Equal(t, 0.0, m.At(0, 0))
}

func TestCOOToDense(t *testing.T) {
	var m COO
	m.Rows, m.Cols = 2, 2
	m.Append(0, 1, 2.5)
	m.Append(1, 0, -1)
	m.Append(1, 0, -1)

	require.NoError(t, m.Validate())
	assert.Equal(t, 3, m.NNZ())
	assert.Equal(t, []float64{0, 2.5, -2, 0}, m.ToDense().Data)
}

func TestCOOValidate(t *testing.T) {
	m := COO{Rows: 1, Cols: 1}
	m.Append(0, 3, 1)
	assert.Error(t, m.Validate())

	m = COO{Rows: 1, Cols: 1, RowIdx: []int{0}, Values: []float64{1}}
	assert.Error(t, m.Validate())
}
