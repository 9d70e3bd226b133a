package tensor

import "fmt"

// COO is a sparse matrix in coordinate format. Entry k is
// (RowIdx[k], ColIdx[k]) = Values[k].
type COO struct {
	Rows   int
	Cols   int
	RowIdx []int
	ColIdx []int
	Values []float64
}

// NNZ returns the number of stored entries.
func (m COO) NNZ() int { return len(m.Values) }

// Shape returns the number of rows and columns.
func (m COO) Shape() (int, int) { return m.Rows, m.Cols }

// Append stores one entry.
func (m *COO) Append(row, col int, v float64) {
	m.RowIdx = append(m.RowIdx, row)
	m.ColIdx = append(m.ColIdx, col)
	m.Values = append(m.Values, v)
}

// Clone returns a deep copy.
func (m COO) Clone() COO {
	return COO{
		Rows:   m.Rows,
		Cols:   m.Cols,
		RowIdx: append([]int(nil), m.RowIdx...),
		ColIdx: append([]int(nil), m.ColIdx...),
		Values: append([]float64(nil), m.Values...),
	}
}

// ToDense expands the matrix. Duplicate coordinates are summed.
func (m COO) ToDense() Dense {
	d := NewDense(m.Rows, m.Cols)
	for k, v := range m.Values {
		d.Data[m.RowIdx[k]*m.Cols+m.ColIdx[k]] += v
	}
	return d
}

// Validate checks that every coordinate is inside the matrix shape.
func (m COO) Validate() error {
	if len(m.RowIdx) != len(m.Values) || len(m.ColIdx) != len(m.Values) {
		return fmt.Errorf("tensor: coo index/value length mismatch (%d, %d, %d)",
			len(m.RowIdx), len(m.ColIdx), len(m.Values))
	}
	for k := range m.Values {
		if m.RowIdx[k] < 0 || m.RowIdx[k] >= m.Rows || m.ColIdx[k] < 0 || m.ColIdx[k] >= m.Cols {
			return fmt.Errorf("tensor: coo entry %d at (%d, %d) outside %dx%d",
				k, m.RowIdx[k], m.ColIdx[k], m.Rows, m.Cols)
		}
	}
	return nil
}

func (m COO) String() string {
	return fmt.Sprintf("COO(%dx%d, nnz=%d)", m.Rows, m.Cols, m.NNZ())
}
