// Package tensor holds the numeric containers handed to learning code:
// row-major dense matrices and coordinate-format sparse matrices.
package tensor

import "fmt"

// Dense is a row-major matrix of float64 values.
// Element (i, j) lives at Data[i*Cols+j].
type Dense struct {
	Rows int
	Cols int
	Data []float64
}

// NewDense allocates a zero matrix of the given shape.
func NewDense(rows, cols int) Dense {
	return Dense{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Shape returns the number of rows and columns.
func (m Dense) Shape() (int, int) { return m.Rows, m.Cols }

// Size returns the number of elements.
func (m Dense) Size() int { return m.Rows * m.Cols }

// At returns element (i, j).
func (m Dense) At(i, j int) float64 { return m.Data[i*m.Cols+j] }

// Set sets element (i, j).
func (m Dense) Set(i, j int, v float64) { m.Data[i*m.Cols+j] = v }

// Row returns row i as a sub-slice sharing the matrix storage.
func (m Dense) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Clone returns a deep copy.
func (m Dense) Clone() Dense {
	n := Dense{Rows: m.Rows, Cols: m.Cols, Data: make([]float64, len(m.Data))}
	copy(n.Data, m.Data)
	return n
}

func (m Dense) String() string {
	return fmt.Sprintf("Dense(%dx%d)", m.Rows, m.Cols)
}
