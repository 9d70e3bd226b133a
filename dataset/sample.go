// Package dataset stores branching samples for imitation learning.
//
// A file starts with a 6 byte header (magic "L2BD", version, codec) and
// holds one compressed block per sample. Samples keep NaN and infinite
// feature values bit for bit.
package dataset

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/bartolsthoorn/learn2branch/observation"
	"github.com/bartolsthoorn/learn2branch/tensor"
)

// Sample is one decision point of an episode.
type Sample struct {
	Episode uuid.UUID
	Step    int

	Observation observation.NodeBipartiteObs
	// Node is nil when no node was focused.
	Node *observation.FocusNodeObs

	// Candidates are the columns the policy could choose from.
	Candidates []int
	Action     int
	Reward     float64
}

type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8)    { e.buf = append(e.buf, v) }
func (e *encoder) u32(v uint32)  { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *encoder) i64(v int64)   { e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v)) }
func (e *encoder) f64(v float64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v)) }

func (e *encoder) boolean(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) ints(v []int) {
	e.u32(uint32(len(v)))
	for _, x := range v {
		e.i64(int64(x))
	}
}

func (e *encoder) floats(v []float64) {
	e.u32(uint32(len(v)))
	for _, x := range v {
		e.f64(x)
	}
}

func (e *encoder) dense(d tensor.Dense) {
	e.u32(uint32(d.Rows))
	e.u32(uint32(d.Cols))
	e.floats(d.Data)
}

func (e *encoder) coo(m tensor.COO) {
	e.u32(uint32(m.Rows))
	e.u32(uint32(m.Cols))
	e.ints(m.RowIdx)
	e.ints(m.ColIdx)
	e.floats(m.Values)
}

func (e *encoder) sample(s *Sample) {
	e.buf = append(e.buf, s.Episode[:]...)
	e.i64(int64(s.Step))
	e.i64(int64(s.Action))
	e.f64(s.Reward)
	e.ints(s.Candidates)

	e.boolean(s.Node != nil)
	if n := s.Node; n != nil {
		e.i64(n.Number)
		e.i64(int64(n.Depth))
		e.f64(n.LowerBound)
		e.f64(n.Estimate)
		e.i64(int64(n.NAddedConss))
		e.boolean(n.HasParent)
		e.i64(n.ParentNumber)
		e.f64(n.ParentLowerBound)
	}

	e.dense(s.Observation.ColumnFeatures)
	e.dense(s.Observation.RowFeatures)
	e.coo(s.Observation.Matrix)
}

type decoder struct {
	buf []byte
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.buf) {
		d.err = fmt.Errorf("%w: truncated record", ErrCorrupt)
		return nil
	}
	b := d.buf[:n]
	d.buf = d.buf[n:]
	return b
}

func (d *decoder) u8() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) i64() int64 {
	if b := d.take(8); b != nil {
		return int64(binary.LittleEndian.Uint64(b))
	}
	return 0
}

func (d *decoder) f64() float64 {
	if b := d.take(8); b != nil {
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

func (d *decoder) boolean() bool { return d.u8() != 0 }

// length reads a slice length and checks it against the remaining bytes.
func (d *decoder) length(elem int) int {
	n := int(d.u32())
	if d.err == nil && n*elem > len(d.buf) {
		d.err = fmt.Errorf("%w: length %d exceeds record", ErrCorrupt, n)
		return 0
	}
	return n
}

func (d *decoder) ints() []int {
	n := d.length(8)
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = int(d.i64())
	}
	return out
}

func (d *decoder) floats() []float64 {
	n := d.length(8)
	out := make([]float64, n)
	for i := range out {
		out[i] = d.f64()
	}
	return out
}

func (d *decoder) dense() tensor.Dense {
	rows, cols := int(d.u32()), int(d.u32())
	data := d.floats()
	if d.err == nil && len(data) != rows*cols {
		d.err = fmt.Errorf("%w: dense %dx%d with %d values", ErrCorrupt, rows, cols, len(data))
	}
	return tensor.Dense{Rows: rows, Cols: cols, Data: data}
}

func (d *decoder) coo() tensor.COO {
	m := tensor.COO{Rows: int(d.u32()), Cols: int(d.u32())}
	m.RowIdx = d.ints()
	m.ColIdx = d.ints()
	m.Values = d.floats()
	if d.err == nil {
		if err := m.Validate(); err != nil {
			d.err = fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	return m
}

func (d *decoder) sample() (*Sample, error) {
	s := &Sample{}
	copy(s.Episode[:], d.take(len(s.Episode)))
	s.Step = int(d.i64())
	s.Action = int(d.i64())
	s.Reward = d.f64()
	s.Candidates = d.ints()

	if d.boolean() {
		s.Node = &observation.FocusNodeObs{
			Number:           d.i64(),
			Depth:            int(d.i64()),
			LowerBound:       d.f64(),
			Estimate:         d.f64(),
			NAddedConss:      int(d.i64()),
			HasParent:        d.boolean(),
			ParentNumber:     d.i64(),
			ParentLowerBound: d.f64(),
		}
	}

	s.Observation.ColumnFeatures = d.dense()
	s.Observation.RowFeatures = d.dense()
	s.Observation.Matrix = d.coo()

	if d.err == nil && len(d.buf) != 0 {
		d.err = fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(d.buf))
	}
	if d.err != nil {
		return nil, d.err
	}
	return s, nil
}
