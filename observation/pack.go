package observation

import (
	"maps"

	"github.com/bartolsthoorn/learn2branch/solver"
)

// TupleFunction packs observation functions together and returns their
// observations positionally.
type TupleFunction struct {
	fns []Function[any]
}

// Tuple returns a TupleFunction over fns.
func Tuple(fns ...Function[any]) *TupleFunction {
	return &TupleFunction{fns: fns}
}

// Reset resets every packed function.
func (t *TupleFunction) Reset(s *solver.State) {
	for _, f := range t.fns {
		f.Reset(s)
	}
}

// Obtain returns one observation per packed function, in order.
func (t *TupleFunction) Obtain(s *solver.State) []any {
	out := make([]any, len(t.fns))
	for i, f := range t.fns {
		out[i] = f.Obtain(s)
	}
	return out
}

// Clone clones every packed function.
func (t *TupleFunction) Clone() Function[[]any] {
	fns := make([]Function[any], len(t.fns))
	for i, f := range t.fns {
		fns[i] = f.Clone()
	}
	return &TupleFunction{fns: fns}
}

// DictFunction packs named observation functions together and returns their
// observations by name.
type DictFunction struct {
	fns map[string]Function[any]
}

// Dict returns a DictFunction over fns. The map is copied.
func Dict(fns map[string]Function[any]) *DictFunction {
	return &DictFunction{fns: maps.Clone(fns)}
}

// Reset resets every packed function.
func (d *DictFunction) Reset(s *solver.State) {
	for _, f := range d.fns {
		f.Reset(s)
	}
}

// Obtain returns the observation of every packed function under its name.
func (d *DictFunction) Obtain(s *solver.State) map[string]any {
	out := make(map[string]any, len(d.fns))
	for name, f := range d.fns {
		out[name] = f.Obtain(s)
	}
	return out
}

// Clone clones every packed function.
func (d *DictFunction) Clone() Function[map[string]any] {
	fns := make(map[string]Function[any], len(d.fns))
	for name, f := range d.fns {
		fns[name] = f.Clone()
	}
	return &DictFunction{fns: fns}
}
