package solver

import "iter"

// View is a finite, read-only sequence of handles over one of the store's
// entity arrays. It is lazy and restartable: every call to All starts again
// at index 0. A view dies with the generation it was created in.
type View[P any] struct {
	s    *Store
	gen  uint64
	n    int
	elem func(s *Store, gen uint64, i int) P
}

func newView[P any](s *Store, gen uint64, n int, elem func(*Store, uint64, int) P) View[P] {
	return View[P]{s: s, gen: gen, n: n, elem: elem}
}

// Len returns the number of entities.
func (v View[P]) Len() int {
	v.s.check(v.gen)
	return v.n
}

// At returns the handle at position i. It panics when i is out of range.
func (v View[P]) At(i int) P {
	v.s.check(v.gen)
	if i < 0 || i >= v.n {
		panic("solver: view index out of range")
	}
	return v.elem(v.s, v.gen, i)
}

// All yields every (position, handle) pair in array order.
func (v View[P]) All() iter.Seq2[int, P] {
	return func(yield func(int, P) bool) {
		for i := 0; i < v.n; i++ {
			v.s.check(v.gen)
			if !yield(i, v.elem(v.s, v.gen, i)) {
				return
			}
		}
	}
}

func varAt(s *Store, gen uint64, i int) VarRef { return VarRef{s: s, gen: gen, i: i} }
func colAt(s *Store, gen uint64, i int) ColRef { return ColRef{s: s, gen: gen, i: i} }
func rowAt(s *Store, gen uint64, i int) RowRef { return RowRef{s: s, gen: gen, i: i} }
