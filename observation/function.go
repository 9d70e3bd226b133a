// Package observation turns a solver.State into values a decision policy
// can consume.
//
// Every extractor implements Function[T]. Extractors only read the state,
// and everything they return is freshly allocated and owned by the caller.
package observation

import (
	"github.com/bartolsthoorn/learn2branch/solver"
)

// Function computes an observation of type T from the solver state.
type Function[T any] interface {
	// Reset is called once at the start of every episode.
	Reset(s *solver.State)
	// Obtain computes the observation. It must not modify solver state
	// and must not retain s or any handle obtained from it.
	Obtain(s *solver.State) T
	// Clone returns an independent copy of the function configuration.
	Clone() Function[T]
}

// None is the empty observation.
type None struct{}

// Nothing is an observation function that observes nothing.
type Nothing struct{}

var _ Function[None] = Nothing{}

func (Nothing) Reset(*solver.State) {}
func (Nothing) Obtain(*solver.State) None { return None{} }
func (Nothing) Clone() Function[None] { return Nothing{} }

// Erase wraps f so that its observations are returned as any.
// It is how functions with different types are packed together.
func Erase[T any](f Function[T]) Function[any] {
	return erased[T]{f: f}
}

type erased[T any] struct {
	f Function[T]
}

func (e erased[T]) Reset(s *solver.State) { e.f.Reset(s) }
func (e erased[T]) Obtain(s *solver.State) any { return e.f.Obtain(s) }
func (e erased[T]) Clone() Function[any] { return erased[T]{f: e.f.Clone()} }
