// Package reward computes scalar feedback for a decision policy from the
// solver state, for reinforcement-learning style training loops.
package reward

import (
	"math"

	"github.com/bartolsthoorn/learn2branch/solver"
)

// Function computes a reward after every transition.
type Function interface {
	// Reset is called once at the start of every episode.
	Reset(s *solver.State)
	// Obtain returns the reward for the transition that led to s.
	// done is true on the final call of an episode.
	Obtain(s *solver.State, done bool) float64
	// Clone returns an independent copy, including any internal state.
	Clone() Function
}

// Constant always returns the same value.
type Constant float64

func (c Constant) Reset(*solver.State) {}
func (c Constant) Obtain(*solver.State, bool) float64 { return float64(c) }
func (c Constant) Clone() Function { return c }

// IsDone returns 1 on the final transition of an episode and 0 otherwise.
type IsDone struct{}

func (IsDone) Reset(*solver.State) {}

func (IsDone) Obtain(_ *solver.State, done bool) float64 {
	if done {
		return 1
	}
	return 0
}

func (IsDone) Clone() Function { return IsDone{} }

// NegLPIterations returns minus the number of simplex iterations spent since
// the previous call.
type NegLPIterations struct {
	last int64
}

func (n *NegLPIterations) Reset(s *solver.State) {
	n.last = s.LPIterations()
}

func (n *NegLPIterations) Obtain(s *solver.State, _ bool) float64 {
	iters := s.LPIterations()
	diff := iters - n.last
	n.last = iters
	return -float64(diff)
}

func (n *NegLPIterations) Clone() Function {
	c := *n
	return &c
}

// Apply maps the reward of f through op.
func Apply(f Function, op func(float64) float64) Function {
	return &unary{f: f, op: op}
}

// Neg negates f.
func Neg(f Function) Function {
	return Apply(f, func(x float64) float64 { return -x })
}

// Abs takes the absolute value of f.
func Abs(f Function) Function {
	return Apply(f, math.Abs)
}

// Add sums two rewards.
func Add(a, b Function) Function {
	return &binary{a: a, b: b, op: func(x, y float64) float64 { return x + y }}
}

// Sub subtracts b from a.
func Sub(a, b Function) Function {
	return &binary{a: a, b: b, op: func(x, y float64) float64 { return x - y }}
}

// Mul multiplies two rewards.
func Mul(a, b Function) Function {
	return &binary{a: a, b: b, op: func(x, y float64) float64 { return x * y }}
}

type unary struct {
	f  Function
	op func(float64) float64
}

func (u *unary) Reset(s *solver.State) { u.f.Reset(s) }

func (u *unary) Obtain(s *solver.State, done bool) float64 {
	return u.op(u.f.Obtain(s, done))
}

func (u *unary) Clone() Function { return &unary{f: u.f.Clone(), op: u.op} }

type binary struct {
	a, b Function
	op   func(float64, float64) float64
}

func (b *binary) Reset(s *solver.State) {
	b.a.Reset(s)
	b.b.Reset(s)
}

func (b *binary) Obtain(s *solver.State, done bool) float64 {
	return b.op(b.a.Obtain(s, done), b.b.Obtain(s, done))
}

func (b *binary) Clone() Function {
	return &binary{a: b.a.Clone(), b: b.b.Clone(), op: b.op}
}
