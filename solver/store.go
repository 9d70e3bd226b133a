package solver

import (
	"errors"
	"math"

	"github.com/bartolsthoorn/learn2branch/tensor"
)

// ErrStale is the panic value raised when a view, ref or state is used after
// the store it points into has moved on.
var ErrStale = errors.New("solver: stale handle used after a state transition")

// DefaultFeasTol is the feasibility tolerance used for at-bound tests.
const DefaultFeasTol = 1e-6

// DefaultInfinity is the magnitude from which a bound counts as absent.
const DefaultInfinity = 1e20

// VarArrays holds per-variable data, indexed by variable index.
type VarArrays struct {
	Type    []VarType
	LbLocal []float64
	UbLocal []float64
	// BestSol is the value in the incumbent solution, NaN before one is found.
	BestSol []float64
	// AvgSol is the average over all solutions found, NaN before the first.
	AvgSol []float64
}

// Len returns the number of variables.
func (a *VarArrays) Len() int { return len(a.Type) }

// ColArrays holds per-LP-column data, indexed by column position.
type ColArrays struct {
	Var     []int
	Lb      []float64
	Ub      []float64
	Obj     []float64
	RedCost []float64
	PrimSol []float64
	Basis   []BasisStatus
	// Age counts successive LPs in which the column was at zero.
	Age []int
}

// Len returns the number of LP columns.
func (a *ColArrays) Len() int { return len(a.Var) }

// RowArrays holds per-LP-row data, indexed by row position.
type RowArrays struct {
	Lhs       []float64
	Rhs       []float64
	Norm      []float64
	ObjCosSim []float64
	Dual      []float64
	Activity  []float64
	// Age counts successive LPs in which the row was not tight.
	Age []int
}

// Len returns the number of LP rows.
func (a *RowArrays) Len() int { return len(a.Lhs) }

// Store is the driver-owned backing memory of one search. Fields are written
// by the driver between decision points and read through State handles.
type Store struct {
	Vars VarArrays
	Cols ColArrays
	Rows RowArrays

	// Matrix holds the row × column coefficients of the LP.
	Matrix tensor.COO

	// ObjNorm is the raw Euclidean norm of the objective coefficients.
	ObjNorm      float64
	NumLPs       int64
	LPIterations int64

	// Focus is the focused node, nil when none is.
	Focus *Node
	// Solved is set once the search has terminated.
	Solved bool

	FeasTol  float64
	Infinity float64

	generation uint64
}

// NewStore returns an empty store with default tolerances.
func NewStore() *Store {
	return &Store{FeasTol: DefaultFeasTol, Infinity: DefaultInfinity}
}

// Invalidate marks every handle handed out so far as stale. The driver calls
// it at every state transition.
func (s *Store) Invalidate() {
	s.generation++
}

// Generation returns the number of transitions so far.
func (s *Store) Generation() uint64 {
	return s.generation
}

// State returns the facade handed to observation code for the current
// generation.
func (s *Store) State() *State {
	return &State{store: s, gen: s.generation}
}

func (s *Store) check(gen uint64) {
	if gen != s.generation {
		panic(ErrStale)
	}
}

func (s *Store) finite(v float64) bool {
	inf := s.Infinity
	if inf <= 0 {
		inf = DefaultInfinity
	}
	return !math.IsNaN(v) && math.Abs(v) < inf
}

func (s *Store) feasEq(a, b float64) bool {
	tol := s.FeasTol
	if tol <= 0 {
		tol = DefaultFeasTol
	}
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
