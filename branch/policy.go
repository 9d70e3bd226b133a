package branch

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/bartolsthoorn/learn2branch/solver"
)

// Func picks the LP column to branch on at a decision point. The state is
// only valid for the duration of the call.
type Func func(s *solver.State) (int, error)

func fractional(x, tol float64) bool {
	f := x - math.Floor(x)
	return math.Min(f, 1-f) > tol
}

// Candidates returns the positions of the integral columns whose primal
// value is fractional.
func Candidates(s *solver.State) []int {
	var out []int
	tol := s.FeasTol()
	for i, col := range s.Columns().All() {
		if col.Var().Type().IsIntegral() && fractional(col.PrimSol(), tol) {
			out = append(out, i)
		}
	}
	return out
}

// FirstFractional branches on the candidate with the lowest index.
func FirstFractional(s *solver.State) (int, error) {
	cands := Candidates(s)
	if len(cands) == 0 {
		return 0, ErrNoCandidates
	}
	return cands[0], nil
}

// MostFractional branches on the candidate whose value is closest to one
// half. Ties go to the lowest index.
func MostFractional(s *solver.State) (int, error) {
	best, bestScore := -1, -1.0
	cols := s.Columns()
	for _, i := range Candidates(s) {
		f := cols.At(i).PrimSolFrac()
		if score := math.Min(f, 1-f); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return 0, ErrNoCandidates
	}
	return best, nil
}

// Random branches on a uniformly drawn candidate. The returned Func is safe
// for concurrent use and reproducible for a given seed and call sequence.
func Random(seed uint64) Func {
	var mu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(s *solver.State) (int, error) {
		cands := Candidates(s)
		if len(cands) == 0 {
			return 0, ErrNoCandidates
		}
		mu.Lock()
		k := rng.IntN(len(cands))
		mu.Unlock()
		return cands[k], nil
	}
}

// Policies maps policy names accepted on the command line to implementations.
func Policies(seed uint64) map[string]Func {
	return map[string]Func{
		"first":  FirstFractional,
		"most":   MostFractional,
		"random": Random(seed),
	}
}
