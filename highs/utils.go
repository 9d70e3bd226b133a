package highs

import (
	"math"
	"sort"
)

// InfiniteBound is the magnitude from which HiGHS treats a bound as infinite
// (the default of its "infinite_bound" option).
const InfiniteBound = 1e20

// Inf returns positive infinity, suitable for unbounded variable bounds.
func Inf() float64 {
	return math.Inf(1)
}

// NegInf returns negative infinity, suitable for unbounded variable bounds.
func NegInf() float64 {
	return math.Inf(-1)
}

// IsInfinite reports whether v is a bound HiGHS considers infinite.
func IsInfinite(v float64) bool {
	return math.IsInf(v, 0) || math.Abs(v) >= InfiniteBound
}

// nonzerosToCSR converts nonzeros to compressed sparse row format with
// numRow+1 start offsets. Duplicate entries keep the last value.
func nonzerosToCSR(nz []Nonzero, numRow int) (start, index []int, value []float64, err error) {
	sorted := make([]Nonzero, len(nz))
	copy(sorted, nz)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	filtered := make([]Nonzero, 0, len(sorted))
	for _, n := range sorted {
		if n.Row < 0 || n.Col < 0 {
			return nil, nil, nil, newErrorMsg("nonzerosToCSR", "negative row or column index")
		}
		if n.Row >= numRow {
			return nil, nil, nil, newErrorMsg("nonzerosToCSR", "row index out of range")
		}
		last := len(filtered) - 1
		if last >= 0 && filtered[last].Row == n.Row && filtered[last].Col == n.Col {
			filtered[last].Val = n.Val
		} else {
			filtered = append(filtered, n)
		}
	}

	start = make([]int, numRow+1)
	index = make([]int, len(filtered))
	value = make([]float64, len(filtered))
	for i, n := range filtered {
		start[n.Row+1]++
		index[i] = n.Col
		value[i] = n.Val
	}
	for r := 0; r < numRow; r++ {
		start[r+1] += start[r]
	}

	return start, index, value, nil
}

// expandSlice returns a fresh slice of length n: a copy of slice, or fillValue
// everywhere when slice is empty. A non-empty slice of another length is an error.
func expandSlice(n int, slice []float64, fillValue float64) ([]float64, error) {
	if len(slice) == n {
		return append([]float64(nil), slice...), nil
	}
	if len(slice) == 0 {
		result := make([]float64, n)
		for i := range result {
			result[i] = fillValue
		}
		return result, nil
	}
	return nil, newErrorMsg("expandSlice", "inconsistent slice length")
}
