// Package solver exposes the state of a branch-and-bound search without
// handing out ownership of it.
//
// The driver owns a Store: flat per-entity arrays describing the variables,
// LP columns and LP rows of the relaxation at the focused node. Observation
// code never sees the Store directly. It receives a State, walks it through
// Views and reads entities through VarRef, ColRef and RowRef handles.
//
// Views, refs and states are only valid until the driver moves the search
// forward (a new LP solve, a branching, a node switch). The Store counts
// these transitions; touching a handle created before the latest transition
// panics with ErrStale. Consume everything inside the callback that received
// the State and copy out what must outlive it.
package solver

// VarType is the declared type of a variable.
// Values are positional indices in one-hot features.
type VarType int

const (
	VarBinary VarType = iota
	VarInteger
	VarImplicitInteger
	VarContinuous
)

// NumVarTypes is the cardinality of VarType.
const NumVarTypes = 4

func (t VarType) String() string {
	switch t {
	case VarBinary:
		return "binary"
	case VarInteger:
		return "integer"
	case VarImplicitInteger:
		return "implicit-integer"
	case VarContinuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// IsIntegral reports whether the variable must take integer values.
func (t VarType) IsIntegral() bool {
	return t != VarContinuous
}

// BasisStatus is where a column rests in the optimal LP basis.
// Values are positional indices in one-hot features.
type BasisStatus int

const (
	BasisLower BasisStatus = iota
	BasisBasic
	BasisUpper
	// BasisZero is a free column held at zero.
	BasisZero
	// BasisNonbasic is a free-style nonbasic column not at a bound.
	BasisNonbasic
)

// NumBasisStatuses is the cardinality of BasisStatus.
const NumBasisStatuses = 5

func (s BasisStatus) String() string {
	switch s {
	case BasisLower:
		return "lower"
	case BasisBasic:
		return "basic"
	case BasisUpper:
		return "upper"
	case BasisZero:
		return "zero"
	case BasisNonbasic:
		return "nonbasic"
	default:
		return "unknown"
	}
}

// Node is the metadata of a search-tree node.
type Node struct {
	Number      int64
	Depth       int
	LowerBound  float64
	Estimate    float64
	// NAddedConss is always 0: the driver adds no cuts.
	NAddedConss int

	// Parent fields are only meaningful when HasParent is set.
	HasParent        bool
	ParentNumber     int64
	ParentLowerBound float64
}
