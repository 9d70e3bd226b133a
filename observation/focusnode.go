package observation

import "github.com/bartolsthoorn/learn2branch/solver"

// FocusNodeObs is the metadata of the focused search-tree node.
// ParentNumber and ParentLowerBound are only set when HasParent is true.
type FocusNodeObs struct {
	Number           int64   `json:"number"`
	Depth            int     `json:"depth"`
	LowerBound       float64 `json:"lower_bound"`
	Estimate         float64 `json:"estimate"`
	NAddedConss      int     `json:"n_added_conss"`
	HasParent        bool    `json:"has_parent"`
	ParentNumber     int64   `json:"parent_number,omitempty"`
	ParentLowerBound float64 `json:"parent_lower_bound,omitempty"`
}

// FocusNode observes the focused node. It returns nil when no node is
// focused, e.g. before the search starts or after it ends.
type FocusNode struct{}

var _ Function[*FocusNodeObs] = FocusNode{}

func (FocusNode) Reset(*solver.State) {}

func (FocusNode) Obtain(s *solver.State) *FocusNodeObs {
	node, ok := s.FocusNode()
	if !ok {
		return nil
	}
	obs := &FocusNodeObs{
		Number:      node.Number,
		Depth:       node.Depth,
		LowerBound:  node.LowerBound,
		Estimate:    node.Estimate,
		NAddedConss: node.NAddedConss,
	}
	if node.HasParent {
		obs.HasParent = true
		obs.ParentNumber = node.ParentNumber
		obs.ParentLowerBound = node.ParentLowerBound
	}
	return obs
}

func (FocusNode) Clone() Function[*FocusNodeObs] { return FocusNode{} }
