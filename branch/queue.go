package branch

import "container/heap"

// node is an open subproblem: the local bounds plus what its parent knew.
type node struct {
	id    int64
	depth int
	lower []float64
	upper []float64

	// bound is the parent relaxation value, -Inf for the root.
	bound float64

	hasParent bool
	parentID  int64
}

// nodeQueue orders open nodes best-bound first, then by creation order.
type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].bound != q[j].bound {
		return q[i].bound < q[j].bound
	}
	return q[i].id < q[j].id
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func (q *nodeQueue) push(n *node) { heap.Push(q, n) }

func (q *nodeQueue) pop() *node { return heap.Pop(q).(*node) }
