package constraints

import "math"

// negInf stands for the ECT of an empty set. It is far enough from
// math.MinInt that adding a sum of durations cannot overflow.
const negInf = math.MinInt / 2

// ThetaTree is a balanced binary tree over activities sorted by earliest
// start (est). Leaf k holds the activity of rank k when it belongs to the
// set Θ; every inner node aggregates its subtree:
//
//	sumP = left.sumP + right.sumP
//	ect  = max(right.ect, left.ect + right.sumP)
//
// so the root's ect is the earliest completion time of Θ when its
// activities run back to back. Insert and Remove are O(log n).
//
// The tree is stored in an array: node i has children 2i+1 and 2i+2, and
// the leaves occupy the last capacity slots.
type ThetaTree struct {
	sumP  []int
	ect   []int
	first int // index of leaf 0
}

// NewThetaTree creates an empty tree with room for n ranks.
func NewThetaTree(n int) *ThetaTree {
	leaves := 1
	for leaves < n {
		leaves <<= 1
	}
	t := &ThetaTree{
		sumP:  make([]int, 2*leaves-1),
		ect:   make([]int, 2*leaves-1),
		first: leaves - 1,
	}
	t.Reset()
	return t
}

// Reset empties Θ.
func (t *ThetaTree) Reset() {
	for i := range t.ect {
		t.sumP[i] = 0
		t.ect[i] = negInf
	}
}

// Insert adds the activity of the given est rank with earliest completion
// time ect and duration dur.
func (t *ThetaTree) Insert(rank, ect, dur int) {
	i := t.first + rank
	t.sumP[i] = dur
	t.ect[i] = ect
	t.reCompute(i)
}

// Remove deletes the activity of the given rank.
func (t *ThetaTree) Remove(rank int) {
	i := t.first + rank
	t.sumP[i] = 0
	t.ect[i] = negInf
	t.reCompute(i)
}

// ECT returns the earliest completion time of Θ, or a very negative value
// when Θ is empty.
func (t *ThetaTree) ECT() int { return t.ect[0] }

// SumP returns the total duration of Θ.
func (t *ThetaTree) SumP() int { return t.sumP[0] }

func (t *ThetaTree) reCompute(i int) {
	for i > 0 {
		i = (i - 1) / 2
		l, r := 2*i+1, 2*i+2
		t.sumP[i] = t.sumP[l] + t.sumP[r]
		t.ect[i] = max(t.ect[r], t.ect[l]+t.sumP[r])
	}
}
