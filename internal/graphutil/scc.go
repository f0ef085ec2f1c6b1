// Package graphutil provides graph algorithms over small, index-addressed
// directed graphs built by global constraints.
package graphutil

// Graph is a directed graph over the nodes 0..N()-1.
type Graph interface {
	N() int
	// Out returns the successors of node i. The slice is read-only.
	Out(i int) []int
}

// AdjacencyList is a reusable Graph. Reset keeps the allocated rows so a
// propagator can rebuild the same-shaped graph on every call without
// garbage.
type AdjacencyList struct {
	out [][]int
}

// NewAdjacencyList creates an empty graph with n nodes.
func NewAdjacencyList(n int) *AdjacencyList {
	g := &AdjacencyList{}
	g.Reset(n)
	return g
}

// Reset removes every edge and resizes the graph to n nodes.
func (g *AdjacencyList) Reset(n int) {
	if cap(g.out) < n {
		grown := make([][]int, n)
		copy(grown, g.out[:cap(g.out)])
		g.out = grown
	}
	g.out = g.out[:n]
	for i := range g.out {
		g.out[i] = g.out[i][:0]
	}
}

// AddEdge adds the edge from -> to.
func (g *AdjacencyList) AddEdge(from, to int) {
	g.out[from] = append(g.out[from], to)
}

func (g *AdjacencyList) N() int { return len(g.out) }

func (g *AdjacencyList) Out(i int) []int { return g.out[i] }

// Tarjan computes strongly connected components with an explicit stack, so
// graph depth is not bounded by the goroutine stack. Its buffers are reused
// across calls.
type Tarjan struct {
	index   []int
	low     []int
	onStack []bool
	comp    []int
	stack   []int
	frames  []frame
}

type frame struct {
	node, next int
}

// StronglyConnectedComponents labels every node of g with a component id.
// Two nodes share an id iff they are mutually reachable. The returned slice
// is a fresh copy.
func StronglyConnectedComponents(g Graph) []int {
	var t Tarjan
	return append([]int(nil), t.Compute(g)...)
}

// Compute labels every node of g with a component id. The returned slice is
// owned by t and overwritten by the next call.
func (t *Tarjan) Compute(g Graph) []int {
	n := g.N()
	t.index = resizeInts(t.index, n, -1)
	t.low = resizeInts(t.low, n, 0)
	t.comp = resizeInts(t.comp, n, -1)
	if cap(t.onStack) < n {
		t.onStack = make([]bool, n)
	}
	t.onStack = t.onStack[:n]
	clear(t.onStack)
	t.stack = t.stack[:0]

	counter, ncomp := 0, 0
	for root := 0; root < n; root++ {
		if t.index[root] >= 0 {
			continue
		}
		t.frames = append(t.frames[:0], frame{node: root})
		t.visit(root, &counter)
		for len(t.frames) > 0 {
			top := &t.frames[len(t.frames)-1]
			v := top.node
			succ := g.Out(v)
			if top.next < len(succ) {
				w := succ[top.next]
				top.next++
				if t.index[w] < 0 {
					t.visit(w, &counter)
					t.frames = append(t.frames, frame{node: w})
				} else if t.onStack[w] && t.index[w] < t.low[v] {
					t.low[v] = t.index[w]
				}
				continue
			}
			// v is finished
			t.frames = t.frames[:len(t.frames)-1]
			if len(t.frames) > 0 {
				parent := t.frames[len(t.frames)-1].node
				if t.low[v] < t.low[parent] {
					t.low[parent] = t.low[v]
				}
			}
			if t.low[v] == t.index[v] {
				for {
					w := t.stack[len(t.stack)-1]
					t.stack = t.stack[:len(t.stack)-1]
					t.onStack[w] = false
					t.comp[w] = ncomp
					if w == v {
						break
					}
				}
				ncomp++
			}
		}
	}
	return t.comp
}

func (t *Tarjan) visit(v int, counter *int) {
	t.index[v] = *counter
	t.low[v] = *counter
	*counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
}

func resizeInts(s []int, n, fill int) []int {
	if cap(s) < n {
		s = make([]int, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = fill
	}
	return s
}
