package endcomponent

import "github.com/niceyeti/zmecquotient/bitset"

// tarjanSCC computes the strongly connected components of the graph induced
// by restrict (states) and the given edge function, using an explicit-stack
// (non-recursive) Tarjan algorithm so large state spaces cannot blow the
// call stack. Returns components as a slice of bitset.Sets, one per SCC,
// including trivial (single-state, no self-loop) components.
func tarjanSCC(n int, restrict *bitset.Set, edges func(s int) []int) []*bitset.Set {
	const unvisited = -1

	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	var stack []int
	var sccs []*bitset.Set
	nextIndex := 0

	type frame struct {
		node    int
		edgeIdx int
		edges   []int
	}

	var callStack []*frame

	pushNode := func(s int) {
		index[s] = nextIndex
		lowlink[s] = nextIndex
		nextIndex++
		stack = append(stack, s)
		onStack[s] = true
		callStack = append(callStack, &frame{node: s, edges: edges(s)})
	}

	restrict.Each(func(root int) {
		if index[root] != unvisited {
			return
		}
		pushNode(root)

		for len(callStack) > 0 {
			top := callStack[len(callStack)-1]

			if top.edgeIdx < len(top.edges) {
				w := top.edges[top.edgeIdx]
				top.edgeIdx++
				if !restrict.Contains(w) {
					continue
				}
				if index[w] == unvisited {
					pushNode(w)
				} else if onStack[w] {
					if index[w] < lowlink[top.node] {
						lowlink[top.node] = index[w]
					}
				}
				continue
			}

			// Done with top.node's edges.
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := callStack[len(callStack)-1]
				if lowlink[top.node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[top.node]
				}
			}

			if lowlink[top.node] == index[top.node] {
				scc := bitset.New(n)
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc.Add(w)
					if w == top.node {
						break
					}
				}
				sccs = append(sccs, scc)
			}
		}
	})

	return sccs
}
