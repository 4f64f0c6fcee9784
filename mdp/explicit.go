package mdp

import "github.com/niceyeti/zmecquotient/bitset"

// Explicit is a reference adjacency-list realization of Model. Choices are
// stored as a dense [][]Successor indexed by state then choice, exactly the
// shape the teacher's grid-world state conversion builds from a track
// layout, generalized here from a fixed 4-D position/velocity grid to an
// arbitrary state graph.
type Explicit struct {
	numStates int
	choices   [][][]Successor
	reachable *bitset.Set
}

// NewExplicit validates and wraps a dense adjacency-list MDP. choices[s][c]
// is the successor distribution of choice c at state s; reachable is the
// seed of the set returned by ReachableStates: that set is reachable closed
// under successors, so passing the initial state(s) yields every state
// reachable from them. A nil reachable means all states.
func NewExplicit(choices [][][]Successor, reachable *bitset.Set) (*Explicit, error) {
	n := len(choices)
	for s, cs := range choices {
		for c, succs := range cs {
			if len(succs) == 0 {
				return nil, newStructuralError(s, c, "choice has no successors")
			}
			total := 0.0
			for _, succ := range succs {
				if succ.Prob <= 0 || succ.Prob > 1 {
					return nil, newStructuralError(s, c, "successor probability outside (0, 1]")
				}
				if succ.Target < 0 || succ.Target >= n {
					return nil, newStructuralError(s, c, "successor target out of range")
				}
				total += succ.Prob
			}
			if total < 1-1e-6 || total > 1+1e-6 {
				return nil, newStructuralError(s, c, "successor probabilities do not sum to one")
			}
		}
	}
	if reachable == nil {
		reachable = bitset.Full(n)
	} else {
		reachable = reachable.Clone()
		frontier := reachable.Slice()
		for len(frontier) > 0 {
			s := frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
			for _, succs := range choices[s] {
				for _, succ := range succs {
					if !reachable.Contains(succ.Target) {
						reachable.Add(succ.Target)
						frontier = append(frontier, succ.Target)
					}
				}
			}
		}
	}
	return &Explicit{numStates: n, choices: choices, reachable: reachable}, nil
}

// NewExplicitBuilder returns an empty builder for incrementally constructing
// an Explicit model, convenient for tests and for callers assembling a
// model state-by-state rather than from one literal slice.
type ExplicitBuilder struct {
	choices [][][]Successor
}

// NewExplicitBuilder creates a builder for n states, each initially choiceless.
func NewExplicitBuilder(n int) *ExplicitBuilder {
	return &ExplicitBuilder{choices: make([][][]Successor, n)}
}

// AddChoice appends a new choice at state s with the given successor
// distribution, returning its dense choice index. Called with no
// successors, it adds no choice and returns -1: a state that is never
// given a choice stays choiceless (a trap).
func (b *ExplicitBuilder) AddChoice(s State, succs ...Successor) Choice {
	if len(succs) == 0 {
		return -1
	}
	c := len(b.choices[s])
	b.choices[s] = append(b.choices[s], succs)
	return c
}

// Build validates and returns the assembled Explicit model.
func (b *ExplicitBuilder) Build(reachable *bitset.Set) (*Explicit, error) {
	return NewExplicit(b.choices, reachable)
}

func (m *Explicit) NumStates() int { return m.numStates }

func (m *Explicit) NumChoices(s State) int { return len(m.choices[s]) }

func (m *Explicit) Successors(s State, c Choice) ([]Successor, error) {
	if s < 0 || s >= m.numStates {
		return nil, newStructuralError(s, c, "state out of range")
	}
	if c < 0 || c >= len(m.choices[s]) {
		return nil, newStructuralError(s, c, "choice out of range")
	}
	return m.choices[s][c], nil
}

func (m *Explicit) AllSuccessorsMatch(s State, c Choice, pred func(State) bool) bool {
	for _, succ := range m.choices[s][c] {
		if !pred(succ.Target) {
			return false
		}
	}
	return true
}

func (m *Explicit) SomeSuccessorInSet(s State, c Choice, set *bitset.Set) bool {
	for _, succ := range m.choices[s][c] {
		if set.Contains(succ.Target) {
			return true
		}
	}
	return false
}

func (m *Explicit) ReachableStates() *bitset.Set { return m.reachable }
