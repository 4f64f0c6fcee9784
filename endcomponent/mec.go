// Package endcomponent implements the end-component computer of §4.4: the
// classical Chatterjee-Henzinger removal-loop decomposition of an MDP
// restricted to a given state set into its maximal end components (MECs).
package endcomponent

import (
	"github.com/niceyeti/zmecquotient/bitset"
	"github.com/niceyeti/zmecquotient/mdp"
)

// Computer finds maximal end components of an mdp.Model restricted to a
// caller-supplied state set.
type Computer struct {
	model mdp.Model
}

// NewComputer returns an end-component computer over model.
func NewComputer(model mdp.Model) *Computer {
	return &Computer{model: model}
}

// Compute returns the maximal end components of the sub-MDP induced by
// restrict: repeatedly compute SCCs of the graph restricted to the current
// candidate set using only choices whose every successor stays inside it,
// drop states left choiceless, and recurse into any SCC that is a strict
// subset of its candidate set, to a fixpoint. Termination follows because
// every step either shrinks the candidate set or finalizes it.
func (c *Computer) Compute(restrict *bitset.Set) []*bitset.Set {
	var mecs []*bitset.Set
	worklist := []*bitset.Set{restrict.Clone()}

	for len(worklist) > 0 {
		t := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		t = c.pruneChoicelessStates(t)
		if t.IsEmpty() {
			continue
		}

		sccs := tarjanSCC(t.Len(), t, func(s int) []int {
			return c.restrictedSuccessors(s, t)
		})

		nonTrivial := nonTrivialSCCs(c.model, sccs)
		if len(nonTrivial) == 1 && nonTrivial[0].Equal(t) {
			mecs = append(mecs, nonTrivial[0])
			continue
		}
		worklist = append(worklist, nonTrivial...)
	}

	return mecs
}

// pruneChoicelessStates removes, to a fixpoint, every state in t that has no
// choice all of whose successors remain in t.
func (c *Computer) pruneChoicelessStates(t *bitset.Set) *bitset.Set {
	t = t.Clone()
	for {
		changed := false
		t.Each(func(s int) {
			if !c.hasRestrictedChoice(s, t) {
				t.Remove(s)
				changed = true
			}
		})
		if !changed {
			return t
		}
	}
}

func (c *Computer) hasRestrictedChoice(s int, t *bitset.Set) bool {
	for i := 0; i < c.model.NumChoices(s); i++ {
		if c.model.AllSuccessorsMatch(s, i, t.Contains) {
			return true
		}
	}
	return false
}

// restrictedSuccessors returns, for SCC purposes, the union of successors
// of every choice at s whose successors all lie within t.
func (c *Computer) restrictedSuccessors(s int, t *bitset.Set) []int {
	var out []int
	for i := 0; i < c.model.NumChoices(s); i++ {
		if !c.model.AllSuccessorsMatch(s, i, t.Contains) {
			continue
		}
		succs, err := c.model.Successors(s, i)
		if err != nil {
			continue
		}
		for _, succ := range succs {
			out = append(out, succ.Target)
		}
	}
	return out
}

// nonTrivialSCCs drops singleton SCCs that have no restricted self-loop
// choice: a lone state is an end component only if some kept choice loops
// back to itself.
func nonTrivialSCCs(model mdp.Model, sccs []*bitset.Set) []*bitset.Set {
	var out []*bitset.Set
	for _, scc := range sccs {
		if scc.Count() > 1 {
			out = append(out, scc)
			continue
		}
		s, _ := scc.Min()
		hasSelfLoop := false
		for i := 0; i < model.NumChoices(s); i++ {
			if model.AllSuccessorsMatch(s, i, func(t int) bool { return t == s }) {
				hasSelfLoop = true
				break
			}
		}
		if hasSelfLoop {
			out = append(out, scc)
		}
	}
	return out
}
