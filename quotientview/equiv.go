// Package quotientview implements the quotient view of §4.3: given a
// (possibly already choice-filtered) mdp.Model and an equivalence
// partition, it presents an MDP where every non-representative state is a
// trap and every representative's choices are the union of surviving
// choices across its class, in a deterministic ascending-member,
// ascending-choice enumeration order.
package quotientview

import (
	"github.com/niceyeti/zmecquotient/bitset"
	"github.com/niceyeti/zmecquotient/mdp"
	"github.com/niceyeti/zmecquotient/partition"
)

// origin identifies where a quotient choice came from in the underlying model.
type origin struct {
	state  mdp.State
	choice mdp.Choice
}

// MDPEquiv is the quotient of base under part. It implements mdp.Model so
// it composes with every other view and with precomp/endcomponent.
type MDPEquiv struct {
	base mdp.Model
	part *partition.Partition
	// choices[r] enumerates, in deterministic order, the quotient choices
	// of representative r. Non-representatives have an empty slice (traps).
	choices [][]origin
}

// New builds the quotient view of base under part. For each representative
// r of a class C, its choices are enumerated by walking C's members in
// ascending order and, within each member, all of base's choices in
// ascending order — this iteration fixes the quotient choice index.
func New(base mdp.Model, part *partition.Partition) *MDPEquiv {
	n := base.NumStates()
	choices := make([][]origin, n)

	for i := 0; i < part.NumClasses(); i++ {
		rep := part.RepresentativeAt(i)
		var row []origin
		part.ClassAt(i).Each(func(s int) {
			for c := 0; c < base.NumChoices(s); c++ {
				row = append(row, origin{state: s, choice: c})
			}
		})
		choices[rep] = row
	}

	return &MDPEquiv{base: base, part: part, choices: choices}
}

func (q *MDPEquiv) NumStates() int { return q.base.NumStates() }

// NumChoices returns 0 for non-representatives (traps) and the union-count
// of surviving choices across the class for representatives.
func (q *MDPEquiv) NumChoices(s mdp.State) int { return len(q.choices[s]) }

// MapToOriginal inverts the deterministic enumeration, returning the
// (state, choice) in base that quotient choice k of representative r came from.
func (q *MDPEquiv) MapToOriginal(r mdp.State, k mdp.Choice) (mdp.State, mdp.Choice) {
	o := q.choices[r][k]
	return o.state, o.choice
}

// MapToOriginalOrNull is MapToOriginal, but returns ok=false instead of
// panicking when k is a scheduler sentinel (§7: -1 unknown, -2 arbitrary)
// rather than a real quotient choice index.
func (q *MDPEquiv) MapToOriginalOrNull(r mdp.State, k mdp.Choice) (s mdp.State, c mdp.Choice, ok bool) {
	if k < 0 || k >= len(q.choices[r]) {
		return 0, 0, false
	}
	o := q.choices[r][k]
	return o.state, o.choice, true
}

// Successors returns base.distribution(s', c') for the (s', c') that
// quotient choice (r, k) maps to. Targets are not remapped: the quotient
// preserves original target indices, per §4.3 — the choice-filtering
// invariant of §4.6 is what guarantees a target lies outside class_of(r)
// unless the choice is itself positive-reward.
func (q *MDPEquiv) Successors(r mdp.State, k mdp.Choice) ([]mdp.Successor, error) {
	s, c := q.MapToOriginal(r, k)
	return q.base.Successors(s, c)
}

func (q *MDPEquiv) AllSuccessorsMatch(r mdp.State, k mdp.Choice, pred func(mdp.State) bool) bool {
	s, c := q.MapToOriginal(r, k)
	return q.base.AllSuccessorsMatch(s, c, pred)
}

func (q *MDPEquiv) SomeSuccessorInSet(r mdp.State, k mdp.Choice, set *bitset.Set) bool {
	s, c := q.MapToOriginal(r, k)
	return q.base.SomeSuccessorInSet(s, c, set)
}

func (q *MDPEquiv) ReachableStates() *bitset.Set { return q.base.ReachableStates() }

// NonRepresentativeStates returns every state that is not a class representative.
func (q *MDPEquiv) NonRepresentativeStates() *bitset.Set {
	out := bitset.New(q.base.NumStates())
	for s := 0; s < q.base.NumStates(); s++ {
		if !q.part.IsRepresentative(s) {
			out.Add(s)
		}
	}
	return out
}

// Partition exposes the underlying equivalence partition, used by the
// driver to derive rewards and by strategy lifting.
func (q *MDPEquiv) Partition() *partition.Partition { return q.part }

// MapResults broadcasts the representative's value to every member of its
// class, per §4.7: for every s, soln[s] = soln[mapToRepresentative(s)].
func (q *MDPEquiv) MapResults(soln []float64) {
	for s := range soln {
		rep := q.part.MapToRepresentative(s)
		soln[s] = soln[rep]
	}
}
