// Package precomp implements the qualitative precomputation of §4.5:
// Prob0E (some scheduler avoids a set with probability one) and Prob1E
// (some scheduler reaches a set with probability one), each as a
// fixed-point computation over bitsets, with an optional witness scheduler.
package precomp

import (
	"github.com/niceyeti/zmecquotient/bitset"
	"github.com/niceyeti/zmecquotient/mdp"
)

// Prob0E returns the set of states in remain\avoid from which some
// scheduler keeps the process in remain\avoid forever, i.e. never enters
// avoid: the greatest fixed point of X ↦ {s ∈ remain\avoid : ∃c. all
// successors of (s,c) ∈ X}, started from remain\avoid. If strat is
// non-nil, strat[s] is set to a witness choice for every s in the result.
func Prob0E(m mdp.Model, remain, avoid *bitset.Set, strat []int) *bitset.Set {
	x := remain.Clone()
	x.Subtract(avoid)

	for {
		changed := false
		next := x.Clone()
		x.Each(func(s int) {
			if !hasChoiceInto(m, s, x, strat) {
				next.Remove(s)
				changed = true
			}
		})
		x = next
		if !changed {
			return x
		}
	}
}

// hasChoiceInto reports whether s has a choice all of whose successors lie
// in target, recording a witness in strat[s] if strat is non-nil.
func hasChoiceInto(m mdp.Model, s int, target *bitset.Set, strat []int) bool {
	for c := 0; c < m.NumChoices(s); c++ {
		if m.AllSuccessorsMatch(s, c, target.Contains) {
			if strat != nil {
				strat[s] = c
			}
			return true
		}
	}
	return false
}

// Prob1E returns the set of states from which some scheduler reaches goal
// with probability one while staying in remain: the nested fixed point of
// §4.5 — an outer greatest fixed point over "still possible" states Y, and
// an inner least fixed point over states X that can reach goal using
// choices staying within Y. If strat is non-nil, witness choices are
// recorded for every state in the result other than goal itself.
func Prob1E(m mdp.Model, remain, goal *bitset.Set, strat []int) *bitset.Set {
	y := remain.Clone()

	for {
		x := goal.Clone()
		x.Intersect(remain)

		for {
			changed := false
			y.Each(func(s int) {
				if x.Contains(s) {
					return
				}
				if hasChoiceTowardX(m, s, y, x, strat) {
					x.Add(s)
					changed = true
				}
			})
			if !changed {
				break
			}
		}

		if x.Equal(y) {
			return x
		}
		y = x
	}
}

// hasChoiceTowardX reports whether s has a choice whose successors all lie
// in y and at least one successor lies in x, i.e. a choice that stays
// "possible" and makes progress toward goal. Records a witness in strat[s].
func hasChoiceTowardX(m mdp.Model, s int, y, x *bitset.Set, strat []int) bool {
	for c := 0; c < m.NumChoices(s); c++ {
		if !m.AllSuccessorsMatch(s, c, y.Contains) {
			continue
		}
		if !m.SomeSuccessorInSet(s, c, x) {
			continue
		}
		if strat != nil {
			strat[s] = c
		}
		return true
	}
	return false
}
