// Package submdp implements the read-through sub-MDP view of §4.1: given an
// underlying mdp.Model and a drop predicate over (state, choice), it
// presents a re-densified view that hides dropped choices, tracks trap
// states (choiceless in the view), and can lift a strategy defined on the
// view back into the underlying model's choice index space.
package submdp

import (
	"github.com/niceyeti/zmecquotient/bitset"
	"github.com/niceyeti/zmecquotient/mdp"
)

// DropFunc decides whether choice c at state s is hidden by the view.
type DropFunc func(s mdp.State, c mdp.Choice) bool

// View presents the underlying model with every choice satisfying DropFunc
// removed. The predicate is evaluated exactly once per (s, c), at
// construction, and cached in kept.
type View struct {
	base mdp.Model
	kept [][]mdp.Choice // kept[s][k] = original choice index
}

// New builds a sub-MDP view of base, hiding every (s, c) for which drop
// returns true.
func New(base mdp.Model, drop DropFunc) *View {
	n := base.NumStates()
	kept := make([][]mdp.Choice, n)
	for s := 0; s < n; s++ {
		k := base.NumChoices(s)
		row := make([]mdp.Choice, 0, k)
		for c := 0; c < k; c++ {
			if !drop(s, c) {
				row = append(row, c)
			}
		}
		kept[s] = row
	}
	return &View{base: base, kept: kept}
}

// NumStates delegates to the underlying model; the view never removes states.
func (v *View) NumStates() int { return v.base.NumStates() }

// NumChoices returns the number of surviving choices at s.
func (v *View) NumChoices(s mdp.State) int { return len(v.kept[s]) }

// MapChoiceToOriginal returns kept[s][k], the original choice index view
// choice k at state s corresponds to.
func (v *View) MapChoiceToOriginal(s mdp.State, k mdp.Choice) mdp.Choice {
	return v.kept[s][k]
}

// IsTrap reports whether s has no surviving choices in this view.
func (v *View) IsTrap(s mdp.State) bool { return len(v.kept[s]) == 0 }

func (v *View) Successors(s mdp.State, k mdp.Choice) ([]mdp.Successor, error) {
	return v.base.Successors(s, v.kept[s][k])
}

func (v *View) AllSuccessorsMatch(s mdp.State, k mdp.Choice, pred func(mdp.State) bool) bool {
	return v.base.AllSuccessorsMatch(s, v.kept[s][k], pred)
}

func (v *View) SomeSuccessorInSet(s mdp.State, k mdp.Choice, set *bitset.Set) bool {
	return v.base.SomeSuccessorInSet(s, v.kept[s][k], set)
}

func (v *View) ReachableStates() *bitset.Set { return v.base.ReachableStates() }

// LiftStrategy rewrites strat[s] from a view choice index to the
// corresponding original choice index, for every s with strat[s] >= 0.
// Negative sentinel values (§7: -1 unknown, -2 arbitrary) are preserved.
func (v *View) LiftStrategy(strat []int) {
	for s, choice := range strat {
		if choice < 0 {
			continue
		}
		strat[s] = v.kept[s][choice]
	}
}
