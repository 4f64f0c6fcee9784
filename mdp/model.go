// Package mdp defines the capability contract the quotient construction
// consumes (§6 of the design): a dense-state, dense-choice Markov Decision
// Process and a non-negative reward structure over it. The package also
// ships an explicit adjacency-list realization of that contract, used by
// tests and by callers who do not already have a symbolic/BDD-backed model.
//
// Every view built on top of an mdp.Model in this module (sub-MDP,
// quotient) also implements mdp.Model, so the driver, the qualitative
// precomputation, and any caller-supplied numerical iteration are all
// written against this one interface.
package mdp

import "github.com/niceyeti/zmecquotient/bitset"

// State is a dense state index in [0, NumStates()).
type State = int

// Choice is a dense, per-state choice index in [0, NumChoices(s)).
type Choice = int

// Successor is one probabilistic outcome of a choice.
type Successor struct {
	Target State
	Prob   float64
}

// Model is the read-only MDP capability set the quotient construction is
// built against. Implementations backed by an explicit adjacency list, or
// by a decision-diagram encoding, are equally valid (see design notes §9).
type Model interface {
	// NumStates returns N, the dense state count.
	NumStates() int
	// NumChoices returns K(s), the number of choices available at s.
	NumChoices(s State) int
	// Successors returns the probabilistic outcomes of choice c at state s.
	// Probabilities lie in (0, 1] and sum to 1.
	Successors(s State, c Choice) ([]Successor, error)
	// AllSuccessorsMatch is an efficient short-circuiting test of whether
	// every successor of (s, c) satisfies pred. It is a hot path for the
	// end-component removal loop and for Prob0E/Prob1E.
	AllSuccessorsMatch(s State, c Choice, pred func(State) bool) bool
	// SomeSuccessorInSet reports whether some successor of (s, c) lies in set.
	SomeSuccessorInSet(s State, c Choice, set *bitset.Set) bool
	// ReachableStates returns the set of states reachable from the model's
	// designated initial state(s); used as the default restriction set.
	ReachableStates() *bitset.Set
}

// RewardStructure is the non-negative reward pair of §3: a state reward and
// a (state, choice) transition reward, assumed uniform across successors of
// the same choice (see design notes §9, Open Question).
type RewardStructure interface {
	// StateReward returns stateRew(s) >= 0.
	StateReward(s State) float64
	// TransitionReward returns transRew(s, c) >= 0.
	TransitionReward(s State, c Choice) float64
	// HasTransitionRewards reports whether any (s, c) carries a nonzero
	// transition reward; callers may use this to skip per-choice lookups.
	HasTransitionRewards() bool
}

// IsPositiveReward reports whether choice (s, c) carries state or
// transition reward, per §3's definition of a positive-reward choice.
func IsPositiveReward(rew RewardStructure, s State, c Choice) bool {
	return rew.StateReward(s) > 0 || rew.TransitionReward(s, c) > 0
}
