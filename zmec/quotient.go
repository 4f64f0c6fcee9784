// Package zmec implements the zero-reward end-component quotient driver and
// strategy lifter of §4.6: it orchestrates the zero-reward fragment, the
// end-component computer, the equivalence partition, the quotient view and
// the qualitative precomputation to produce a ZeroRewardECQuotient, and
// reverses that data flow to lift a quotient-level scheduler back onto the
// original MDP.
package zmec

import (
	"go.uber.org/zap"

	"github.com/niceyeti/zmecquotient/bitset"
	"github.com/niceyeti/zmecquotient/endcomponent"
	"github.com/niceyeti/zmecquotient/internal/diag"
	"github.com/niceyeti/zmecquotient/mdp"
	"github.com/niceyeti/zmecquotient/partition"
	"github.com/niceyeti/zmecquotient/precomp"
	"github.com/niceyeti/zmecquotient/quotientview"
	"github.com/niceyeti/zmecquotient/submdp"
)

// Scheduler sentinels, per §7. Negative values below -2 are not assigned a
// meaning and are treated as "unknown" by LiftStrategy.
const (
	SentinelUnknown   = -1
	SentinelArbitrary = -2
)

// Quotient is the built ZMEC quotient: an mdp.Model/mdp.RewardStructure pair
// with the bookkeeping needed to project results and lift strategies back
// to the original MDP. It owns the zero-reward fragment, the second
// (loop-pruned) fragment, and the equivalence partition; the original MDP
// is a borrowed, non-owned collaborator (§5) and is never released here.
type Quotient struct {
	original mdp.Model
	origRew  mdp.RewardStructure

	fragM0   *submdp.View // zero-reward fragment: drop_pos
	fragM1   *submdp.View // loop-pruned fragment: drop_loop
	part     *partition.Partition
	quot     *quotientview.MDPEquiv
	rewards  *quotientRewards
	numZMECs int

	opts BuildOptions

	lastLiftWitnesses []int
	closed            bool
}

// Build runs the ZMEC quotient construction of §4.6. restrict defaults to
// m.ReachableStates() when nil. A nil *Quotient with a nil error is the Go
// rendering of §6's ⊥: the zero-reward fragment has no MEC, so no quotient
// is needed and the caller should proceed with the original MDP.
func Build(m mdp.Model, restrict *bitset.Set, rew mdp.RewardStructure, opts BuildOptions) (*Quotient, error) {
	log := opts.logger()
	sink := opts.sink()

	if restrict == nil {
		restrict = m.ReachableStates()
	}

	dropPos := func(s, c int) bool { return mdp.IsPositiveReward(rew, s, c) }
	fragM0 := submdp.New(m, dropPos)
	sink.Emit(diag.Event{Kind: diag.EventFragmentBuilt, Detail: "zero-reward fragment built"})

	mecs := endcomponent.NewComputer(fragM0).Compute(restrict)
	sink.Emit(diag.Event{
		Kind:    diag.EventMECsFound,
		Detail:  "zero-reward MEC decomposition complete",
		Numbers: map[string]int{"mecs": len(mecs)},
	})
	log.Debug("zmec: computed zero-reward MECs", zap.Int("count", len(mecs)))

	if len(mecs) == 0 {
		return nil, nil
	}

	part := partition.FromSets(m.NumStates(), mecs, true)
	sink.Emit(diag.Event{
		Kind:   diag.EventPartitionBuilt,
		Detail: "equivalence partition built from ZMECs",
		Numbers: map[string]int{
			"classes":    part.NumClasses(),
			"nontrivial": part.NonTrivialClassCount(),
		},
	})

	dropLoop := func(s, c int) bool {
		if dropPos(s, c) {
			return false
		}
		if !restrict.Contains(s) {
			return false
		}
		return m.AllSuccessorsMatch(s, c, func(t int) bool { return part.SameClass(s, t) })
	}
	fragM1 := submdp.New(m, dropLoop)

	quot := quotientview.New(fragM1, part)
	sink.Emit(diag.Event{
		Kind:   diag.EventQuotientBuilt,
		Detail: "quotient view materialized",
	})
	log.Info("zmec: quotient built",
		zap.Int("numZMECs", len(mecs)),
		zap.Int("numStates", m.NumStates()))

	rewards := &quotientRewards{quot: quot, fragM1: fragM1, orig: rew}

	return &Quotient{
		original: m,
		origRew:  rew,
		fragM0:   fragM0,
		fragM1:   fragM1,
		part:     part,
		quot:     quot,
		rewards:  rewards,
		numZMECs: len(mecs),
		opts:     opts,
	}, nil
}

// Model returns the quotient MDP, implementing the same mdp.Model
// capability set as the original.
func (q *Quotient) Model() mdp.Model { return q.quot }

// Rewards returns the quotient reward structure.
func (q *Quotient) Rewards() mdp.RewardStructure { return q.rewards }

// NumberOfZMECs returns the number of zero-reward MECs found; each is one
// class of the partition, single-state MECs included.
func (q *Quotient) NumberOfZMECs() int { return q.numZMECs }

// NonRepresentativeStates returns every state that became a trap in the quotient.
func (q *Quotient) NonRepresentativeStates() *bitset.Set {
	return q.quot.NonRepresentativeStates()
}

// MapResults broadcasts each class's value to all of its members, per §4.7.
func (q *Quotient) MapResults(soln []float64) {
	q.quot.MapResults(soln)
}

// LastLiftWitnesses returns the Prob1E witness array recorded by the most
// recent LiftStrategy call, if opts.RecordLiftWitnesses was set; nil otherwise.
func (q *Quotient) LastLiftWitnesses() []int { return q.lastLiftWitnesses }

// LiftStrategy implements the §4.6 lifting procedure in place: strat is
// indexed by quotient state and, for each representative r, carries either
// a quotient choice index (>= 0) or a scheduler sentinel. For every class,
// LiftStrategy:
//
//  1. resolves the representative's quotient choice to the class member s2
//     that actually holds the corresponding original choice (r itself, if
//     the choice never left r's own original choice set);
//  2. runs Prob1E on the zero-reward fragment to find a probability-one
//     path from every other class member to s2, staying inside the class's
//     zero-reward fragment;
//  3. rewrites strat in place: every non-target member gets its Prob1E
//     witness (remapped to an original choice index), and s2 gets the
//     original choice the representative's quotient choice mapped to.
//
// It returns a *Error of KindNumericalEdge if Prob1E fails to certify some
// class member — an internal invariant violation, since every member of a
// ZMEC should be able to reach any other member with probability one
// while staying inside the zero-reward fragment.
func (q *Quotient) LiftStrategy(strat []int) error {
	if q.closed {
		return newError(KindStructural, -1, -1, -1, "quotient is closed")
	}

	n := q.original.NumStates()
	witness := make([]int, n)
	var recorded []int
	if q.opts.RecordLiftWitnesses {
		recorded = make([]int, n)
		for i := range recorded {
			recorded[i] = SentinelUnknown
		}
	}

	for i := 0; i < q.part.NumClasses(); i++ {
		r := q.part.RepresentativeAt(i)
		ecs := q.part.ClassAt(i)

		var target, targetChoice int
		if strat[r] >= 0 {
			s2, c2, ok := q.quot.MapToOriginalOrNull(r, strat[r])
			if !ok {
				return newError(KindStructural, r, strat[r], i, "quotient choice index out of range")
			}
			target = s2
			targetChoice = q.fragM1.MapChoiceToOriginal(s2, c2)
		} else {
			target = r
			targetChoice = strat[r]
		}

		goal := bitset.New(n)
		goal.Add(target)

		for j := range witness {
			witness[j] = SentinelUnknown
		}
		certified := precomp.Prob1E(q.fragM0, ecs, goal, witness)

		missing := -1
		ecs.Each(func(s int) {
			if s != target && !certified.Contains(s) {
				missing = s
			}
		})
		if missing != -1 {
			return newError(KindNumericalEdge, missing, -1, i,
				"Prob1E failed to certify probability-one reachability within a zero-reward class")
		}

		ecs.Each(func(s int) {
			if s == target {
				return
			}
			if witness[s] >= 0 {
				strat[s] = q.fragM0.MapChoiceToOriginal(s, witness[s])
				if recorded != nil {
					recorded[s] = strat[s]
				}
			}
		})
		strat[target] = targetChoice
		if recorded != nil {
			recorded[target] = targetChoice
		}
	}

	q.lastLiftWitnesses = recorded
	q.opts.sink().Emit(diag.Event{Kind: diag.EventStrategyLiftedOn, Detail: "strategy lifted"})

	return nil
}

// Close releases the quotient's owned views in reverse creation order
// (fragM1, then the partition, then fragM0), per the ownership DAG of §5.
// The original MDP is never released here. Close is idempotent.
func (q *Quotient) Close() {
	if q.closed {
		return
	}
	q.fragM1 = nil
	q.part = nil
	q.fragM0 = nil
	q.quot = nil
	q.rewards = nil
	q.closed = true
}

// ComputeZeroRewStrategyStates is the standalone Prob0E operation of §6: it
// builds the zero-reward fragment of m and returns the states from which
// some scheduler can stay inside it forever, i.e. never be forced into a
// state with no surviving zero-reward choice. If strat is non-nil, a
// witness zero-reward choice (remapped to original choice indices) is
// recorded for every returned state.
func ComputeZeroRewStrategyStates(m mdp.Model, rew mdp.RewardStructure, strat []int) (*bitset.Set, error) {
	fragM0 := submdp.New(m, func(s, c int) bool { return mdp.IsPositiveReward(rew, s, c) })

	traps := bitset.New(m.NumStates())
	for s := 0; s < m.NumStates(); s++ {
		if fragM0.IsTrap(s) {
			traps.Add(s)
		}
	}

	var viewStrat []int
	if strat != nil {
		viewStrat = make([]int, m.NumStates())
		for i := range viewStrat {
			viewStrat[i] = SentinelUnknown
		}
	}

	result := precomp.Prob0E(fragM0, m.ReachableStates(), traps, viewStrat)

	if strat != nil {
		result.Each(func(s int) {
			if viewStrat[s] >= 0 {
				strat[s] = fragM0.MapChoiceToOriginal(s, viewStrat[s])
			}
		})
	}

	return result, nil
}
