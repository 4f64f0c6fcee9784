package zmec

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/zmecquotient/bitset"
	"github.com/niceyeti/zmecquotient/mdp"
)

// twoStateZMEC builds the simplest possible case: a single trivial ZMEC
// {0, 1} with one leaving choice out to a positive-reward sink.
func twoStateZMEC(t *testing.T) (*mdp.Explicit, *mdp.ExplicitRewards) {
	b := mdp.NewExplicitBuilder(3)
	b.AddChoice(0, mdp.Successor{Target: 1, Prob: 1})
	b.AddChoice(1, mdp.Successor{Target: 0, Prob: 1})
	b.AddChoice(1, mdp.Successor{Target: 2, Prob: 1})
	b.AddChoice(2, mdp.Successor{Target: 2, Prob: 1})
	m, err := b.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	rew := mdp.NewExplicitRewards(3)
	rew.SetStateReward(2, 1)
	return m, rew
}

func TestBuildTwoStateZMEC(t *testing.T) {
	Convey("Given the two-state zero-reward cycle with one exit", t, func() {
		m, rew := twoStateZMEC(t)

		q, err := Build(m, nil, rew, BuildOptions{})
		So(err, ShouldBeNil)
		So(q, ShouldNotBeNil)
		defer q.Close()

		Convey("Exactly one ZMEC was collapsed", func() {
			So(q.NumberOfZMECs(), ShouldEqual, 1)
		})

		Convey("State 1 is the non-representative trap", func() {
			So(q.NonRepresentativeStates().Slice(), ShouldResemble, []int{1})
		})

		Convey("The representative's only surviving choice leaves the class", func() {
			So(q.Model().NumChoices(0), ShouldEqual, 1)
			succs, err := q.Model().Successors(0, 0)
			So(err, ShouldBeNil)
			So(succs[0].Target, ShouldEqual, 2)
		})

		Convey("MapResults broadcasts the representative's value", func() {
			soln := []float64{0.5, 0, 0}
			q.MapResults(soln)
			So(soln, ShouldResemble, []float64{0.5, 0.5, 0})
		})

		Convey("Lifting a strategy that takes the exit installs the witness path", func() {
			strat := []int{0, SentinelUnknown, SentinelUnknown}
			err := q.LiftStrategy(strat)
			So(err, ShouldBeNil)
			// State 0's lifted choice is the original leaving choice (1 -> 2),
			// taken from state 1 since that's who held it.
			So(strat[1], ShouldEqual, 1)
			// State 0 itself must have a witness choice into the class toward state 1.
			So(strat[0], ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}

// siblingZMECs builds two disjoint zero-reward cycles, {0,1} and {2,3},
// both reachable from a common branch point and both able to exit to the
// same positive-reward sink — the scenario that exercises the partition
// producing two independent non-trivial classes from one MEC computation.
func siblingZMECs(t *testing.T) (*mdp.Explicit, *mdp.ExplicitRewards) {
	b := mdp.NewExplicitBuilder(6)
	b.AddChoice(0, mdp.Successor{Target: 1, Prob: 1})
	b.AddChoice(1, mdp.Successor{Target: 0, Prob: 1})
	b.AddChoice(1, mdp.Successor{Target: 5, Prob: 1})
	b.AddChoice(2, mdp.Successor{Target: 3, Prob: 1})
	b.AddChoice(3, mdp.Successor{Target: 2, Prob: 1})
	b.AddChoice(3, mdp.Successor{Target: 5, Prob: 1})
	b.AddChoice(4, mdp.Successor{Target: 0, Prob: 1})
	b.AddChoice(4, mdp.Successor{Target: 2, Prob: 1})
	b.AddChoice(5, mdp.Successor{Target: 5, Prob: 1})
	m, err := b.Build(bitset.FromSlice(6, []int{4}))
	if err != nil {
		t.Fatal(err)
	}
	rew := mdp.NewExplicitRewards(6)
	rew.SetStateReward(5, 1)
	return m, rew
}

func TestBuildSiblingZMECs(t *testing.T) {
	Convey("Given two disjoint zero-reward cycles reachable from a common branch", t, func() {
		m, rew := siblingZMECs(t)

		q, err := Build(m, nil, rew, BuildOptions{})
		So(err, ShouldBeNil)
		So(q, ShouldNotBeNil)
		defer q.Close()

		Convey("Two ZMECs were collapsed", func() {
			So(q.NumberOfZMECs(), ShouldEqual, 2)
		})

		Convey("Both non-representatives (1 and 3) became traps", func() {
			So(q.NonRepresentativeStates().Slice(), ShouldResemble, []int{1, 3})
		})

		Convey("The branch state 4 still has both of its original choices", func() {
			So(q.Model().NumChoices(4), ShouldEqual, 2)
		})
	})
}

// TestBuildReturnsNilWhenNoZMECExists uses a chain whose only cycle, the
// sink's self-loop, carries positive reward, so the zero-reward fragment
// has no end component and the construction should report the ⊥ case.
func TestBuildReturnsNilWhenNoZMECExists(t *testing.T) {
	Convey("Given an acyclic zero-reward chain with a positive-reward sink", t, func() {
		b := mdp.NewExplicitBuilder(3)
		b.AddChoice(0, mdp.Successor{Target: 1, Prob: 1})
		b.AddChoice(1, mdp.Successor{Target: 2, Prob: 1})
		b.AddChoice(2, mdp.Successor{Target: 2, Prob: 1})
		m, err := b.Build(nil)
		So(err, ShouldBeNil)

		rew := mdp.NewExplicitRewards(3)
		rew.SetStateReward(2, 1)

		q, err := Build(m, nil, rew, BuildOptions{})
		Convey("Build reports no quotient needed", func() {
			So(err, ShouldBeNil)
			So(q, ShouldBeNil)
		})
	})
}

// TestBuildNestedAvoidance builds a ZMEC {1,2} reachable from 0 only through a
// choice that also has a second successor escaping straight to the
// positive-reward sink — ensuring the choice-filtering invariant (every
// surviving choice at a non-singleton class member either escapes the
// class or carries positive reward) is exercised on a non-self-loop member.
func TestBuildNestedAvoidance(t *testing.T) {
	Convey("Given a ZMEC entered by a choice that is itself partly outside it", t, func() {
		b := mdp.NewExplicitBuilder(4)
		b.AddChoice(0, mdp.Successor{Target: 1, Prob: 0.5}, mdp.Successor{Target: 3, Prob: 0.5})
		b.AddChoice(1, mdp.Successor{Target: 2, Prob: 1})
		b.AddChoice(2, mdp.Successor{Target: 1, Prob: 1})
		b.AddChoice(2, mdp.Successor{Target: 3, Prob: 1})
		b.AddChoice(3, mdp.Successor{Target: 3, Prob: 1})
		m, err := b.Build(nil)
		So(err, ShouldBeNil)

		rew := mdp.NewExplicitRewards(4)
		rew.SetStateReward(3, 1)

		q, err := Build(m, nil, rew, BuildOptions{})
		So(err, ShouldBeNil)
		So(q, ShouldNotBeNil)
		defer q.Close()

		Convey("Only {1,2} was collapsed; state 0 is untouched", func() {
			So(q.NumberOfZMECs(), ShouldEqual, 1)
			So(q.Model().NumChoices(0), ShouldEqual, 1)
			succs, err := q.Model().Successors(0, 0)
			So(err, ShouldBeNil)
			So(succs[0].Target, ShouldEqual, 1)
		})
	})
}

func TestComputeZeroRewStrategyStates(t *testing.T) {
	Convey("Given the two-state zero-reward cycle with one exit", t, func() {
		m, rew := twoStateZMEC(t)
		strat := make([]int, m.NumStates())
		for i := range strat {
			strat[i] = SentinelUnknown
		}

		result, err := ComputeZeroRewStrategyStates(m, rew, strat)
		So(err, ShouldBeNil)

		Convey("States 0 and 1 can stay in the zero-reward fragment forever", func() {
			So(result.Slice(), ShouldResemble, []int{0, 1})
		})

		Convey("Both carry a recorded witness choice", func() {
			So(strat[0], ShouldBeGreaterThanOrEqualTo, 0)
			So(strat[1], ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}
