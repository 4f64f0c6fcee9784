package zmec

import (
	"github.com/niceyeti/zmecquotient/mdp"
	"github.com/niceyeti/zmecquotient/quotientview"
	"github.com/niceyeti/zmecquotient/submdp"
)

// quotientRewards is the §4.6 step-7 derived reward structure: state reward
// passes through unchanged (it is defined per-state, not per-class), and
// transition reward is the original model's transRew at the (state,
// original-choice) pair a quotient choice maps back to.
type quotientRewards struct {
	quot   *quotientview.MDPEquiv
	fragM1 *submdp.View
	orig   mdp.RewardStructure
}

func (r *quotientRewards) StateReward(s mdp.State) float64 {
	return r.orig.StateReward(s)
}

func (r *quotientRewards) TransitionReward(r0 mdp.State, k mdp.Choice) float64 {
	s, viewChoice := r.quot.MapToOriginal(r0, k)
	origChoice := r.fragM1.MapChoiceToOriginal(s, viewChoice)
	return r.orig.TransitionReward(s, origChoice)
}

func (r *quotientRewards) HasTransitionRewards() bool {
	return r.orig.HasTransitionRewards()
}
