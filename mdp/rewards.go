package mdp

// ExplicitRewards is a dense, map-backed RewardStructure: a state reward
// per state and a transition reward per (state, choice), defaulting to
// zero where unset. It assumes — and does not itself check — the §3
// uniformity requirement (one transRew value per (state,choice), not per
// successor); checking that belongs to whatever loader or model builder
// fills in the per-successor rewards the caller started from
// (zmec.KindUnsupportedReward is the error kind for that condition; no code
// in this module raises it).
type ExplicitRewards struct {
	stateRew []float64
	transRew map[[2]int]float64
}

// NewExplicitRewards returns a reward structure with numStates state
// rewards, all initially zero.
func NewExplicitRewards(numStates int) *ExplicitRewards {
	return &ExplicitRewards{
		stateRew: make([]float64, numStates),
		transRew: make(map[[2]int]float64),
	}
}

// SetStateReward sets stateRew(s).
func (r *ExplicitRewards) SetStateReward(s State, val float64) {
	r.stateRew[s] = val
}

// SetTransitionReward sets transRew(s, c).
func (r *ExplicitRewards) SetTransitionReward(s State, c Choice, val float64) {
	if val == 0 {
		delete(r.transRew, [2]int{s, c})
		return
	}
	r.transRew[[2]int{s, c}] = val
}

func (r *ExplicitRewards) StateReward(s State) float64 { return r.stateRew[s] }

func (r *ExplicitRewards) TransitionReward(s State, c Choice) float64 {
	return r.transRew[[2]int{s, c}]
}

func (r *ExplicitRewards) HasTransitionRewards() bool { return len(r.transRew) > 0 }
