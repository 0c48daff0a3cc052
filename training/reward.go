package training

import (
	"snake-ai/config"
)

// Outcome describes what a single step did, as far as the reward is concerned.
type Outcome struct {
	Alive bool
	Ate   bool
	// Manhattan distance from the head to the food before and after the step.
	DistBefore int
	DistAfter  int
}

// Reward calcola la ricompensa per un singolo passo.
func Reward(r config.Rewards, o Outcome) float64 {
	switch {
	case !o.Alive:
		return r.Death
	case o.Ate:
		return r.Food
	}
	reward := r.Step
	if o.DistAfter < o.DistBefore {
		reward += r.Closer
	} else {
		reward += r.Away
	}
	return reward
}
