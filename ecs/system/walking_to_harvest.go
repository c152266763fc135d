package system

import (
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/fsm"
)

// WalkingToHarvestSystem walks villagers to a harvestable and starts
// harvesting on arrival. A target reported destroyed on the way ends the
// task.
type WalkingToHarvestSystem struct {
	tuning *Tuning
}

func NewWalkingToHarvestSystem(tuning *Tuning) *WalkingToHarvestSystem {
	return &WalkingToHarvestSystem{tuning: tuning}
}

func (s *WalkingToHarvestSystem) Update(w *ecs.World) {
	if w == nil || s.tuning == nil {
		return
	}
	destroyed := ecs.DestroyedHarvestables(w)

	forAgentsIn(w, fsm.WalkingToHarvest, func(a agent) {
		if _, gone := destroyed[entityOf(a.State.Target)]; gone {
			a.Pending.Decision = fsm.Finished
			return
		}
		if arrived, _ := approach(w, a); arrived {
			a.Pending.Decision = fsm.Gather(a.State.Target, s.tuning.GatherDuration)
		}
	})
}
