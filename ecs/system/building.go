package system

import (
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/fsm"
)

// BuildingSystem finishes construction tasks once their timer has run out.
// The timer itself is advanced by the transition system.
type BuildingSystem struct{}

func NewBuildingSystem() *BuildingSystem { return &BuildingSystem{} }

func (s *BuildingSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	forAgentsIn(w, fsm.Building, func(a agent) {
		if fsm.IsFinished(a.State, a.Transform.Position) {
			a.Pending.Decision = fsm.Finished
			return
		}
		a.Pending.Decision = fsm.Continue
	})
}
