package system

import (
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/fsm"
)

// WalkingToSystem walks villagers to a destination and finishes on arrival.
type WalkingToSystem struct{}

func NewWalkingToSystem() *WalkingToSystem { return &WalkingToSystem{} }

func (s *WalkingToSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	forAgentsIn(w, fsm.WalkingTo, func(a agent) {
		if arrived, _ := approach(w, a); arrived {
			a.Pending.Decision = fsm.Finished
		}
	})
}
