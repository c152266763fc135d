package system

import (
	"log/slog"

	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/fsm"
)

// BringingToSystem carries held wood to its destination and adds it to the
// destination's stockpile.
type BringingToSystem struct {
	log *slog.Logger
}

func NewBringingToSystem(log *slog.Logger) *BringingToSystem {
	return &BringingToSystem{log: loggerOr(log)}
}

func (s *BringingToSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	forAgentsIn(w, fsm.BringingTo, func(a agent) {
		arrived, _ := approach(w, a)
		if !arrived {
			return
		}
		a.Pending.Decision = fsm.Finished

		if a.State.Held == fsm.None {
			return
		}
		held := entityOf(a.State.Held)
		wood, ok := ecs.Get(w, held, component.WoodPileComponent.Kind())
		if !ok {
			return
		}

		dest := entityOf(a.State.Target)
		stock, ok := ecs.Get(w, dest, component.StockpileComponent.Kind())
		if !ok {
			// Nowhere to store it: put it down instead of losing it.
			dropHeld(w, a.Entity, a.State.Held)
			return
		}
		stock.Wood += wood.Count
		ecs.DestroyEntity(w, held)
		s.log.Info("delivered wood", "entity", a.Entity.String(), "destination", dest.String(), "count", wood.Count, "stock", stock.Wood)
	})
}
