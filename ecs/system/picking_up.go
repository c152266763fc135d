package system

import (
	"log/slog"
	"math/rand/v2"

	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/ecs/entity"
	"github.com/milk9111/villagesim/fsm"
)

// PickingUpSystem walks villagers to a wood pile. On arrival the pile is
// lifted onto the villager and the villager heads straight for a random wood
// hut, without passing through idle.
type PickingUpSystem struct {
	tuning *Tuning
	rng    *rand.Rand
	log    *slog.Logger
}

func NewPickingUpSystem(tuning *Tuning, rng *rand.Rand, log *slog.Logger) *PickingUpSystem {
	return &PickingUpSystem{tuning: tuning, rng: rng, log: loggerOr(log)}
}

func (s *PickingUpSystem) Update(w *ecs.World) {
	if w == nil || s.tuning == nil {
		return
	}

	forAgentsIn(w, fsm.PickingUp, func(a agent) {
		pile := entityOf(a.State.Target)
		wood, ok := ecs.Get(w, pile, component.WoodPileComponent.Kind())
		if !ok || !ecs.Has(w, pile, component.ItemDropComponent.Kind()) {
			a.Pending.Decision = fsm.Finished
			return
		}

		arrived, _ := approach(w, a)
		if !arrived {
			return
		}

		huts := ecs.Query(w, component.WoodHutTagComponent.Kind())
		if len(huts) == 0 {
			s.log.Debug("no wood hut to deliver to", "entity", a.Entity.String())
			a.Pending.Decision = fsm.Finished
			return
		}
		hut := huts[s.rng.IntN(len(huts))]
		hutPos, ok := ResolvePosition(w, hut)
		if !ok {
			a.Pending.Decision = fsm.Finished
			return
		}

		held, err := entity.NewHeldWood(w, a.Entity, wood.Count, s.tuning.CarryHeight)
		if err != nil {
			s.log.Error("lift wood", "entity", a.Entity.String(), "err", err)
			a.Pending.Decision = fsm.Finished
			return
		}
		ecs.DestroyEntity(w, pile)

		a.Pending.Decision = fsm.BringTo(refOf(hut), hutPos, s.tuning.Proximity, refOf(held))
	})
}
