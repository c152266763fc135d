package system

import (
	"log/slog"
	"math/rand/v2"

	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/ecs/entity"
)

// HarvestableSystem destroys harvestables whose health ran out. Each one is
// reported exactly once through a HarvestableDestroyed event and leaves a
// wood pile where it stood.
type HarvestableSystem struct {
	tuning *Tuning
	rng    *rand.Rand
	log    *slog.Logger
}

func NewHarvestableSystem(tuning *Tuning, rng *rand.Rand, log *slog.Logger) *HarvestableSystem {
	return &HarvestableSystem{tuning: tuning, rng: rng, log: loggerOr(log)}
}

func (s *HarvestableSystem) Update(w *ecs.World) {
	if w == nil || s.tuning == nil {
		return
	}

	ecs.ForEach(w, component.HarvestableComponent.Kind(), func(e ecs.Entity, h *component.Harvestable) {
		if !h.TryDeathmark() {
			return
		}
		ecs.Publish(w, ecs.EventHarvestableDestroyed, ecs.HarvestableDestroyed{Entity: e})

		if pos, ok := ResolvePosition(w, e); ok {
			if _, err := entity.NewWoodPile(w, pos, dropCount(s.tuning, s.rng)); err != nil {
				s.log.Error("drop wood from destroyed harvestable", "entity", e.String(), "err", err)
			}
		}
		ecs.DestroyEntity(w, e)
		s.log.Info("harvestable destroyed", "entity", e.String())
	})
}
