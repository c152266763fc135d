package system

import (
	"log/slog"
	"math/rand/v2"

	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/ecs/entity"
	"github.com/milk9111/villagesim/fsm"
)

// HarvestingSystem drains the target's health at the villager's harvest
// speed. When the task timer runs out the villager drops the wood it cut and
// goes idle. Destruction of the target is left to the interrupt system.
type HarvestingSystem struct {
	tuning *Tuning
	rng    *rand.Rand
	log    *slog.Logger
}

func NewHarvestingSystem(tuning *Tuning, rng *rand.Rand, log *slog.Logger) *HarvestingSystem {
	return &HarvestingSystem{tuning: tuning, rng: rng, log: loggerOr(log)}
}

func (s *HarvestingSystem) Update(w *ecs.World) {
	if w == nil || s.tuning == nil {
		return
	}
	dt := w.Time().Delta

	forAgentsIn(w, fsm.Harvesting, func(a agent) {
		if h, ok := ecs.Get(w, entityOf(a.State.Target), component.HarvestableComponent.Kind()); ok {
			h.Damage(dt * a.Villager.HarvestSpeed)
		}

		if !fsm.IsFinished(a.State, a.Transform.Position) {
			a.Pending.Decision = fsm.Continue
			return
		}

		count := dropCount(s.tuning, s.rng)
		if _, err := entity.NewWoodPile(w, a.Transform.Position, count); err != nil {
			s.log.Error("drop harvested wood", "entity", a.Entity.String(), "err", err)
		}
		a.Pending.Decision = fsm.Finished
	})
}

// dropCount draws a wood count in [DropMin, DropMax).
func dropCount(t *Tuning, rng *rand.Rand) int {
	if t.DropMax <= t.DropMin {
		return t.DropMin
	}
	return t.DropMin + rng.IntN(t.DropMax-t.DropMin)
}
