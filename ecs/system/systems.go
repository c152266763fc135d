package system

import (
	"log/slog"
	"math/rand/v2"

	"github.com/milk9111/villagesim/ecs"
)

// VillageSystems are the systems of one village run, in tick order.
type VillageSystems struct {
	Scheduler *ecs.Scheduler
	Decision  *DecisionSystem
}

// NewVillageSystems builds the village scheduler. Harvestables are checked
// first so that a destroyed event is visible to every later system in the
// same tick; interrupts run after the transition.
func NewVillageSystems(tuning *Tuning, rng *rand.Rand, weights WeightSource, log *slog.Logger) *VillageSystems {
	log = loggerOr(log)
	decision := NewDecisionSystem(tuning, rng, weights, log)

	return &VillageSystems{
		Decision: decision,
		Scheduler: ecs.NewScheduler(
			NewHarvestableSystem(tuning, rng, log),
			NewTreeGrowthSystem(tuning, rng, log),
			decision,
			NewWalkingToSystem(),
			NewBuildingSystem(),
			NewWalkingToHarvestSystem(tuning),
			NewHarvestingSystem(tuning, rng, log),
			NewPickingUpSystem(tuning, rng, log),
			NewBringingToSystem(log),
			NewStateTransitionSystem(log),
			NewInterruptSystem(log),
		),
	}
}
