package system

import "github.com/milk9111/villagesim/prefabs"

// Tuning holds the tunables the systems read every tick. Systems share one
// *Tuning so a reloaded spec takes effect on the next tick.
type Tuning struct {
	GatherDuration float64
	Proximity      float64
	CarryHeight    float64

	Weights    [actionCount]float64
	SharedDraw bool

	TreeHealth  float64
	GrowRate    float64
	WorldRadius float64
	DropMin     int
	DropMax     int
	SaplingWood int
}

func TuningFromSpec(spec *prefabs.VillageSpec) Tuning {
	if spec == nil {
		d := prefabs.DefaultVillageSpec()
		spec = &d
	}
	return Tuning{
		GatherDuration: spec.Tasks.GatherDuration,
		Proximity:      spec.Tasks.Proximity,
		CarryHeight:    spec.Tasks.CarryHeight,
		Weights: [actionCount]float64{
			ActionWalkToHouse: spec.Decision.Weights.WalkToHouse,
			ActionChopTree:    spec.Decision.Weights.ChopTree,
			ActionPickUpWood:  spec.Decision.Weights.PickUpWood,
		},
		SharedDraw:  spec.Decision.SharedDraw,
		TreeHealth:  spec.Trees.Health,
		GrowRate:    spec.Trees.GrowRate,
		WorldRadius: spec.Trees.WorldRadius,
		DropMin:     spec.Trees.DropMin,
		DropMax:     spec.Trees.DropMax,
		SaplingWood: spec.Trees.SaplingWood,
	}
}

// DefaultTuning is TuningFromSpec applied to the default spec.
func DefaultTuning() *Tuning {
	t := TuningFromSpec(nil)
	return &t
}
