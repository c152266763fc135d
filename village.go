package main

import (
	"fmt"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/entity"
	"github.com/milk9111/villagesim/prefabs"
)

// SpawnVillage populates w with the layout from spec.
func SpawnVillage(w *ecs.World, spec *prefabs.VillageSpec) error {
	if spec == nil {
		return fmt.Errorf("spawn village: nil spec")
	}
	layout := spec.Layout

	groups := []struct {
		kind      entity.Kind
		positions []common.Vec3
		attrs     entity.Attributes
	}{
		{entity.KindHouse, layout.Houses, entity.Attributes{}},
		{entity.KindWoodHut, layout.WoodHuts, entity.Attributes{}},
		{entity.KindTree, layout.Trees, entity.Attributes{Health: spec.Trees.Health}},
		{entity.KindVillager, layout.Villagers, entity.Attributes{
			MoveSpeed:    spec.Villager.MoveSpeed,
			HarvestSpeed: spec.Villager.HarvestSpeed,
		}},
	}

	for _, g := range groups {
		for i, pos := range g.positions {
			attrs := g.attrs
			attrs.Position = pos
			if _, err := entity.Spawn(w, g.kind, attrs); err != nil {
				return fmt.Errorf("spawn village: %s %d: %w", g.kind, i, err)
			}
		}
	}
	return nil
}
