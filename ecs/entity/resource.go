package entity

import (
	"fmt"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
)

// NewTree spawns a harvestable tree.
func NewTree(w *ecs.World, pos common.Vec3, health float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TreeTagComponent.Kind(), &component.TreeTag{}); err != nil {
		return abandon(w, e, fmt.Errorf("tree: add tag: %w", err))
	}
	if err := ecs.Add(w, e, component.HarvestableComponent.Kind(), component.NewHarvestable(health)); err != nil {
		return abandon(w, e, fmt.Errorf("tree: add harvestable: %w", err))
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return abandon(w, e, fmt.Errorf("tree: add transform: %w", err))
	}
	return e, nil
}

// NewWoodPile drops a pile of wood in the world where villagers can pick it
// up.
func NewWoodPile(w *ecs.World, pos common.Vec3, count int) (ecs.Entity, error) {
	if count < 0 {
		count = 0
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.WoodPileComponent.Kind(), &component.WoodPile{Count: count}); err != nil {
		return abandon(w, e, fmt.Errorf("wood pile: add pile: %w", err))
	}
	if err := ecs.Add(w, e, component.ItemDropComponent.Kind(), &component.ItemDrop{}); err != nil {
		return abandon(w, e, fmt.Errorf("wood pile: add item drop: %w", err))
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return abandon(w, e, fmt.Errorf("wood pile: add transform: %w", err))
	}
	return e, nil
}

// NewHeldWood spawns wood carried by holder, height units above it. It is
// not an item drop, so nobody else will try to pick it up.
func NewHeldWood(w *ecs.World, holder ecs.Entity, count int, height float64) (ecs.Entity, error) {
	if !ecs.IsAlive(w, holder) {
		return 0, fmt.Errorf("held wood: holder %s: %w", holder, component.ErrEntityNotAlive)
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.WoodPileComponent.Kind(), &component.WoodPile{Count: count}); err != nil {
		return abandon(w, e, fmt.Errorf("held wood: add pile: %w", err))
	}
	if err := ecs.Add(w, e, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(holder)}); err != nil {
		return abandon(w, e, fmt.Errorf("held wood: add parent: %w", err))
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: common.Vec3{Y: height}}); err != nil {
		return abandon(w, e, fmt.Errorf("held wood: add transform: %w", err))
	}
	return e, nil
}
