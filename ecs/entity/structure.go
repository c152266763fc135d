package entity

import (
	"fmt"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
)

// NewHouse spawns a house villagers can wander to.
func NewHouse(w *ecs.World, pos common.Vec3) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.HouseTagComponent.Kind(), &component.HouseTag{}); err != nil {
		return abandon(w, e, fmt.Errorf("house: add tag: %w", err))
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return abandon(w, e, fmt.Errorf("house: add transform: %w", err))
	}
	return e, nil
}

// NewWoodHut spawns a delivery destination with an empty stockpile.
func NewWoodHut(w *ecs.World, pos common.Vec3) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.WoodHutTagComponent.Kind(), &component.WoodHutTag{}); err != nil {
		return abandon(w, e, fmt.Errorf("wood hut: add tag: %w", err))
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return abandon(w, e, fmt.Errorf("wood hut: add transform: %w", err))
	}
	if err := ecs.Add(w, e, component.StockpileComponent.Kind(), &component.Stockpile{}); err != nil {
		return abandon(w, e, fmt.Errorf("wood hut: add stockpile: %w", err))
	}
	return e, nil
}
