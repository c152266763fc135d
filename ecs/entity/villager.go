package entity

import (
	"fmt"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
)

// NewVillager spawns an idle villager.
func NewVillager(w *ecs.World, pos common.Vec3, moveSpeed, harvestSpeed float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.VillagerComponent.Kind(), &component.Villager{MoveSpeed: moveSpeed, HarvestSpeed: harvestSpeed}); err != nil {
		return abandon(w, e, fmt.Errorf("villager: add villager component: %w", err))
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return abandon(w, e, fmt.Errorf("villager: add transform: %w", err))
	}
	if err := ecs.Add(w, e, component.FSMStateComponent.Kind(), &component.FSMState{}); err != nil {
		return abandon(w, e, fmt.Errorf("villager: add fsm state: %w", err))
	}
	if err := ecs.Add(w, e, component.PendingDecisionComponent.Kind(), &component.PendingDecision{}); err != nil {
		return abandon(w, e, fmt.Errorf("villager: add pending decision: %w", err))
	}
	return e, nil
}
