package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
)

var ErrUnknownKind = errors.New("entity: unknown kind")

// Kind names something the village knows how to spawn.
type Kind string

const (
	KindVillager Kind = "villager"
	KindHouse    Kind = "house"
	KindWoodHut  Kind = "wood_hut"
	KindTree     Kind = "tree"
	KindWoodPile Kind = "wood_pile"
)

// Attributes are the spawn parameters. Each kind reads only the fields it
// needs.
type Attributes struct {
	Position     common.Vec3
	MoveSpeed    float64
	HarvestSpeed float64
	Health       float64
	Count        int
}

type spawnFn func(w *ecs.World, a Attributes) (ecs.Entity, error)

var spawnRegistry = map[Kind]spawnFn{
	KindVillager: func(w *ecs.World, a Attributes) (ecs.Entity, error) {
		return NewVillager(w, a.Position, a.MoveSpeed, a.HarvestSpeed)
	},
	KindHouse: func(w *ecs.World, a Attributes) (ecs.Entity, error) {
		return NewHouse(w, a.Position)
	},
	KindWoodHut: func(w *ecs.World, a Attributes) (ecs.Entity, error) {
		return NewWoodHut(w, a.Position)
	},
	KindTree: func(w *ecs.World, a Attributes) (ecs.Entity, error) {
		return NewTree(w, a.Position, a.Health)
	},
	KindWoodPile: func(w *ecs.World, a Attributes) (ecs.Entity, error) {
		return NewWoodPile(w, a.Position, a.Count)
	},
}

// Spawn creates an entity of the given kind.
func Spawn(w *ecs.World, kind Kind, attrs Attributes) (ecs.Entity, error) {
	fn, ok := spawnRegistry[kind]
	if !ok {
		return 0, fmt.Errorf("spawn %q: %w", kind, ErrUnknownKind)
	}
	return fn(w, attrs)
}

// Kinds lists the spawnable kinds in name order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(spawnRegistry))
	for k := range spawnRegistry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// abandon destroys a partly built entity and hands back err.
func abandon(w *ecs.World, e ecs.Entity, err error) (ecs.Entity, error) {
	ecs.DestroyEntity(w, e)
	return 0, err
}
