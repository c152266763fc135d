package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/villagesim/common"
)

const VillageSpecFile = "village.yaml"

type VillageSpec struct {
	Name     string       `yaml:"name"`
	TickRate int          `yaml:"tick_rate"`
	Seed     uint64       `yaml:"seed"`
	Villager VillagerSpec `yaml:"villager"`
	Tasks    TaskSpec     `yaml:"tasks"`
	Decision DecisionSpec `yaml:"decision"`
	Trees    TreeSpec     `yaml:"trees"`
	Layout   LayoutSpec   `yaml:"layout"`
}

type VillagerSpec struct {
	MoveSpeed    float64 `yaml:"move_speed"`
	HarvestSpeed float64 `yaml:"harvest_speed"`
}

type TaskSpec struct {
	GatherDuration float64 `yaml:"gather_duration"`
	Proximity      float64 `yaml:"proximity"`
	CarryHeight    float64 `yaml:"carry_height"`
}

type DecisionSpec struct {
	SharedDraw bool        `yaml:"shared_draw"`
	Weights    WeightsSpec `yaml:"weights"`
	Script     string      `yaml:"script"`
}

type WeightsSpec struct {
	WalkToHouse float64 `yaml:"walk_to_house"`
	ChopTree    float64 `yaml:"chop_tree"`
	PickUpWood  float64 `yaml:"pick_up_wood"`
}

type TreeSpec struct {
	Health      float64 `yaml:"health"`
	GrowRate    float64 `yaml:"grow_rate"`
	WorldRadius float64 `yaml:"world_radius"`
	DropMin     int     `yaml:"drop_min"`
	DropMax     int     `yaml:"drop_max"`
	SaplingWood int     `yaml:"sapling_wood"`
}

type LayoutSpec struct {
	Villagers []common.Vec3 `yaml:"villagers"`
	Houses    []common.Vec3 `yaml:"houses"`
	WoodHuts  []common.Vec3 `yaml:"wood_huts"`
	Trees     []common.Vec3 `yaml:"trees"`
}

// DefaultVillageSpec returns the tunables used when a field is left out of
// village.yaml. The layout is empty.
func DefaultVillageSpec() VillageSpec {
	return VillageSpec{
		Name:     "village",
		TickRate: 60,
		Villager: VillagerSpec{MoveSpeed: 3.0, HarvestSpeed: 1.0},
		Tasks:    TaskSpec{GatherDuration: 0.7, Proximity: 0.1, CarryHeight: 0.95},
		Decision: DecisionSpec{Weights: WeightsSpec{WalkToHouse: 1, ChopTree: 2, PickUpWood: 3}},
		Trees: TreeSpec{
			Health:      3.0,
			GrowRate:    0.2,
			WorldRadius: 6.4,
			DropMin:     1,
			DropMax:     10,
			SaplingWood: 1,
		},
	}
}

// LoadVillageSpec loads, validates and decodes a village spec on top of the
// defaults.
func LoadVillageSpec(filename string) (*VillageSpec, error) {
	if filename == "" {
		filename = VillageSpecFile
	}
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseVillageSpec(filename, data)
}

// ParseVillageSpec validates data against the village schema and decodes it.
func ParseVillageSpec(filename string, data []byte) (*VillageSpec, error) {
	if err := ValidateVillageSpec(data); err != nil {
		return nil, fmt.Errorf("prefabs: validate %s: %w", filename, err)
	}

	spec := DefaultVillageSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	if spec.Trees.DropMax <= spec.Trees.DropMin {
		return nil, fmt.Errorf("prefabs: %s: trees.drop_max (%d) must exceed trees.drop_min (%d)", filename, spec.Trees.DropMax, spec.Trees.DropMin)
	}
	return &spec, nil
}

// TickDelta is the fixed simulation step in seconds.
func (s *VillageSpec) TickDelta() float64 {
	if s == nil || s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}
