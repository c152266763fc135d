package component

// Villager marks an autonomous agent and holds its speeds.
type Villager struct {
	MoveSpeed    float64
	HarvestSpeed float64
}

var VillagerComponent = NewComponent[Villager]()
