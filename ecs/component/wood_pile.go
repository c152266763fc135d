package component

// WoodPile is a stack of wood, lying in the world or held by a villager.
type WoodPile struct {
	Count int
}

// ItemDrop marks a pile lying in the world that can be picked up.
type ItemDrop struct{}

var WoodPileComponent = NewComponent[WoodPile]()
var ItemDropComponent = NewComponent[ItemDrop]()
