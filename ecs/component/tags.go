package component

type HouseTag struct{}

var HouseTagComponent = NewComponent[HouseTag]()

type WoodHutTag struct{}

var WoodHutTagComponent = NewComponent[WoodHutTag]()

type TreeTag struct{}

var TreeTagComponent = NewComponent[TreeTag]()
