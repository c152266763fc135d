package component

// Stockpile is the wood counter of a delivery destination.
type Stockpile struct {
	Wood int
}

var StockpileComponent = NewComponent[Stockpile]()
