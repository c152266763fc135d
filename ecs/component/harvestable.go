package component

import (
	"math"
	"sync/atomic"
)

// Harvestable is a resource node with health. Health and the deathmark are
// atomics so that any number of harvesters can drain the same node and only
// one of them ever wins the deathmark.
type Harvestable struct {
	health    atomic.Uint64
	deathmark atomic.Bool
}

func NewHarvestable(health float64) *Harvestable {
	h := &Harvestable{}
	h.health.Store(math.Float64bits(health))
	return h
}

func (h *Harvestable) Health() float64 {
	if h == nil {
		return 0
	}
	return math.Float64frombits(h.health.Load())
}

// SetHealth overwrites the current health without touching the deathmark.
func (h *Harvestable) SetHealth(v float64) {
	if h == nil {
		return
	}
	h.health.Store(math.Float64bits(v))
}

// Damage subtracts amount and returns the remaining health.
func (h *Harvestable) Damage(amount float64) float64 {
	if h == nil {
		return 0
	}
	for {
		old := h.health.Load()
		next := math.Float64frombits(old) - amount
		if h.health.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

func (h *Harvestable) Depleted() bool {
	return h.Health() <= 0
}

func (h *Harvestable) Deathmarked() bool {
	return h != nil && h.deathmark.Load()
}

// TryDeathmark sets the deathmark if health is depleted. It returns true for
// exactly one caller over the lifetime of the node.
func (h *Harvestable) TryDeathmark() bool {
	if h == nil || !h.Depleted() {
		return false
	}
	return h.deathmark.CompareAndSwap(false, true)
}

var HarvestableComponent = NewComponent[Harvestable]()
