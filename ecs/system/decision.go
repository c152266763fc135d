package system

import (
	"log/slog"
	"math/rand/v2"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/fsm"
)

// Action is the class of task an idle villager can pick.
type Action int

const (
	ActionWalkToHouse Action = iota
	ActionChopTree
	ActionPickUpWood
	actionCount
)

func (a Action) String() string {
	switch a {
	case ActionWalkToHouse:
		return "walk_to_house"
	case ActionChopTree:
		return "chop_tree"
	case ActionPickUpWood:
		return "pick_up_wood"
	}
	return "unknown"
}

// Candidate is a possible target with its position this tick.
type Candidate struct {
	Entity   ecs.Entity
	Position common.Vec3
}

// Candidates is the world as the decision policy sees it.
type Candidates struct {
	Houses []Candidate
	Trees  []Candidate
	Piles  []Candidate
}

// DrawAction picks an action with probability proportional to its weight.
// Negative weights count as zero. It reports false when every weight is zero.
func DrawAction(weights [actionCount]float64, rng *rand.Rand) (Action, bool) {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0, false
	}

	x := rng.Float64() * total
	last := Action(0)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = Action(i)
		if x < w {
			return Action(i), true
		}
		x -= w
	}
	return last, true
}

// Nearest returns the candidate closest to pos. Ties go to the earliest.
func Nearest(pos common.Vec3, candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	bestDist := common.Distance(pos, best.Position)
	for _, c := range candidates[1:] {
		if d := common.Distance(pos, c.Position); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

// Decide resolves action into a concrete decision for a villager at pos. It
// reports false when there is nothing to act on. It never touches the world.
func Decide(action Action, pos common.Vec3, c Candidates, proximity float64, rng *rand.Rand) (fsm.Decision, bool) {
	switch action {
	case ActionWalkToHouse:
		if len(c.Houses) == 0 {
			return fsm.Continue, false
		}
		h := c.Houses[rng.IntN(len(c.Houses))]
		return fsm.WalkTo(refOf(h.Entity), h.Position, proximity), true
	case ActionChopTree:
		if len(c.Trees) == 0 {
			return fsm.Continue, false
		}
		t := c.Trees[rng.IntN(len(c.Trees))]
		return fsm.WalkToGather(refOf(t.Entity), t.Position, proximity), true
	case ActionPickUpWood:
		p, ok := Nearest(pos, c.Piles)
		if !ok {
			return fsm.Continue, false
		}
		return fsm.PickUp(refOf(p.Entity), p.Position, proximity, fsm.None), true
	}
	return fsm.Continue, false
}

// GatherCandidates collects houses, standing trees and wood lying on the
// ground.
func GatherCandidates(w *ecs.World) Candidates {
	var c Candidates
	for _, e := range ecs.Query(w, component.HouseTagComponent.Kind()) {
		if pos, ok := ResolvePosition(w, e); ok {
			c.Houses = append(c.Houses, Candidate{Entity: e, Position: pos})
		}
	}
	ecs.ForEach(w, component.HarvestableComponent.Kind(), func(e ecs.Entity, h *component.Harvestable) {
		if h.Deathmarked() {
			return
		}
		if pos, ok := ResolvePosition(w, e); ok {
			c.Trees = append(c.Trees, Candidate{Entity: e, Position: pos})
		}
	})
	ecs.ForEach2(w, component.ItemDropComponent.Kind(), component.WoodPileComponent.Kind(), func(e ecs.Entity, _ *component.ItemDrop, _ *component.WoodPile) {
		if pos, ok := ResolvePosition(w, e); ok {
			c.Piles = append(c.Piles, Candidate{Entity: e, Position: pos})
		}
	})
	return c
}

// DecisionSystem picks the next task for idle villagers. Unless
// Tuning.SharedDraw is set, every idle villager draws its own action.
type DecisionSystem struct {
	tuning  *Tuning
	rng     *rand.Rand
	weights WeightSource
	log     *slog.Logger
}

func NewDecisionSystem(tuning *Tuning, rng *rand.Rand, weights WeightSource, log *slog.Logger) *DecisionSystem {
	if weights == nil {
		weights = StaticWeights{}
	}
	return &DecisionSystem{tuning: tuning, rng: rng, weights: weights, log: loggerOr(log)}
}

// SetWeightSource swaps the weight source, e.g. after a script reload.
func (s *DecisionSystem) SetWeightSource(ws WeightSource) {
	if ws == nil {
		ws = StaticWeights{}
	}
	s.weights = ws
}

func (s *DecisionSystem) Update(w *ecs.World) {
	if w == nil || s.tuning == nil {
		return
	}

	var idle []ecs.Entity
	ecs.ForEach(w, component.FSMStateComponent.Kind(), func(e ecs.Entity, st *component.FSMState) {
		if st.State.Kind == fsm.Idle {
			idle = append(idle, e)
		}
	})
	if len(idle) == 0 {
		return
	}

	candidates := GatherCandidates(w)
	weights := s.currentWeights(w, candidates)

	shared, sharedOK := Action(0), false
	if s.tuning.SharedDraw {
		shared, sharedOK = DrawAction(weights, s.rng)
	}

	for _, e := range idle {
		pending, ok := ecs.Get(w, e, component.PendingDecisionComponent.Kind())
		if !ok {
			continue
		}
		pos, ok := ResolvePosition(w, e)
		if !ok {
			continue
		}

		action, ok := shared, sharedOK
		if !s.tuning.SharedDraw {
			action, ok = DrawAction(weights, s.rng)
		}
		if !ok {
			continue
		}

		decision, ok := Decide(action, pos, candidates, s.tuning.Proximity, s.rng)
		if !ok {
			continue
		}
		pending.Decision = decision
		s.log.Debug("decided", "entity", e.String(), "action", action.String(), "target", decision.Target)
	}
}

func (s *DecisionSystem) currentWeights(w *ecs.World, c Candidates) [actionCount]float64 {
	ctx := WeightContext{
		Base:   s.tuning.Weights,
		Houses: len(c.Houses),
		Trees:  len(c.Trees),
		Piles:  len(c.Piles),
		Time:   w.Time().Elapsed,
	}
	weights, err := s.weights.Weights(ctx)
	if err != nil {
		s.log.Warn("decision weights failed, using configured weights", "err", err)
		return s.tuning.Weights
	}
	return weights
}
