// Package fsm is the villager task state machine: a closed set of states, the
// decisions that move between them and the pure transition function.
//
// Targets are weak references. Nothing here checks that a target is still
// alive; callers resolve it every tick and treat a failed resolution as "can
// no longer progress".
package fsm

import (
	"fmt"

	"github.com/milk9111/villagesim/common"
)

// CloseEnoughDistance is the default arrival threshold for positional states.
const CloseEnoughDistance = 0.1

// Ref is a weak reference to a world entity. The zero Ref refers to nothing.
type Ref uint64

const None Ref = 0

// Kind identifies a state.
type Kind uint8

const (
	Idle Kind = iota
	WalkingTo
	Building
	WalkingToHarvest
	Harvesting
	PickingUp
	BringingTo
)

var kindNames = [...]string{
	Idle:             "idle",
	WalkingTo:        "walking_to",
	Building:         "building",
	WalkingToHarvest: "walking_to_harvest",
	Harvesting:       "harvesting",
	PickingUp:        "picking_up",
	BringingTo:       "bringing_to",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Positional reports whether states of this kind complete on arrival.
func (k Kind) Positional() bool {
	switch k {
	case WalkingTo, WalkingToHarvest, PickingUp, BringingTo:
		return true
	}
	return false
}

// Timed reports whether states of this kind complete on elapsed time.
func (k Kind) Timed() bool {
	return k == Building || k == Harvesting
}

// State is the single state an agent is in. The zero State is Idle.
//
// Which fields are meaningful depends on Kind: positional states use
// Position and Proximity, timed states use Progress, PickingUp and BringingTo
// carry the optional Held resource.
type State struct {
	Kind      Kind
	Target    Ref
	Position  common.Vec3
	Proximity float64
	Progress  TaskProgress
	Held      Ref
}

func NewWalkingTo(target Ref, pos common.Vec3, proximity float64) State {
	return State{Kind: WalkingTo, Target: target, Position: pos, Proximity: proximity}
}

func NewBuilding(target Ref, needed float64) State {
	return State{Kind: Building, Target: target, Progress: NewTaskProgress(needed)}
}

func NewWalkingToHarvest(target Ref, pos common.Vec3, proximity float64) State {
	return State{Kind: WalkingToHarvest, Target: target, Position: pos, Proximity: proximity}
}

func NewHarvesting(target Ref, needed float64) State {
	return State{Kind: Harvesting, Target: target, Progress: NewTaskProgress(needed)}
}

func NewPickingUp(item Ref, pos common.Vec3, proximity float64, held Ref) State {
	return State{Kind: PickingUp, Target: item, Position: pos, Proximity: proximity, Held: held}
}

func NewBringingTo(dest Ref, pos common.Vec3, proximity float64, held Ref) State {
	return State{Kind: BringingTo, Target: dest, Position: pos, Proximity: proximity, Held: held}
}

// HasTarget reports whether the state acts on a target entity.
func (s State) HasTarget() bool {
	return s.Kind != Idle
}

// Threshold is the strict arrival distance for a positional state.
func (s State) Threshold() float64 {
	if s.Proximity > 0 {
		return s.Proximity
	}
	return CloseEnoughDistance
}

// Retarget returns s with its cached target position refreshed.
func (s State) Retarget(pos common.Vec3) State {
	if s.Kind.Positional() {
		s.Position = pos
	}
	return s
}

func (s State) String() string {
	switch {
	case s.Kind == Idle:
		return "idle"
	case s.Kind.Timed():
		return fmt.Sprintf("%s(%d %.2f/%.2f)", s.Kind, s.Target, s.Progress.TimeElapsed, s.Progress.TimeNeeded)
	case s.Held != None:
		return fmt.Sprintf("%s(%d held=%d)", s.Kind, s.Target, s.Held)
	default:
		return fmt.Sprintf("%s(%d)", s.Kind, s.Target)
	}
}

// DecisionKind identifies a decision.
type DecisionKind uint8

const (
	DecisionContinue DecisionKind = iota
	DecisionFinished
	DecisionWalkTo
	DecisionBuild
	DecisionWalkToGather
	DecisionGather
	DecisionPickUp
	DecisionBringTo
)

var decisionNames = [...]string{
	DecisionContinue:     "continue",
	DecisionFinished:     "finished",
	DecisionWalkTo:       "walk_to",
	DecisionBuild:        "build",
	DecisionWalkToGather: "walk_to_gather",
	DecisionGather:       "gather",
	DecisionPickUp:       "pick_up",
	DecisionBringTo:      "bring_to",
}

func (k DecisionKind) String() string {
	if int(k) < len(decisionNames) {
		return decisionNames[k]
	}
	return fmt.Sprintf("decision(%d)", k)
}

// Decision is an intent fed into Transition. The zero Decision is Continue.
type Decision struct {
	Kind      DecisionKind
	Target    Ref
	Position  common.Vec3
	Proximity float64
	Duration  float64
	Held      Ref
}

var (
	Continue = Decision{Kind: DecisionContinue}
	Finished = Decision{Kind: DecisionFinished}
)

func WalkTo(target Ref, pos common.Vec3, proximity float64) Decision {
	return Decision{Kind: DecisionWalkTo, Target: target, Position: pos, Proximity: proximity}
}

func Build(target Ref, duration float64) Decision {
	return Decision{Kind: DecisionBuild, Target: target, Duration: duration}
}

func WalkToGather(target Ref, pos common.Vec3, proximity float64) Decision {
	return Decision{Kind: DecisionWalkToGather, Target: target, Position: pos, Proximity: proximity}
}

func Gather(target Ref, duration float64) Decision {
	return Decision{Kind: DecisionGather, Target: target, Duration: duration}
}

func PickUp(item Ref, pos common.Vec3, proximity float64, held Ref) Decision {
	return Decision{Kind: DecisionPickUp, Target: item, Position: pos, Proximity: proximity, Held: held}
}

func BringTo(dest Ref, pos common.Vec3, proximity float64, held Ref) Decision {
	return Decision{Kind: DecisionBringTo, Target: dest, Position: pos, Proximity: proximity, Held: held}
}

// Transition is the whole state machine. Pairs not listed below leave the
// state unchanged.
//
//	any              + Finished      -> Idle
//	Idle             + WalkTo        -> WalkingTo
//	Idle             + Build         -> Building (fresh progress)
//	Idle             + WalkToGather  -> WalkingToHarvest
//	Idle|WalkingToHarvest + Gather   -> Harvesting (fresh progress)
//	Idle             + PickUp        -> PickingUp
//	Idle|PickingUp   + BringTo       -> BringingTo
//	WalkingTo        + WalkTo        -> WalkingTo (re-target)
//	Building|Harvesting + other      -> same, elapsed += dt
func Transition(s State, d Decision, dt float64) State {
	if d.Kind == DecisionFinished {
		return State{}
	}

	switch s.Kind {
	case Idle:
		switch d.Kind {
		case DecisionWalkTo:
			return NewWalkingTo(d.Target, d.Position, d.Proximity)
		case DecisionBuild:
			return NewBuilding(d.Target, d.Duration)
		case DecisionWalkToGather:
			return NewWalkingToHarvest(d.Target, d.Position, d.Proximity)
		case DecisionGather:
			return NewHarvesting(d.Target, d.Duration)
		case DecisionPickUp:
			return NewPickingUp(d.Target, d.Position, d.Proximity, d.Held)
		case DecisionBringTo:
			return NewBringingTo(d.Target, d.Position, d.Proximity, d.Held)
		}
	case WalkingTo:
		if d.Kind == DecisionWalkTo {
			return NewWalkingTo(d.Target, d.Position, d.Proximity)
		}
	case WalkingToHarvest:
		if d.Kind == DecisionGather {
			return NewHarvesting(d.Target, d.Duration)
		}
	case Building, Harvesting:
		s.Progress = s.Progress.Advance(dt)
	case PickingUp:
		if d.Kind == DecisionBringTo {
			return NewBringingTo(d.Target, d.Position, d.Proximity, d.Held)
		}
	}
	return s
}

// IsFinished reports whether s is complete for an agent standing at pos.
// Timed states ignore pos; positional states compare the ground distance to
// the cached target position against Threshold, strictly.
//
// This is deliberately not a 3-D check against CloseEnoughDistance. Height is
// ignored, so a pile resting 0.1 above the ground or a target at any Y counts
// as reached once the agent stands under it. The threshold is the state's own
// Proximity, and CloseEnoughDistance applies only when Proximity is zero.
func IsFinished(s State, pos common.Vec3) bool {
	switch {
	case s.Kind.Timed():
		return s.Progress.Complete()
	case s.Kind.Positional():
		return common.GroundDistance(pos, s.Position) < s.Threshold()
	}
	return false
}

// Interrupt forces s back to Idle when its target has been removed. It is the
// only path besides Finished that leaves a task and it can never produce any
// state other than Idle.
func Interrupt(s State, removed func(Ref) bool) (State, bool) {
	if !s.HasTarget() || removed == nil || !removed(s.Target) {
		return s, false
	}
	return State{}, true
}
