package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/villagesim/common"
)

var (
	here  = common.Vec3{}
	there = common.Vec3{X: 2}
)

func allStates() []State {
	return []State{
		{},
		NewWalkingTo(1, there, 0),
		NewBuilding(2, 5),
		NewWalkingToHarvest(3, there, 0.2),
		NewHarvesting(4, 0.7),
		NewPickingUp(5, there, 0, None),
		NewBringingTo(6, there, 0, 7),
	}
}

func allDecisions() []Decision {
	return []Decision{
		Continue,
		WalkTo(10, there, 0),
		Build(11, 3),
		WalkToGather(12, there, 0),
		Gather(13, 0.7),
		PickUp(14, there, 0, None),
		BringTo(15, there, 0, 16),
	}
}

func TestFinishedAlwaysGoesIdle(t *testing.T) {
	for _, s := range allStates() {
		t.Run(s.Kind.String(), func(t *testing.T) {
			assert.Equal(t, State{}, Transition(s, Finished, 0.016))
		})
	}
}

func TestTimedStatesAccumulate(t *testing.T) {
	for _, start := range []State{NewBuilding(2, 5), NewHarvesting(4, 0.7)} {
		for _, d := range allDecisions() {
			t.Run(start.Kind.String()+"_"+d.Kind.String(), func(t *testing.T) {
				s := start
				s.Progress.TimeElapsed = 0.25
				next := Transition(s, d, 0.5)
				require.Equal(t, s.Kind, next.Kind)
				assert.Equal(t, s.Target, next.Target)
				assert.Equal(t, s.Progress.TimeNeeded, next.Progress.TimeNeeded)
				assert.InDelta(t, 0.75, next.Progress.TimeElapsed, 1e-12)
			})
		}
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name string
		from State
		d    Decision
		want State
	}{
		{"idle_walk_to", State{}, WalkTo(10, there, 0.2), NewWalkingTo(10, there, 0.2)},
		{"idle_build", State{}, Build(11, 3), State{Kind: Building, Target: 11, Progress: TaskProgress{TimeNeeded: 3}}},
		{"idle_walk_to_gather", State{}, WalkToGather(12, there, 0), NewWalkingToHarvest(12, there, 0)},
		{"idle_gather", State{}, Gather(13, 0.7), State{Kind: Harvesting, Target: 13, Progress: TaskProgress{TimeNeeded: 0.7}}},
		{"idle_pick_up", State{}, PickUp(14, there, 0, None), NewPickingUp(14, there, 0, None)},
		{"idle_bring_to", State{}, BringTo(15, there, 0, 16), NewBringingTo(15, there, 0, 16)},
		{"walking_retarget", NewWalkingTo(1, there, 0), WalkTo(9, here, 0), NewWalkingTo(9, here, 0)},
		{"walking_ignores_gather", NewWalkingTo(1, there, 0), Gather(9, 1), NewWalkingTo(1, there, 0)},
		{"walking_to_harvest_gather", NewWalkingToHarvest(3, there, 0), Gather(3, 0.7), NewHarvesting(3, 0.7)},
		{"walking_to_harvest_ignores_walk", NewWalkingToHarvest(3, there, 0), WalkTo(9, here, 0), NewWalkingToHarvest(3, there, 0)},
		{"picking_up_bring_to", NewPickingUp(5, there, 0, None), BringTo(6, here, 0, 7), NewBringingTo(6, here, 0, 7)},
		{"picking_up_ignores_walk", NewPickingUp(5, there, 0, None), WalkTo(9, here, 0), NewPickingUp(5, there, 0, None)},
		{"bringing_to_unchanged", NewBringingTo(6, there, 0, 7), BringTo(8, here, 0, 9), NewBringingTo(6, there, 0, 7)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Transition(c.from, c.d, 0.1))
		})
	}
}

func TestIdleContinueIsIdempotent(t *testing.T) {
	s := State{}
	for i := 0; i < 100; i++ {
		s = Transition(s, Continue, 0.1)
	}
	assert.Equal(t, State{}, s)
}

func TestIsFinishedTimed(t *testing.T) {
	far := common.Vec3{X: 100, Y: 100, Z: 100}
	done := State{Kind: Building, Target: 1, Progress: TaskProgress{TimeNeeded: 5, TimeElapsed: 5}}
	notYet := State{Kind: Building, Target: 1, Progress: TaskProgress{TimeNeeded: 5, TimeElapsed: 4.99}}

	assert.True(t, IsFinished(done, far))
	assert.True(t, IsFinished(done, here))
	assert.False(t, IsFinished(notYet, here))
	assert.False(t, IsFinished(State{}, here))
}

func TestIsFinishedPositionalIsStrict(t *testing.T) {
	target := common.Vec3{X: 1, Z: 1}
	cases := []struct {
		name string
		pos  common.Vec3
		want bool
	}{
		{"on_target", target, true},
		{"just_inside", common.Vec3{X: 1.0999, Z: 1}, true},
		{"exactly_threshold", common.Vec3{X: 1, Z: 1.125}, false},
		{"outside", common.Vec3{X: 1.5, Z: 1}, false},
	}

	for _, kind := range []func(Ref, common.Vec3) State{
		func(r Ref, p common.Vec3) State { return NewWalkingTo(r, p, 0) },
		func(r Ref, p common.Vec3) State { return NewWalkingToHarvest(r, p, 0) },
		func(r Ref, p common.Vec3) State { return NewPickingUp(r, p, 0, None) },
		func(r Ref, p common.Vec3) State { return NewBringingTo(r, p, 0, None) },
	} {
		s := kind(1, target)
		for _, c := range cases {
			t.Run(s.Kind.String()+"_"+c.name, func(t *testing.T) {
				if c.name == "exactly_threshold" {
					// 0.125 is exactly representable; use a threshold that matches it.
					s.Proximity = 0.125
				} else {
					s.Proximity = 0
				}
				assert.Equal(t, c.want, IsFinished(s, c.pos))
			})
		}
	}
}

func TestIsFinishedAtCloseEnoughDistance(t *testing.T) {
	s := NewWalkingTo(1, here, 0)
	assert.False(t, IsFinished(s, common.Vec3{X: CloseEnoughDistance}))
	assert.True(t, IsFinished(s, common.Vec3{X: CloseEnoughDistance / 2}))
}

func TestIsFinishedIgnoresHeight(t *testing.T) {
	s := NewPickingUp(1, common.Vec3{X: 1, Y: 0.1}, 0, None)
	assert.True(t, IsFinished(s, common.Vec3{X: 1}))

	s = NewWalkingTo(1, common.Vec3{Y: 0.5}, 0)
	assert.True(t, IsFinished(s, common.Vec3{}))
}

func TestIsFinishedUsesStateProximity(t *testing.T) {
	s := NewWalkingTo(1, common.Vec3{X: 0.3}, 0.5)
	assert.True(t, IsFinished(s, common.Vec3{}))

	s.Proximity = 0
	assert.False(t, IsFinished(s, common.Vec3{}))
}

func TestInterrupt(t *testing.T) {
	removed := func(r Ref) bool { return r == 4 }

	s, ok := Interrupt(NewHarvesting(4, 0.7), removed)
	assert.True(t, ok)
	assert.Equal(t, State{}, s)

	kept := NewWalkingTo(1, there, 0)
	s, ok = Interrupt(kept, removed)
	assert.False(t, ok)
	assert.Equal(t, kept, s)

	s, ok = Interrupt(State{}, func(Ref) bool { return true })
	assert.False(t, ok)
	assert.Equal(t, State{}, s)
}

func TestTaskProgressNeverNegative(t *testing.T) {
	p := NewTaskProgress(-1)
	assert.Equal(t, 0.0, p.TimeNeeded)
	p = p.Advance(-3)
	assert.Equal(t, 0.0, p.TimeElapsed)
	assert.True(t, p.Complete())
}
