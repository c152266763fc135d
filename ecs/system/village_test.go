package system

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/ecs/entity"
	"github.com/milk9111/villagesim/fsm"
)

const testDt = 1.0 / 60.0

// quietTuning is the default tuning with tree growth and idle decisions off,
// so a test only sees what it sets up.
func quietTuning() *Tuning {
	t := DefaultTuning()
	t.GrowRate = 0
	t.Weights = [actionCount]float64{}
	return t
}

func newVillage(t *testing.T, tuning *Tuning) (*ecs.World, *VillageSystems) {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	return ecs.NewWorld(), NewVillageSystems(tuning, rng, nil, nil)
}

func stateOf(t *testing.T, w *ecs.World, e ecs.Entity) fsm.State {
	t.Helper()
	st, ok := ecs.Get(w, e, component.FSMStateComponent.Kind())
	require.True(t, ok, "entity %s has no FSM state", e)
	return st.State
}

func setState(t *testing.T, w *ecs.World, e ecs.Entity, s fsm.State) {
	t.Helper()
	st, ok := ecs.Get(w, e, component.FSMStateComponent.Kind())
	require.True(t, ok)
	st.State = s
}

func mustSpawn(t *testing.T) func(ecs.Entity, error) ecs.Entity {
	return func(e ecs.Entity, err error) ecs.Entity {
		t.Helper()
		require.NoError(t, err)
		return e
	}
}

func TestDrawActionDistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	weights := [actionCount]float64{1, 2, 3}

	const draws = 10000
	var counts [actionCount]int
	for i := 0; i < draws; i++ {
		a, ok := DrawAction(weights, rng)
		require.True(t, ok)
		counts[a]++
	}

	for a, want := range []float64{1.0 / 6, 2.0 / 6, 3.0 / 6} {
		got := float64(counts[a]) / draws
		assert.InDelta(t, want, got, 0.02, "action %s", Action(a))
	}
}

func TestDrawActionSkipsNonPositiveWeights(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	_, ok := DrawAction([actionCount]float64{0, 0, 0}, rng)
	assert.False(t, ok)

	for i := 0; i < 100; i++ {
		a, ok := DrawAction([actionCount]float64{-1, 0, 2}, rng)
		require.True(t, ok)
		assert.Equal(t, ActionPickUpWood, a)
	}
}

func TestNearest(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		want       ecs.Entity
		ok         bool
	}{
		{name: "empty", ok: false},
		{
			name: "closest wins",
			candidates: []Candidate{
				{Entity: 1, Position: common.Vec3{X: 3}},
				{Entity: 2, Position: common.Vec3{X: 1}},
				{Entity: 3, Position: common.Vec3{X: 2}},
			},
			want: 2, ok: true,
		},
		{
			name: "tie goes to earliest",
			candidates: []Candidate{
				{Entity: 4, Position: common.Vec3{X: 1}},
				{Entity: 5, Position: common.Vec3{X: -1}},
			},
			want: 4, ok: true,
		},
		{
			name: "height counts",
			candidates: []Candidate{
				{Entity: 6, Position: common.Vec3{X: 1, Y: 5}},
				{Entity: 7, Position: common.Vec3{X: 2}},
			},
			want: 7, ok: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(common.Vec3{}, tt.candidates)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Entity)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	c := Candidates{
		Houses: []Candidate{{Entity: 10, Position: common.Vec3{X: 3}}},
		Trees:  []Candidate{{Entity: 20, Position: common.Vec3{Z: 2}}},
		Piles: []Candidate{
			{Entity: 30, Position: common.Vec3{X: 5}},
			{Entity: 31, Position: common.Vec3{X: 1}},
		},
	}

	d, ok := Decide(ActionWalkToHouse, common.Vec3{}, c, 0.1, rng)
	require.True(t, ok)
	assert.Equal(t, fsm.DecisionWalkTo, d.Kind)
	assert.Equal(t, fsm.Ref(10), d.Target)
	assert.Equal(t, common.Vec3{X: 3}, d.Position)

	d, ok = Decide(ActionChopTree, common.Vec3{}, c, 0.1, rng)
	require.True(t, ok)
	assert.Equal(t, fsm.DecisionWalkToGather, d.Kind)
	assert.Equal(t, fsm.Ref(20), d.Target)

	d, ok = Decide(ActionPickUpWood, common.Vec3{}, c, 0.1, rng)
	require.True(t, ok)
	assert.Equal(t, fsm.DecisionPickUp, d.Kind)
	assert.Equal(t, fsm.Ref(31), d.Target)
	assert.Equal(t, fsm.None, d.Held)

	for _, a := range []Action{ActionWalkToHouse, ActionChopTree, ActionPickUpWood} {
		_, ok := Decide(a, common.Vec3{}, Candidates{}, 0.1, rng)
		assert.False(t, ok, "action %s with nothing to act on", a)
	}
}

func TestWalkToHouseWithNoHousesStaysIdle(t *testing.T) {
	tuning := quietTuning()
	tuning.Weights[ActionWalkToHouse] = 1
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))
	for i := 0; i < 10; i++ {
		vs.Scheduler.Step(w, testDt)
	}
	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
}

func TestSharedDrawGivesEveryoneTheSameAction(t *testing.T) {
	tuning := quietTuning()
	tuning.Weights = [actionCount]float64{1, 1, 0}
	tuning.SharedDraw = true
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	spawn(entity.NewHouse(w, common.Vec3{X: 3}))
	spawn(entity.NewTree(w, common.Vec3{X: -3}, tuning.TreeHealth))
	var villagers []ecs.Entity
	for i := 0; i < 8; i++ {
		villagers = append(villagers, spawn(entity.NewVillager(w, common.Vec3{}, 3, 1)))
	}

	vs.Scheduler.Step(w, testDt)

	first := stateOf(t, w, villagers[0]).Kind
	require.NotEqual(t, fsm.Idle, first)
	for _, v := range villagers[1:] {
		assert.Equal(t, first, stateOf(t, w, v).Kind)
	}
}

// A villager sent to chop walks to the tree, then starts a fresh harvest timer.
func TestChopTreeWalksThenHarvests(t *testing.T) {
	tuning := quietTuning()
	tuning.Weights[ActionChopTree] = 1
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	tree := spawn(entity.NewTree(w, common.Vec3{X: 2}, tuning.TreeHealth))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))

	vs.Scheduler.Step(w, testDt)
	s := stateOf(t, w, v)
	require.Equal(t, fsm.WalkingToHarvest, s.Kind)
	assert.Equal(t, fsm.Ref(tree), s.Target)

	for i := 0; i < 120 && stateOf(t, w, v).Kind == fsm.WalkingToHarvest; i++ {
		vs.Scheduler.Step(w, testDt)
	}

	s = stateOf(t, w, v)
	require.Equal(t, fsm.Harvesting, s.Kind)
	assert.Equal(t, fsm.Ref(tree), s.Target)
	assert.InDelta(t, 0.7, s.Progress.TimeNeeded, 1e-9)
	assert.Zero(t, s.Progress.TimeElapsed)

	tr, ok := ecs.Get(w, v, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Less(t, common.GroundDistance(tr.Position, common.Vec3{X: 2}), fsm.CloseEnoughDistance)
}

func TestHarvestTimerDropsWoodAndGoesIdle(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	tree := spawn(entity.NewTree(w, common.Vec3{X: 1}, 100))
	v := spawn(entity.NewVillager(w, common.Vec3{X: 1}, 3, 1))
	setState(t, w, v, fsm.NewHarvesting(fsm.Ref(tree), 0.5))

	for i := 0; i < 60 && stateOf(t, w, v).Kind == fsm.Harvesting; i++ {
		vs.Scheduler.Step(w, testDt)
	}
	require.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)

	piles := ecs.Query(w, component.ItemDropComponent.Kind())
	require.Len(t, piles, 1)
	pile, ok := ecs.Get(w, piles[0], component.WoodPileComponent.Kind())
	require.True(t, ok)
	assert.GreaterOrEqual(t, pile.Count, tuning.DropMin)
	assert.Less(t, pile.Count, tuning.DropMax)

	h, ok := ecs.Get(w, tree, component.HarvestableComponent.Kind())
	require.True(t, ok)
	assert.Less(t, h.Health(), 100.0)
}

// A tree destroyed mid-harvest sends its harvester straight back to Idle.
func TestHarvestInterruptedWhenTargetDestroyed(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	tree := spawn(entity.NewTree(w, common.Vec3{X: 1}, 3))
	v := spawn(entity.NewVillager(w, common.Vec3{X: 1}, 3, 1))
	setState(t, w, v, fsm.NewHarvesting(fsm.Ref(tree), 10))

	h, ok := ecs.Get(w, tree, component.HarvestableComponent.Kind())
	require.True(t, ok)
	h.SetHealth(0)

	vs.Scheduler.Step(w, testDt)

	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
	assert.False(t, ecs.IsAlive(w, tree))

	// Only the tree's own drop: the harvest never completed.
	piles := ecs.Query(w, component.ItemDropComponent.Kind())
	require.Len(t, piles, 1)
	pos, ok := ResolvePosition(w, piles[0])
	require.True(t, ok)
	assert.Equal(t, common.Vec3{X: 1}, pos)
}

func TestWalkingToHarvestFinishesWhenTargetDestroyed(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	tree := spawn(entity.NewTree(w, common.Vec3{X: 5}, 3))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))
	setState(t, w, v, fsm.NewWalkingToHarvest(fsm.Ref(tree), common.Vec3{X: 5}, 0.1))

	h, _ := ecs.Get(w, tree, component.HarvestableComponent.Kind())
	h.SetHealth(-1)

	vs.Scheduler.Step(w, testDt)
	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)

	tr, _ := ecs.Get(w, v, component.TransformComponent.Kind())
	assert.Equal(t, common.Vec3{}, tr.Position)
}

type eventRecorder struct {
	destroyed []ecs.Entity
}

func (r *eventRecorder) Update(w *ecs.World) {
	for _, evt := range ecs.ReadEvents[ecs.HarvestableDestroyed](w, ecs.EventHarvestableDestroyed) {
		r.destroyed = append(r.destroyed, evt.Entity)
	}
}

func TestSharedHarvestReportsOneDestroy(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	rec := &eventRecorder{}
	vs.Scheduler.Add(rec)
	spawn := mustSpawn(t)

	tree := spawn(entity.NewTree(w, common.Vec3{X: 1}, 0.01))
	var villagers []ecs.Entity
	for i := 0; i < 4; i++ {
		v := spawn(entity.NewVillager(w, common.Vec3{X: 1}, 3, 1))
		setState(t, w, v, fsm.NewHarvesting(fsm.Ref(tree), 10))
		villagers = append(villagers, v)
	}

	for i := 0; i < 5; i++ {
		vs.Scheduler.Step(w, testDt)
	}

	assert.Equal(t, []ecs.Entity{tree}, rec.destroyed)
	for _, v := range villagers {
		assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
	}
	assert.Equal(t, 1, ecs.Count(w, component.ItemDropComponent.Kind()))
}

// Reaching a pile lifts the whole pile and heads for a hut without going Idle.
func TestPickUpLiftsPileAndHeadsForHut(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	hutPos := common.Vec3{X: 1.5}
	hut := spawn(entity.NewWoodHut(w, hutPos))
	pile := spawn(entity.NewWoodPile(w, common.Vec3{Z: 0.05}, 3))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))
	setState(t, w, v, fsm.NewPickingUp(fsm.Ref(pile), common.Vec3{Z: 0.05}, 0.1, fsm.None))

	vs.Scheduler.Step(w, testDt)

	s := stateOf(t, w, v)
	require.Equal(t, fsm.BringingTo, s.Kind)
	assert.Equal(t, fsm.Ref(hut), s.Target)
	assert.Equal(t, hutPos, s.Position)
	require.NotEqual(t, fsm.None, s.Held)
	assert.False(t, ecs.IsAlive(w, pile))

	held := ecs.Entity(s.Held)
	wood, ok := ecs.Get(w, held, component.WoodPileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 3, wood.Count)
	assert.False(t, ecs.Has(w, held, component.ItemDropComponent.Kind()))

	parent, ok := ecs.Get(w, held, component.ParentComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, uint64(v), parent.Entity)

	vpos, _ := ResolvePosition(w, v)
	hpos, ok := ResolvePosition(w, held)
	require.True(t, ok)
	assert.InDelta(t, vpos.Y+tuning.CarryHeight, hpos.Y, 1e-9)
}

func TestPickUpWithoutHutGoesIdle(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	pile := spawn(entity.NewWoodPile(w, common.Vec3{}, 3))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))
	setState(t, w, v, fsm.NewPickingUp(fsm.Ref(pile), common.Vec3{}, 0.1, fsm.None))

	vs.Scheduler.Step(w, testDt)

	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
	assert.True(t, ecs.IsAlive(w, pile))
}

func TestPickUpOfVanishedPileGoesIdle(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	spawn(entity.NewWoodHut(w, common.Vec3{X: 1.5}))
	pile := spawn(entity.NewWoodPile(w, common.Vec3{X: 4}, 3))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))
	setState(t, w, v, fsm.NewPickingUp(fsm.Ref(pile), common.Vec3{X: 4}, 0.1, fsm.None))
	ecs.DestroyEntity(w, pile)

	vs.Scheduler.Step(w, testDt)
	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
}

// Arriving at the hut adds the carried wood to its stockpile.
func TestBringToDeliversIntoStockpile(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	hutPos := common.Vec3{X: 1.5}
	hut := spawn(entity.NewWoodHut(w, hutPos))
	v := spawn(entity.NewVillager(w, hutPos, 3, 1))
	held := spawn(entity.NewHeldWood(w, v, 5, tuning.CarryHeight))
	setState(t, w, v, fsm.NewBringingTo(fsm.Ref(hut), hutPos, 0.1, fsm.Ref(held)))

	vs.Scheduler.Step(w, testDt)

	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
	assert.False(t, ecs.IsAlive(w, held))
	stock, ok := ecs.Get(w, hut, component.StockpileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 5, stock.Wood)
}

func TestBringToWalksBeforeDelivering(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	hutPos := common.Vec3{X: 1.5}
	hut := spawn(entity.NewWoodHut(w, hutPos))
	v := spawn(entity.NewVillager(w, common.Vec3{X: -1.5}, 3, 1))
	held := spawn(entity.NewHeldWood(w, v, 2, tuning.CarryHeight))
	setState(t, w, v, fsm.NewBringingTo(fsm.Ref(hut), hutPos, 0.1, fsm.Ref(held)))

	vs.Scheduler.Step(w, testDt)
	require.Equal(t, fsm.BringingTo, stateOf(t, w, v).Kind)

	for i := 0; i < 120 && stateOf(t, w, v).Kind == fsm.BringingTo; i++ {
		vs.Scheduler.Step(w, testDt)
	}
	require.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)

	stock, _ := ecs.Get(w, hut, component.StockpileComponent.Kind())
	assert.Equal(t, 2, stock.Wood)
}

func TestInterruptDropsHeldWood(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	hutPos := common.Vec3{X: 4}
	hut := spawn(entity.NewWoodHut(w, hutPos))
	v := spawn(entity.NewVillager(w, common.Vec3{X: 1}, 3, 1))
	held := spawn(entity.NewHeldWood(w, v, 4, tuning.CarryHeight))
	setState(t, w, v, fsm.NewBringingTo(fsm.Ref(hut), hutPos, 0.1, fsm.Ref(held)))

	ecs.DestroyEntity(w, hut)
	vs.Scheduler.Step(w, testDt)

	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
	require.True(t, ecs.IsAlive(w, held))
	assert.True(t, ecs.Has(w, held, component.ItemDropComponent.Kind()))
	assert.False(t, ecs.Has(w, held, component.ParentComponent.Kind()))

	pos, ok := ResolvePosition(w, held)
	require.True(t, ok)
	assert.Zero(t, pos.Y)
}

func TestWalkingToHoldsWhenTargetUnresolvable(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	house := spawn(entity.NewHouse(w, common.Vec3{X: 3}))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))
	setState(t, w, v, fsm.NewWalkingTo(fsm.Ref(house), common.Vec3{X: 3}, 0.1))
	ecs.Remove(w, house, component.TransformComponent.Kind())

	vs.Scheduler.Step(w, testDt)

	assert.Equal(t, fsm.WalkingTo, stateOf(t, w, v).Kind)
	tr, _ := ecs.Get(w, v, component.TransformComponent.Kind())
	assert.Equal(t, common.Vec3{}, tr.Position)
}

func TestTreeGrowth(t *testing.T) {
	tuning := quietTuning()
	tuning.GrowRate = 1 / testDt
	w, vs := newVillage(t, tuning)

	vs.Scheduler.Step(w, testDt)

	trees := ecs.Query(w, component.TreeTagComponent.Kind())
	require.Len(t, trees, 1)
	pos, ok := ResolvePosition(w, trees[0])
	require.True(t, ok)
	assert.LessOrEqual(t, common.GroundDistance(pos, common.Vec3{}), tuning.WorldRadius)

	piles := ecs.Query(w, component.ItemDropComponent.Kind())
	require.Len(t, piles, 1)
	ppos, _ := ResolvePosition(w, piles[0])
	assert.InDelta(t, pos.Y+saplingHeight, ppos.Y, 1e-9)
	wood, _ := ecs.Get(w, piles[0], component.WoodPileComponent.Kind())
	assert.Equal(t, tuning.SaplingWood, wood.Count)
}

func TestGrowthPositionStaysInDisk(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 1000; i++ {
		p := GrowthPosition(6.4, rng)
		assert.LessOrEqual(t, common.GroundDistance(p, common.Vec3{}), 6.4+1e-9)
		assert.Zero(t, p.Y)
	}
}

func TestBuildingFinishesWhenTimerRunsOut(t *testing.T) {
	tuning := quietTuning()
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	house := spawn(entity.NewHouse(w, common.Vec3{X: 3}))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))
	setState(t, w, v, fsm.NewBuilding(fsm.Ref(house), 0.25))

	ticks := 0
	for ; ticks < 60 && stateOf(t, w, v).Kind == fsm.Building; ticks++ {
		vs.Scheduler.Step(w, testDt)
	}
	assert.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
	assert.GreaterOrEqual(t, ticks, 15)

	tr, _ := ecs.Get(w, v, component.TransformComponent.Kind())
	assert.Equal(t, common.Vec3{}, tr.Position)
}

func TestWalkToHouseArrivesAndGoesIdle(t *testing.T) {
	tuning := quietTuning()
	tuning.Weights[ActionWalkToHouse] = 1
	w, vs := newVillage(t, tuning)
	spawn := mustSpawn(t)

	housePos := common.Vec3{X: 1}
	house := spawn(entity.NewHouse(w, housePos))
	v := spawn(entity.NewVillager(w, common.Vec3{}, 3, 1))

	vs.Scheduler.Step(w, testDt)
	s := stateOf(t, w, v)
	require.Equal(t, fsm.WalkingTo, s.Kind)
	assert.Equal(t, fsm.Ref(house), s.Target)
	assert.Equal(t, housePos, s.Position)

	// Stop the next draw so the villager stays Idle once it arrives.
	tuning.Weights = [actionCount]float64{}

	ticks := 0
	for ; ticks < 120 && stateOf(t, w, v).Kind == fsm.WalkingTo; ticks++ {
		vs.Scheduler.Step(w, testDt)
	}
	require.Equal(t, fsm.Idle, stateOf(t, w, v).Kind)
	assert.Greater(t, ticks, 1)

	tr, ok := ecs.Get(w, v, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Less(t, common.GroundDistance(tr.Position, housePos), fsm.CloseEnoughDistance)
}

func TestDropHeldWithoutHeldEntity(t *testing.T) {
	w := ecs.NewWorld()
	v, err := entity.NewVillager(w, common.Vec3{X: 2}, 3, 1)
	require.NoError(t, err)
	held, err := entity.NewHeldWood(w, v, 1, 0.95)
	require.NoError(t, err)

	ecs.DestroyEntity(w, held)
	assert.False(t, dropHeld(w, v, fsm.Ref(held)))
	assert.False(t, dropHeld(w, v, fsm.None))
	assert.Zero(t, ecs.Count(w, component.ItemDropComponent.Kind()))
}
