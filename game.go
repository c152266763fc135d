package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sort"
	"time"

	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/ecs/system"
	"github.com/milk9111/villagesim/prefabs"
)

// Game is one running village.
type Game struct {
	world   *ecs.World
	systems *system.VillageSystems
	tuning  *system.Tuning
	spec    *prefabs.VillageSpec
	seed    uint64
	log     *slog.Logger
}

// NewGame spawns the village described by spec. A zero seed falls back to
// the spec's seed, then to the clock.
func NewGame(spec *prefabs.VillageSpec, seed uint64, log *slog.Logger) (*Game, error) {
	if spec == nil {
		d := prefabs.DefaultVillageSpec()
		spec = &d
	}
	if log == nil {
		log = slog.Default()
	}
	if seed == 0 {
		seed = spec.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	tuning := system.TuningFromSpec(spec)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	g := &Game{
		world:  ecs.NewWorld(),
		tuning: &tuning,
		spec:   spec,
		seed:   seed,
		log:    log,
	}
	g.systems = system.NewVillageSystems(g.tuning, rng, nil, log)
	if err := g.loadScript(spec.Decision.Script); err != nil {
		return nil, err
	}
	if err := SpawnVillage(g.world, spec); err != nil {
		return nil, err
	}

	log.Info("village ready",
		"name", spec.Name,
		"seed", seed,
		"villagers", len(spec.Layout.Villagers),
		"houses", len(spec.Layout.Houses),
		"wood_huts", len(spec.Layout.WoodHuts),
		"trees", len(spec.Layout.Trees),
	)
	return g, nil
}

func (g *Game) World() *ecs.World { return g.world }

// Step advances the village by one fixed tick.
func (g *Game) Step() {
	g.systems.Scheduler.Step(g.world, g.spec.TickDelta())
}

// RunOptions controls Run.
type RunOptions struct {
	Ticks    int
	Realtime bool
	SpecName string
	Changes  <-chan prefabs.Change
}

// Run steps the village until ctx is done or opts.Ticks ticks have run.
// Prefab changes are applied between ticks.
func (g *Game) Run(ctx context.Context, opts RunOptions) error {
	if !opts.Realtime {
		for i := 0; opts.Ticks <= 0 || i < opts.Ticks; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			g.Step()
		}
		return nil
	}

	ticker := time.NewTicker(time.Duration(g.spec.TickDelta() * float64(time.Second)))
	defer ticker.Stop()

	for i := 0; opts.Ticks <= 0 || i < opts.Ticks; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-opts.Changes:
			if !ok {
				opts.Changes = nil
				continue
			}
			g.handleChange(change, opts.SpecName)
		case <-ticker.C:
			g.Step()
			i++
		}
	}
	return nil
}

func (g *Game) handleChange(change prefabs.Change, specName string) {
	switch change.Kind {
	case prefabs.ChangeSpec:
		if specName == "" {
			specName = prefabs.VillageSpecFile
		}
		if filepath.Base(change.Path) != filepath.Base(specName) {
			return
		}
		spec, err := prefabs.LoadVillageSpec(specName)
		if err != nil {
			g.log.Warn("village spec reload rejected", "path", change.Path, "err", err)
			return
		}
		if err := g.ApplySpec(spec); err != nil {
			g.log.Warn("village spec reload failed", "path", change.Path, "err", err)
			return
		}
		g.log.Info("village spec reloaded", "path", change.Path)
	case prefabs.ChangeScript:
		script := g.spec.Decision.Script
		if script == "" || filepath.Base(change.Path) != filepath.Base(script) {
			return
		}
		if err := g.loadScript(script); err != nil {
			g.log.Warn("decision script reload failed", "path", change.Path, "err", err)
			return
		}
		g.log.Info("decision script reloaded", "path", change.Path)
	}
}

// ApplySpec swaps in new tunables without respawning anything. Villager
// speeds are updated in place; the layout is ignored.
func (g *Game) ApplySpec(spec *prefabs.VillageSpec) error {
	if spec == nil {
		return fmt.Errorf("apply spec: nil spec")
	}
	if spec.Decision.Script != g.spec.Decision.Script {
		if err := g.loadScript(spec.Decision.Script); err != nil {
			return err
		}
	}

	*g.tuning = system.TuningFromSpec(spec)
	ecs.ForEach(g.world, component.VillagerComponent.Kind(), func(_ ecs.Entity, v *component.Villager) {
		v.MoveSpeed = spec.Villager.MoveSpeed
		v.HarvestSpeed = spec.Villager.HarvestSpeed
	})
	g.spec = spec
	return nil
}

func (g *Game) loadScript(path string) error {
	if path == "" {
		g.systems.Decision.SetWeightSource(nil)
		return nil
	}
	sw, err := system.NewScriptWeights(path)
	if err != nil {
		return err
	}
	g.systems.Decision.SetWeightSource(sw)
	g.log.Debug("decision script loaded", "path", sw.Path())
	return nil
}

// Summary is a snapshot of where the village stands.
type Summary struct {
	Tick       uint64
	Elapsed    float64
	Stock      map[string]int
	TotalStock int
	States     map[string]int
	Trees      int
	Piles      int
}

func (g *Game) Summary() Summary {
	tm := g.world.Time()
	s := Summary{
		Tick:    tm.Tick,
		Elapsed: tm.Elapsed,
		Stock:   make(map[string]int),
		States:  make(map[string]int),
		Trees:   ecs.Count(g.world, component.TreeTagComponent.Kind()),
		Piles:   ecs.Count(g.world, component.ItemDropComponent.Kind()),
	}
	ecs.ForEach(g.world, component.StockpileComponent.Kind(), func(e ecs.Entity, st *component.Stockpile) {
		s.Stock[e.String()] = st.Wood
		s.TotalStock += st.Wood
	})
	ecs.ForEach(g.world, component.FSMStateComponent.Kind(), func(_ ecs.Entity, st *component.FSMState) {
		s.States[st.State.Kind.String()]++
	})
	return s
}

func (g *Game) LogSummary() {
	s := g.Summary()

	attrs := []any{
		"tick", s.Tick,
		"elapsed", s.Elapsed,
		"total_stock", s.TotalStock,
		"trees", s.Trees,
		"piles", s.Piles,
	}
	for _, k := range sortedKeys(s.Stock) {
		attrs = append(attrs, slog.Int("stock."+k, s.Stock[k]))
	}
	for _, k := range sortedKeys(s.States) {
		attrs = append(attrs, slog.Int("state."+k, s.States[k]))
	}
	g.log.Info("village summary", attrs...)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
