package system

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/entity"
)

const saplingHeight = 0.1

// TreeGrowthSystem plants new trees at random inside the world disk. A tree
// grows with probability GrowRate*dt per tick and comes with a sapling pile.
type TreeGrowthSystem struct {
	tuning *Tuning
	rng    *rand.Rand
	log    *slog.Logger
}

func NewTreeGrowthSystem(tuning *Tuning, rng *rand.Rand, log *slog.Logger) *TreeGrowthSystem {
	return &TreeGrowthSystem{tuning: tuning, rng: rng, log: loggerOr(log)}
}

func (s *TreeGrowthSystem) Update(w *ecs.World) {
	if w == nil || s.tuning == nil || s.tuning.GrowRate <= 0 {
		return
	}
	if s.rng.Float64() >= s.tuning.GrowRate*w.Time().Delta {
		return
	}

	pos := GrowthPosition(s.tuning.WorldRadius, s.rng)
	tree, err := entity.NewTree(w, pos, s.tuning.TreeHealth)
	if err != nil {
		s.log.Error("grow tree", "err", err)
		return
	}
	if s.tuning.SaplingWood > 0 {
		if _, err := entity.NewWoodPile(w, pos.Add(common.Vec3{Y: saplingHeight}), s.tuning.SaplingWood); err != nil {
			s.log.Error("grow sapling", "tree", tree.String(), "err", err)
		}
	}
	s.log.Debug("tree grown", "entity", tree.String(), "x", pos.X, "z", pos.Z)
}

// GrowthPosition picks a point on the ground within radius of the origin,
// with r = radius*u and a uniform angle.
func GrowthPosition(radius float64, rng *rand.Rand) common.Vec3 {
	r := radius * rng.Float64()
	theta := 2 * math.Pi * rng.Float64()
	return common.Vec3{X: r * math.Cos(theta), Z: r * math.Sin(theta)}
}
