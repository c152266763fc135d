package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vec3 is a world-space position. Y is up.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Ground projects v onto the XZ plane.
func (v Vec3) Ground() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

// Distance is the full Euclidean distance between a and b.
func Distance(a, b Vec3) float64 {
	d := a.Sub(b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// GroundDistance is the distance between a and b ignoring height.
func GroundDistance(a, b Vec3) float64 {
	return a.Ground().Distance(b.Ground())
}

// Steer moves pos toward target on the ground plane by at most speed*dt and
// turns to face the direction of travel. Height is left untouched and the
// step never overshoots the target. Yaw is measured from +X toward +Z.
func Steer(pos Vec3, yaw float64, target Vec3, speed, dt float64) (Vec3, float64) {
	delta := target.Ground().Sub(pos.Ground())
	remaining := delta.Length()
	if remaining == 0 || speed <= 0 || dt <= 0 {
		return pos, yaw
	}

	step := speed * dt
	if step > remaining {
		step = remaining
	}
	move := delta.Normalize().Mult(step)

	return Vec3{X: pos.X + move.X, Y: pos.Y, Z: pos.Z + move.Y}, delta.ToAngle()
}
