package component

import "github.com/milk9111/villagesim/common"

// Transform is an entity's world placement. For entities with a Parent the
// position is local to the parent.
type Transform struct {
	Position common.Vec3
	Yaw      float64
}

var TransformComponent = NewComponent[Transform]()
