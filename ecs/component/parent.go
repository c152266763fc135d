package component

// Parent attaches an entity to another one. Entity is an ecs.Entity value;
// the child's Transform is local to it.
type Parent struct {
	Entity uint64
}

var ParentComponent = NewComponent[Parent]()
