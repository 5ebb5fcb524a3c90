package collide

import "github.com/colmak/collsim/internal/geom"

// Engine is one collision detection backend. Engines are stateless
// factories: per-model acceleration state lives in the ModelState they
// hand out. An engine advertises the shape kinds it can handle;
// unsupported kinds make the corresponding AddXxx report false without
// touching the registry.
type Engine interface {
	Name() string
	Available() bool
	Supports(kind ShapeKind) bool
	NewState() ModelState
}

// ModelState is the backend acceleration state bound to one model.
// Clear/Build bracket the construction lifecycle; Sync pushes the
// owning body's world transform before AABB is trusted.
type ModelState interface {
	Clear()
	Build(shapes []*Shape) error
	Sync(t geom.Transform)
	AABB() geom.AABB
}
