package engines

import (
	"github.com/colmak/collsim/internal/collide"
	"github.com/colmak/collsim/internal/geom"
)

// marginClampRatio bounds the inward safe margin to a fraction of a
// shape's smallest extent. Margins behave like a rounding fillet on the
// shape corners; a margin larger than the shape itself would hollow it
// out, so thin shapes get their margin clamped silently.
const marginClampRatio = 0.5

// Sweep is the reference CPU engine. It supports every shape kind,
// including planar 2D paths, and maintains per-shape bounding volumes
// expanded by the envelope plus the (clamped) safe margin.
type Sweep struct{}

func NewSweep() *Sweep { return &Sweep{} }

func (e *Sweep) Name() string { return "sweep" }

func (e *Sweep) Available() bool { return true }

func (e *Sweep) Supports(kind collide.ShapeKind) bool {
	return collide.ValidKind(kind)
}

func (e *Sweep) NewState() collide.ModelState {
	return &boundsState{}
}

// boundsState keeps one envelope-expanded local box per shape plus the
// last synced body transform. Shared by the CPU engines; they differ
// only in capability set.
type boundsState struct {
	local  []geom.AABB
	world  geom.AABB
	synced bool
}

func (s *boundsState) Clear() {
	s.local = nil
	s.world = geom.EmptyAABB()
	s.synced = false
}

func (s *boundsState) Build(shapes []*collide.Shape) error {
	s.local = make([]geom.AABB, 0, len(shapes))
	for _, sh := range shapes {
		s.local = append(s.local, shapeBounds(sh))
	}
	return nil
}

func (s *boundsState) Sync(t geom.Transform) {
	w := geom.EmptyAABB()
	for _, b := range s.local {
		w = w.Union(b.Transformed(t))
	}
	s.world = w
	s.synced = true
}

func (s *boundsState) AABB() geom.AABB {
	return s.world
}

// shapeBounds computes the full-margin expanded local box for a shape:
// envelope plus safe margin, margin clamped for degenerate thin shapes.
func shapeBounds(sh *collide.Shape) geom.AABB {
	raw := sh.LocalBounds()
	margin := sh.Margin
	size := raw.Size()
	minExtent := size.X
	if size.Y < minExtent {
		minExtent = size.Y
	}
	if size.Z < minExtent {
		minExtent = size.Z
	}
	if limit := minExtent * marginClampRatio; margin > limit {
		margin = limit
	}
	return raw.Expand(sh.Envelope + margin)
}
