package collide

import (
	"github.com/colmak/collsim/internal/geom"
)

// ShapeKind enumerates every primitive a collision engine may be asked
// to support. Engines advertise their subset via Engine.Supports.
type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindEllipsoid
	KindBox
	KindCylinder
	KindCone
	KindCapsule
	KindRoundedBox
	KindRoundedCylinder
	KindRoundedCone
	KindConvexHull
	KindTriangleMesh
	KindBarrel
	KindPath2D
	KindPoint

	numShapeKinds
)

var kindNames = [...]string{
	"sphere", "ellipsoid", "box", "cylinder", "cone", "capsule",
	"rounded_box", "rounded_cylinder", "rounded_cone", "convex_hull",
	"triangle_mesh", "barrel", "path2d", "point",
}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// KindFromName resolves a shape kind by its lowercase name, as used in
// scene configs and model archives.
func KindFromName(name string) (ShapeKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return ShapeKind(i), true
		}
	}
	return 0, false
}

// ValidKind reports whether k is one of the enumerated shape kinds.
func ValidKind(k ShapeKind) bool {
	return k >= 0 && k < numShapeKinds
}

// AllKinds lists every shape kind, for capability matrices.
func AllKinds() []ShapeKind {
	kinds := make([]ShapeKind, numShapeKinds)
	for i := range kinds {
		kinds[i] = ShapeKind(i)
	}
	return kinds
}

// Shape is one geometric descriptor in a model's registry. Params holds
// the kind-specific dimensions in declaration order:
//
//	sphere            radius
//	ellipsoid         rx, ry, rz
//	box               hx, hy, hz (half extents)
//	cylinder          rx, rz, hy (radii and half height, Y axis)
//	cone              rx, rz, hy
//	capsule           radius, hlen (half length of axis, Y axis)
//	rounded_box       hx, hy, hz, sphereR
//	rounded_cylinder  rx, rz, hy, sphereR
//	rounded_cone      rx, rz, hy, sphereR
//	barrel            yLow, yHigh, rVert, rHor, rOffset
//	path2d            thickness
//
// Convex hulls carry their point cloud in Hull; triangle meshes carry
// Mesh plus the static/convex hints and the sphere-swept thickness.
// Margin and Envelope are captured from the owning model at the moment
// the shape is added and are never updated retroactively.
type Shape struct {
	Kind ShapeKind
	Pos  geom.Vec3
	Rot  geom.Mat33

	Params []float64

	Hull []geom.Vec3
	Mesh *geom.TriangleMesh
	Path *geom.Path2D

	// Triangle mesh hints.
	Static         bool
	Convex         bool
	SweepThickness float64

	// Tolerances captured at add time.
	Margin   float64
	Envelope float64
}

// LocalBounds returns a conservative bounding box of the bare shape in
// model coordinates, before any envelope expansion.
func (s *Shape) LocalBounds() geom.AABB {
	t := geom.Transform{Pos: s.Pos, Rot: s.Rot}

	sym := func(x, y, z float64) geom.AABB {
		return geom.AABB{Min: geom.Vec3{X: -x, Y: -y, Z: -z}, Max: geom.Vec3{X: x, Y: y, Z: z}}.Transformed(t)
	}

	p := s.Params
	switch s.Kind {
	case KindSphere, KindPoint:
		return sym(p[0], p[0], p[0])
	case KindEllipsoid:
		return sym(p[0], p[1], p[2])
	case KindBox:
		return sym(p[0], p[1], p[2])
	case KindCylinder, KindCone:
		return sym(p[0], p[2], p[1])
	case KindCapsule:
		r, hl := p[0], p[1]
		return sym(r, hl+r, r)
	case KindRoundedBox:
		return sym(p[0]+p[3], p[1]+p[3], p[2]+p[3])
	case KindRoundedCylinder, KindRoundedCone:
		return sym(p[0]+p[3], p[2]+p[3], p[1]+p[3])
	case KindBarrel:
		yLow, yHigh := p[0], p[1]
		r := p[4] + p[3] // radial offset + horizontal radius
		box := geom.AABB{Min: geom.Vec3{X: -r, Y: yLow, Z: -r}, Max: geom.Vec3{X: r, Y: yHigh, Z: r}}
		return box.Transformed(t)
	case KindConvexHull:
		return geom.FromPoints(s.Hull).Transformed(t)
	case KindTriangleMesh:
		return s.Mesh.Bounds().Expand(s.SweepThickness).Transformed(t)
	case KindPath2D:
		thickness := 0.0
		if len(p) > 0 {
			thickness = p[0]
		}
		return s.Path.Bounds().Expand(thickness).Transformed(t)
	default:
		return geom.EmptyAABB()
	}
}
