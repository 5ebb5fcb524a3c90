package geom

import "math"

// PathElement is one sub-curve of a planar collision path: either a
// straight segment or a circular arc. Exactly one of the two layouts
// is meaningful, selected by IsArc.
type PathElement struct {
	IsArc bool

	// Segment endpoints (IsArc == false).
	A, B Vec2

	// Arc definition (IsArc == true). Angles in radians; the arc runs
	// from Start to End counterclockwise when CCW is set.
	Center     Vec2
	Radius     float64
	Start, End float64
	CCW        bool
}

// First returns the starting point of the element.
func (e PathElement) First() Vec2 {
	if e.IsArc {
		return e.pointAt(e.Start)
	}
	return e.A
}

// Last returns the ending point of the element.
func (e PathElement) Last() Vec2 {
	if e.IsArc {
		return e.pointAt(e.End)
	}
	return e.B
}

func (e PathElement) pointAt(angle float64) Vec2 {
	return Vec2{
		X: e.Center.X + e.Radius*math.Cos(angle),
		Y: e.Center.Y + e.Radius*math.Sin(angle),
	}
}

// Path2D is a closed planar curve on the XY plane, composed only of
// line segments and circular arcs. Consecutive elements must share
// endpoints and the path must wind clockwise for a solid interior.
type Path2D struct {
	Elements []PathElement
}

const pathWeldTolerance = 1e-9

// Closed reports whether consecutive elements have coincident
// endpoints and the last element joins back to the first.
func (p *Path2D) Closed() bool {
	n := len(p.Elements)
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		next := p.Elements[(i+1)%n]
		if p.Elements[i].Last().Sub(next.First()).Length() > pathWeldTolerance {
			return false
		}
	}
	return true
}

// Clockwise reports whether the polygonal approximation of the path
// winds clockwise (solid interior convention).
func (p *Path2D) Clockwise() bool {
	// Shoelace sum over element endpoints; arcs contribute their chord,
	// which preserves the sign for valid simple paths.
	sum := 0.0
	for _, e := range p.Elements {
		a, b := e.First(), e.Last()
		sum += (b.X - a.X) * (b.Y + a.Y)
	}
	return sum > 0
}

// Bounds returns a conservative local bounding box of the path,
// treating the XY plane as Z=0 and arcs as full circles.
func (p *Path2D) Bounds() AABB {
	b := EmptyAABB()
	for _, e := range p.Elements {
		if e.IsArc {
			c := e.Center
			r := e.Radius
			b = b.Union(AABB{
				Min: Vec3{c.X - r, c.Y - r, 0},
				Max: Vec3{c.X + r, c.Y + r, 0},
			})
			continue
		}
		for _, q := range []Vec2{e.A, e.B} {
			pt := Vec3{q.X, q.Y, 0}
			b = b.Union(AABB{Min: pt, Max: pt})
		}
	}
	return b
}
