package geom

import "math"

// AABB is an axis-aligned bounding box, Min <= Max componentwise.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a box that unions as the identity element.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Expand grows the box outward by d on every side.
func (b AABB) Expand(d float64) AABB {
	e := Vec3{d, d, d}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b AABB) Translate(p Vec3) AABB {
	return AABB{Min: b.Min.Add(p), Max: b.Max.Add(p)}
}

func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y &&
		b.Min.Z <= o.Max.Z && o.Min.Z <= b.Max.Z
}

func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// FromPoints returns the tightest box containing all points.
func FromPoints(points []Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.Union(AABB{Min: p, Max: p})
	}
	return b
}

// Transformed returns the tightest axis-aligned box containing the
// eight transformed corners of b.
func (b AABB) Transformed(t Transform) AABB {
	if b.IsEmpty() {
		return b
	}
	r := EmptyAABB()
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{b.Min.Z, b.Max.Z} {
				p := t.Apply(Vec3{x, y, z})
				r = r.Union(AABB{Min: p, Max: p})
			}
		}
	}
	return r
}
