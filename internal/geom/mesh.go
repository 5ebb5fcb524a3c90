package geom

// TriangleMesh is an indexed triangle soup. Faces index into Vertices
// in triples; no adjacency information is kept.
type TriangleMesh struct {
	Vertices []Vec3
	Faces    [][3]int
}

func (m *TriangleMesh) NumTriangles() int {
	return len(m.Faces)
}

// Bounds returns the local-space bounding box of all vertices.
func (m *TriangleMesh) Bounds() AABB {
	return FromPoints(m.Vertices)
}

// BoxMesh builds a 12-triangle mesh for a box with the given half
// extents, centered at the origin. Convenience for tests and demos.
func BoxMesh(hx, hy, hz float64) *TriangleMesh {
	v := []Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	f := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // -z
		{4, 5, 6}, {4, 6, 7}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{3, 6, 2}, {3, 7, 6}, // +y
		{0, 7, 3}, {0, 4, 7}, // -x
		{1, 2, 6}, {1, 6, 5}, // +x
	}
	return &TriangleMesh{Vertices: v, Faces: f}
}
