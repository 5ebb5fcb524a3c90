package collide

import (
	"errors"
	"testing"

	"github.com/colmak/collsim/internal/geom"
)

// stubEngine is a minimal in-memory engine for contract tests. Kinds
// listed in unsupported make the corresponding AddXxx report false.
type stubEngine struct {
	unsupported map[ShapeKind]bool
}

func (e *stubEngine) Name() string    { return "stub" }
func (e *stubEngine) Available() bool { return true }

func (e *stubEngine) Supports(kind ShapeKind) bool {
	return ValidKind(kind) && !e.unsupported[kind]
}

func (e *stubEngine) NewState() ModelState { return &stubState{} }

type stubState struct {
	built  []*Shape
	synced bool
	world  geom.AABB
}

func (s *stubState) Clear() { s.built = nil; s.synced = false }

func (s *stubState) Build(shapes []*Shape) error {
	s.built = shapes
	return nil
}

func (s *stubState) Sync(t geom.Transform) {
	w := geom.EmptyAABB()
	for _, sh := range s.built {
		w = w.Union(sh.LocalBounds().Expand(sh.Envelope).Transformed(t))
	}
	s.world = w
	s.synced = true
}

func (s *stubState) AABB() geom.AABB { return s.world }

func newTestModel() *Model {
	return NewModelWith(&stubEngine{}, Tolerances{Envelope: 0.03, SafeMargin: 0.01})
}

func TestClearModel_EmptiesRegistry(t *testing.T) {
	m := newTestModel()
	m.AddSphere(1, geom.Vec3{})
	m.AddBox(1, 2, 3, geom.Vec3{}, geom.Identity())

	if err := m.ClearModel(); err != nil {
		t.Fatalf("ClearModel() error: %v", err)
	}
	if m.NumShapes() != 0 {
		t.Errorf("NumShapes() = %d after clear, want 0", m.NumShapes())
	}

	// Clearing an already-empty model must be safe.
	if err := m.ClearModel(); err != nil {
		t.Errorf("ClearModel() on empty model: %v", err)
	}
}

func TestAdd_AppendsMatchingShape(t *testing.T) {
	pos := geom.Vec3{X: 1, Y: 2, Z: 3}
	rot := geom.Identity()

	tests := []struct {
		name   string
		add    func(m *Model) bool
		kind   ShapeKind
		params []float64
	}{
		{"sphere", func(m *Model) bool { return m.AddSphere(0.5, pos) }, KindSphere, []float64{0.5}},
		{"ellipsoid", func(m *Model) bool { return m.AddEllipsoid(1, 2, 3, pos, rot) }, KindEllipsoid, []float64{1, 2, 3}},
		{"box", func(m *Model) bool { return m.AddBox(1, 2, 3, pos, rot) }, KindBox, []float64{1, 2, 3}},
		{"cylinder", func(m *Model) bool { return m.AddCylinder(1, 1, 2, pos, rot) }, KindCylinder, []float64{1, 1, 2}},
		{"cone", func(m *Model) bool { return m.AddCone(1, 1, 2, pos, rot) }, KindCone, []float64{1, 1, 2}},
		{"capsule", func(m *Model) bool { return m.AddCapsule(0.5, 1, pos, rot) }, KindCapsule, []float64{0.5, 1}},
		{"rounded box", func(m *Model) bool { return m.AddRoundedBox(1, 2, 3, 0.1, pos, rot) }, KindRoundedBox, []float64{1, 2, 3, 0.1}},
		{"rounded cylinder", func(m *Model) bool { return m.AddRoundedCylinder(1, 1, 2, 0.1, pos, rot) }, KindRoundedCylinder, []float64{1, 1, 2, 0.1}},
		{"rounded cone", func(m *Model) bool { return m.AddRoundedCone(1, 1, 2, 0.1, pos, rot) }, KindRoundedCone, []float64{1, 1, 2, 0.1}},
		{"barrel", func(m *Model) bool { return m.AddBarrel(-1, 1, 2, 1.5, 0.5, pos, rot) }, KindBarrel, []float64{-1, 1, 2, 1.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			before := m.NumShapes()
			if !tt.add(m) {
				t.Fatal("add reported unsupported")
			}
			if m.NumShapes() != before+1 {
				t.Fatalf("NumShapes() = %d, want %d", m.NumShapes(), before+1)
			}
			s := m.ShapeAt(m.NumShapes() - 1)
			if s.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", s.Kind, tt.kind)
			}
			if len(s.Params) != len(tt.params) {
				t.Fatalf("Params = %v, want %v", s.Params, tt.params)
			}
			for i := range tt.params {
				if s.Params[i] != tt.params[i] {
					t.Errorf("Params[%d] = %v, want %v", i, s.Params[i], tt.params[i])
				}
			}
			if s.Pos != pos {
				t.Errorf("Pos = %v, want %v", s.Pos, pos)
			}
		})
	}
}

func TestAdd_HullMeshPath(t *testing.T) {
	m := newTestModel()

	points := []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	if !m.AddConvexHull(points, geom.Vec3{}, geom.Identity()) {
		t.Fatal("AddConvexHull reported unsupported")
	}
	hull := m.ShapeAt(0)
	if hull.Kind != KindConvexHull || len(hull.Hull) != 4 {
		t.Errorf("hull shape = %v with %d points", hull.Kind, len(hull.Hull))
	}
	// The point cloud must be copied, not aliased.
	points[0] = geom.Vec3{X: 9, Y: 9, Z: 9}
	if hull.Hull[0] == (geom.Vec3{X: 9, Y: 9, Z: 9}) {
		t.Error("AddConvexHull aliased caller's point slice")
	}

	mesh := geom.BoxMesh(1, 1, 1)
	if !m.AddTriangleMesh(mesh, true, false, geom.Vec3{}, geom.Identity(), 0.02) {
		t.Fatal("AddTriangleMesh reported unsupported")
	}
	ms := m.ShapeAt(1)
	if ms.Kind != KindTriangleMesh || !ms.Static || ms.Convex || ms.SweepThickness != 0.02 {
		t.Errorf("mesh shape recorded wrong: %+v", ms)
	}
	if ms.Mesh != mesh {
		t.Error("AddTriangleMesh should share the mesh, not copy it")
	}

	path := &geom.Path2D{Elements: []geom.PathElement{
		{A: geom.Vec2{X: 0, Y: 0}, B: geom.Vec2{X: 0, Y: 1}},
		{A: geom.Vec2{X: 0, Y: 1}, B: geom.Vec2{X: 1, Y: 0}},
		{A: geom.Vec2{X: 1, Y: 0}, B: geom.Vec2{X: 0, Y: 0}},
	}}
	if !m.Add2DPath(path, geom.Vec3{}, geom.Identity(), 0.001) {
		t.Fatal("Add2DPath reported failure on supporting engine")
	}
	ps := m.ShapeAt(2)
	if ps.Kind != KindPath2D || ps.Path != path || ps.Params[0] != 0.001 {
		t.Errorf("path shape recorded wrong: %+v", ps)
	}
}

func TestAdd_UnsupportedKind(t *testing.T) {
	eng := &stubEngine{unsupported: map[ShapeKind]bool{KindBarrel: true, KindCone: true}}
	m := NewModelWith(eng, Tolerances{})

	if m.AddBarrel(-1, 1, 2, 1.5, 0.5, geom.Vec3{}, geom.Identity()) {
		t.Error("AddBarrel should report false on unsupporting engine")
	}
	if m.AddCone(1, 1, 2, geom.Vec3{}, geom.Identity()) {
		t.Error("AddCone should report false on unsupporting engine")
	}
	if m.NumShapes() != 0 {
		t.Errorf("unsupported adds must not touch the registry, got %d shapes", m.NumShapes())
	}
}

func TestAdd2DPath_GracefulNoOp(t *testing.T) {
	eng := &stubEngine{unsupported: map[ShapeKind]bool{KindPath2D: true}}
	m := NewModelWith(eng, Tolerances{})

	path := &geom.Path2D{Elements: []geom.PathElement{{A: geom.Vec2{X: 0, Y: 0}, B: geom.Vec2{X: 0, Y: 0}}}}
	if !m.Add2DPath(path, geom.Vec3{}, geom.Identity(), 0.001) {
		t.Error("Add2DPath on non-2D engine must report success")
	}
	if m.NumShapes() != 0 {
		t.Error("Add2DPath no-op must not add a shape")
	}
}

func TestAddPoint_MatchesAddSphere(t *testing.T) {
	pos := geom.Vec3{X: 1, Y: 0, Z: 2}

	a := newTestModel()
	a.AddPoint(0.25, pos)
	b := newTestModel()
	b.AddSphere(0.25, pos)

	sa, sb := a.ShapeAt(0), b.ShapeAt(0)
	if sa.Kind != sb.Kind || sa.Params[0] != sb.Params[0] || sa.Pos != sb.Pos {
		t.Errorf("AddPoint shape %+v differs from AddSphere shape %+v", sa, sb)
	}
}

func TestBuildModel_Bracket(t *testing.T) {
	m := newTestModel()
	m.AddSphere(1, geom.Vec3{})

	if err := m.BuildModel(); err != nil {
		t.Fatalf("BuildModel() error: %v", err)
	}
	if err := m.BuildModel(); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("second BuildModel() = %v, want ErrAlreadyBuilt", err)
	}

	if err := m.ClearModel(); err != nil {
		t.Fatal(err)
	}
	m.AddBox(1, 1, 1, geom.Vec3{}, geom.Identity())
	if err := m.BuildModel(); err != nil {
		t.Errorf("BuildModel() after re-clear: %v", err)
	}
}

func TestFamilyGroup_OneHotInvariant(t *testing.T) {
	m := newTestModel()

	ops := []func(){
		func() { m.SetFamily(3) },
		func() { m.SetFamilyGroup(1 << 7) },
		func() { m.SetFamilyGroup(0) },      // ignored
		func() { m.SetFamilyGroup(0b0110) }, // ignored: two bits
		func() { m.SetFamily(15) },
		func() { m.SetFamily(16) }, // ignored: out of range
	}
	for i, op := range ops {
		op()
		g := m.FamilyGroup()
		if g == 0 || g&(g-1) != 0 {
			t.Fatalf("after op %d: family group %#x is not one-hot", i, g)
		}
	}
	if m.Family() != 15 {
		t.Errorf("Family() = %d, want 15", m.Family())
	}
}

func TestFamilyDefaults(t *testing.T) {
	m := newTestModel()
	if m.Family() != 0 {
		t.Errorf("fresh model family = %d, want 0", m.Family())
	}
	if m.FamilyMask() != 0xFFFF {
		t.Errorf("fresh model mask = %#x, want 0xFFFF", m.FamilyMask())
	}
	for n := 0; n < 16; n++ {
		if !m.FamilyMaskDoesCollisionWithFamily(n) {
			t.Errorf("fresh model should collide with family %d", n)
		}
	}
}

func TestFamilyMask_ClearSetRoundTrip(t *testing.T) {
	m := newTestModel()
	for _, n := range []int{0, 7, 15} {
		m.SetFamilyMaskNoCollisionWithFamily(n)
		if m.FamilyMaskDoesCollisionWithFamily(n) {
			t.Errorf("family %d still enabled after clear", n)
		}
		m.SetFamilyMaskDoCollisionWithFamily(n)
		if !m.FamilyMaskDoesCollisionWithFamily(n) {
			t.Errorf("family %d not restored after set", n)
		}
	}
}

func TestCanCollide_Symmetric(t *testing.T) {
	tests := []struct {
		name             string
		famA, famB       int
		aBlocks, bBlocks []int
		want             bool
	}{
		{"defaults collide", 0, 0, nil, nil, true},
		{"a blocks b", 1, 2, []int{2}, nil, false},
		{"b blocks a", 1, 2, nil, []int{1}, false},
		{"both block", 3, 4, []int{4}, []int{3}, false},
		{"unrelated blocks", 5, 6, []int{9}, []int{10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := newTestModel(), newTestModel()
			a.SetFamily(tt.famA)
			b.SetFamily(tt.famB)
			for _, n := range tt.aBlocks {
				a.SetFamilyMaskNoCollisionWithFamily(n)
			}
			for _, n := range tt.bBlocks {
				b.SetFamilyMaskNoCollisionWithFamily(n)
			}
			if got := CanCollide(a, b); got != tt.want {
				t.Errorf("CanCollide(a,b) = %v, want %v", got, tt.want)
			}
			if CanCollide(a, b) != CanCollide(b, a) {
				t.Error("CanCollide is not symmetric")
			}
		})
	}
}

func TestMargins_NotRetroactive(t *testing.T) {
	m := newTestModel()

	m.SetEnvelope(0.01)
	m.SetSafeMargin(0.002)
	m.AddSphere(1, geom.Vec3{})

	m.SetEnvelope(0.05)
	m.SetSafeMargin(0.01)
	m.AddSphere(2, geom.Vec3{})

	s1, s2 := m.ShapeAt(0), m.ShapeAt(1)
	if s1.Envelope != 0.01 || s1.Margin != 0.002 {
		t.Errorf("first shape tolerances = (%v, %v), want (0.01, 0.002)", s1.Envelope, s1.Margin)
	}
	if s2.Envelope != 0.05 || s2.Margin != 0.01 {
		t.Errorf("second shape tolerances = (%v, %v), want (0.05, 0.01)", s2.Envelope, s2.Margin)
	}
}

func TestSuggestedFullMargin(t *testing.T) {
	tests := []struct {
		envelope, margin float64
	}{
		{0.03, 0.01},
		{0, 0},
		{0, 0.5},
		{1.25, 0},
	}
	for _, tt := range tests {
		m := newTestModel()
		m.SetEnvelope(tt.envelope)
		m.SetSafeMargin(tt.margin)
		if got := m.SuggestedFullMargin(); got != tt.envelope+tt.margin {
			t.Errorf("SuggestedFullMargin() = %v, want %v", got, tt.envelope+tt.margin)
		}
	}
}

func TestDefaultSuggestedTolerances(t *testing.T) {
	origEnv, origMargin := DefaultSuggestedEnvelope(), DefaultSuggestedMargin()
	defer func() {
		SetDefaultSuggestedEnvelope(origEnv)
		SetDefaultSuggestedMargin(origMargin)
	}()

	SetDefaultSuggestedEnvelope(0.2)
	SetDefaultSuggestedMargin(0.07)

	m := NewModel(&stubEngine{})
	if m.Envelope() != 0.2 || m.SafeMargin() != 0.07 {
		t.Errorf("new model tolerances = (%v, %v), want (0.2, 0.07)", m.Envelope(), m.SafeMargin())
	}
}

func TestAddCopyOfAnotherModel(t *testing.T) {
	src := newTestModel()
	src.SetEnvelope(0.02)
	src.AddSphere(1, geom.Vec3{X: 1})
	mesh := geom.BoxMesh(1, 1, 1)
	src.AddTriangleMesh(mesh, false, false, geom.Vec3{}, geom.Identity(), 0)

	dst := newTestModel()
	dst.AddBox(1, 1, 1, geom.Vec3{}, geom.Identity())
	if !dst.AddCopyOfAnotherModel(src) {
		t.Fatal("AddCopyOfAnotherModel failed")
	}

	if dst.NumShapes() != 3 {
		t.Fatalf("NumShapes() = %d, want 3", dst.NumShapes())
	}
	got := dst.ShapeAt(1)
	if got.Kind != KindSphere || got.Envelope != 0.02 {
		t.Errorf("copied sphere lost its recorded tolerances: %+v", got)
	}
	if dst.ShapeAt(2).Mesh != mesh {
		t.Error("copied mesh shape should share the underlying mesh")
	}
	if got == src.ShapeAt(0) {
		t.Error("shape descriptors must be copied, not aliased")
	}
}

func TestSyncPosition_RequiresContactable(t *testing.T) {
	m := newTestModel()
	if err := m.SyncPosition(); !errors.Is(err, ErrNoContactable) {
		t.Errorf("SyncPosition() = %v, want ErrNoContactable", err)
	}

	f := NewFrame("body")
	f.MoveTo(geom.Vec3{X: 10})
	m.SetContactable(f)
	m.AddSphere(1, geom.Vec3{})
	if err := m.BuildModel(); err != nil {
		t.Fatal(err)
	}
	if err := m.SyncPosition(); err != nil {
		t.Fatalf("SyncPosition() error: %v", err)
	}
	bb := m.AABB()
	if bb.Center().X != 10 {
		t.Errorf("AABB center X = %v, want 10", bb.Center().X)
	}
}
