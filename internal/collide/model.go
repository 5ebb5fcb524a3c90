package collide

import (
	"math/bits"

	"github.com/colmak/collsim/internal/geom"
)

// Model is the per-body collision aggregate: an ordered shape registry,
// the family/mask contact gate, the margin/envelope tolerances, and the
// backend acceleration state for one engine.
//
// Shape registration is bracketed: ClearModel, any number of AddXxx
// calls, then BuildModel. A freshly constructed model starts with an
// open bracket. The bracket is strictly sequential and not safe for
// concurrent mutation; distinct models share no mutable state.
type Model struct {
	engine Engine
	state  ModelState

	shapes      []*Shape
	contactable Contactable

	envelope   float64
	safeMargin float64

	familyGroup uint16
	familyMask  uint16

	open  bool
	built bool
}

// NewModel creates a model bound to the given engine, using the
// process-wide suggested tolerances.
func NewModel(eng Engine) *Model {
	return NewModelWith(eng, SuggestedTolerances())
}

// NewModelWith creates a model with explicit tolerances. The model
// belongs to family 0 and collides with all families until configured
// otherwise.
func NewModelWith(eng Engine, tol Tolerances) *Model {
	m := &Model{
		engine:      eng,
		state:       eng.NewState(),
		envelope:    tol.Envelope,
		safeMargin:  tol.SafeMargin,
		familyGroup: 1,
		familyMask:  0xFFFF,
	}
	m.state.Clear()
	m.open = true
	return m
}

func (m *Model) Engine() Engine { return m.engine }

// ClearModel discards all registered shapes and backend acceleration
// state and opens a new registration bracket. Safe on an empty model.
func (m *Model) ClearModel() error {
	m.shapes = nil
	m.state.Clear()
	m.open = true
	m.built = false
	return nil
}

// BuildModel finalizes the model from the registered shapes. Call once
// per clear/build bracket.
func (m *Model) BuildModel() error {
	if m.built {
		return ErrAlreadyBuilt
	}
	if !m.open {
		return ErrNotCleared
	}
	if err := m.state.Build(m.shapes); err != nil {
		return err
	}
	m.open = false
	m.built = true
	return nil
}

// add appends one shape if the engine supports its kind, capturing the
// current tolerances. Reports whether the shape was added.
func (m *Model) add(s *Shape) bool {
	if !m.engine.Supports(s.Kind) {
		return false
	}
	s.Margin = m.safeMargin
	s.Envelope = m.envelope
	m.shapes = append(m.shapes, s)
	return true
}

// AddSphere adds a sphere of the given radius at pos (model frame).
func (m *Model) AddSphere(radius float64, pos geom.Vec3) bool {
	return m.add(&Shape{Kind: KindSphere, Pos: pos, Rot: geom.Identity(), Params: []float64{radius}})
}

// AddEllipsoid adds an ellipsoid with semi-axes rx, ry, rz.
func (m *Model) AddEllipsoid(rx, ry, rz float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindEllipsoid, Pos: pos, Rot: rot, Params: []float64{rx, ry, rz}})
}

// AddBox adds a box with half extents hx, hy, hz.
func (m *Model) AddBox(hx, hy, hz float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindBox, Pos: pos, Rot: rot, Params: []float64{hx, hy, hz}})
}

// AddCylinder adds a cylinder with radii rx, rz and half height hy,
// axis on the Y direction.
func (m *Model) AddCylinder(rx, rz, hy float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindCylinder, Pos: pos, Rot: rot, Params: []float64{rx, rz, hy}})
}

// AddCone adds a cone with radii rx, rz and half height hy, axis on
// the Y direction.
func (m *Model) AddCone(rx, rz, hy float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindCone, Pos: pos, Rot: rot, Params: []float64{rx, rz, hy}})
}

// AddCapsule adds a capsule with the given radius and axis half
// length, axis on the Y direction.
func (m *Model) AddCapsule(radius, hlen float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindCapsule, Pos: pos, Rot: rot, Params: []float64{radius, hlen}})
}

// AddRoundedBox adds a box with half extents hx, hy, hz whose edges
// are rounded by sphereR.
func (m *Model) AddRoundedBox(hx, hy, hz, sphereR float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindRoundedBox, Pos: pos, Rot: rot, Params: []float64{hx, hy, hz, sphereR}})
}

// AddRoundedCylinder adds a cylinder with rim rounding sphereR.
func (m *Model) AddRoundedCylinder(rx, rz, hy, sphereR float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindRoundedCylinder, Pos: pos, Rot: rot, Params: []float64{rx, rz, hy, sphereR}})
}

// AddRoundedCone adds a cone with rim rounding sphereR.
func (m *Model) AddRoundedCone(rx, rz, hy, sphereR float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindRoundedCone, Pos: pos, Rot: rot, Params: []float64{rx, rz, hy, sphereR}})
}

// AddConvexHull adds a convex polytope described by a point cloud. No
// connectivity is required; the points are copied into the model.
func (m *Model) AddConvexHull(points []geom.Vec3, pos geom.Vec3, rot geom.Mat33) bool {
	hull := make([]geom.Vec3, len(points))
	copy(hull, points)
	return m.add(&Shape{Kind: KindConvexHull, Pos: pos, Rot: rot, Hull: hull})
}

// AddTriangleMesh adds a triangle mesh. isStatic lets the engine assume
// the mesh never moves; isConvex lets it substitute a convex hull
// approximation. sweep is an outward sphere-swept padding applied
// uniformly to the mesh surface. The mesh data is shared, not copied.
func (m *Model) AddTriangleMesh(mesh *geom.TriangleMesh, isStatic, isConvex bool, pos geom.Vec3, rot geom.Mat33, sweep float64) bool {
	return m.add(&Shape{
		Kind:           KindTriangleMesh,
		Pos:            pos,
		Rot:            rot,
		Mesh:           mesh,
		Static:         isStatic,
		Convex:         isConvex,
		SweepThickness: sweep,
	})
}

// AddBarrel adds a barrel-like lathed shape, axis on the Y direction.
// The profile is an ellipse arc with radii rVert and rHor, offset
// radially by rOffset, clamped by discs at yLow and yHigh.
func (m *Model) AddBarrel(yLow, yHigh, rVert, rHor, rOffset float64, pos geom.Vec3, rot geom.Mat33) bool {
	return m.add(&Shape{Kind: KindBarrel, Pos: pos, Rot: rot, Params: []float64{yLow, yHigh, rVert, rHor, rOffset}})
}

// Add2DPath adds a closed planar path (line segments and circular arcs
// only, clockwise for a solid interior) lying on the plane defined by
// pos and rot. Engines without 2D support report success without
// adding a shape: graceful degradation, callers that require a usable
// 2D shape must check the engine capability explicitly.
func (m *Model) Add2DPath(path *geom.Path2D, pos geom.Vec3, rot geom.Mat33, thickness float64) bool {
	if !m.engine.Supports(KindPath2D) {
		return true
	}
	return m.add(&Shape{Kind: KindPath2D, Pos: pos, Rot: rot, Path: path, Params: []float64{thickness}})
}

// AddPoint adds a point-like sphere that participates in proximity
// queries but is never meant to produce resolved contacts. The registry
// effect is identical to AddSphere.
func (m *Model) AddPoint(radius float64, pos geom.Vec3) bool {
	return m.AddSphere(radius, pos)
}

// AddCopyOfAnotherModel imports all shapes from another model. The
// shape descriptors are copied but hull, mesh and path storage is
// shared between the models.
func (m *Model) AddCopyOfAnotherModel(other *Model) bool {
	for _, s := range other.shapes {
		c := *s
		if s.Params != nil {
			c.Params = append([]float64(nil), s.Params...)
		}
		m.shapes = append(m.shapes, &c)
	}
	return true
}

// SetContactable attaches the owning body. The reference is non-owning;
// the body must outlive the model or be destroyed together with it.
func (m *Model) SetContactable(c Contactable) { m.contactable = c }

func (m *Model) Contactable() Contactable { return m.contactable }

// SyncPosition pushes the owning body's current world transform into
// the backend state. Must be called before AABB is trusted.
func (m *Model) SyncPosition() error {
	if m.contactable == nil {
		return ErrNoContactable
	}
	m.state.Sync(m.contactable.CollisionTransform())
	return nil
}

// AABB returns the world-space bounding box of the whole model,
// enclosing the envelope-expanded geometry. Requires a prior
// SyncPosition.
func (m *Model) AABB() geom.AABB {
	return m.state.AABB()
}

// SetFamily assigns the model to collision family n (0..15).
// Equivalent to SetFamilyGroup(1 << n).
func (m *Model) SetFamily(n int) {
	if n >= 0 && n < 16 {
		m.familyGroup = 1 << uint(n)
	}
}

// Family returns the bit position of the single set bit in the family
// group.
func (m *Model) Family() int {
	return bits.TrailingZeros16(m.familyGroup)
}

// SetFamilyGroup sets the family group directly. Values that do not
// have exactly one bit set are ignored, preserving the one-hot
// invariant.
func (m *Model) SetFamilyGroup(group uint16) {
	if bits.OnesCount16(group) == 1 {
		m.familyGroup = group
	}
}

func (m *Model) FamilyGroup() uint16 { return m.familyGroup }

// SetFamilyMask sets which families this model is willing to collide
// with; each set bit enables the family at that bit position.
func (m *Model) SetFamilyMask(mask uint16) { m.familyMask = mask }

func (m *Model) FamilyMask() uint16 { return m.familyMask }

// SetFamilyMaskNoCollisionWithFamily disables contact generation
// against family n.
func (m *Model) SetFamilyMaskNoCollisionWithFamily(n int) {
	if n >= 0 && n < 16 {
		m.familyMask &^= 1 << uint(n)
	}
}

// SetFamilyMaskDoCollisionWithFamily enables contact generation
// against family n.
func (m *Model) SetFamilyMaskDoCollisionWithFamily(n int) {
	if n >= 0 && n < 16 {
		m.familyMask |= 1 << uint(n)
	}
}

// FamilyMaskDoesCollisionWithFamily reports whether the mask allows
// collision with family n.
func (m *Model) FamilyMaskDoesCollisionWithFamily(n int) bool {
	return n >= 0 && n < 16 && m.familyMask&(1<<uint(n)) != 0
}

// SetSafeMargin sets the inward penetration tolerance for shapes added
// from now on. Not retroactive.
func (m *Model) SetSafeMargin(margin float64) { m.safeMargin = margin }

func (m *Model) SafeMargin() float64 { return m.safeMargin }

// SetEnvelope sets the outward detection tolerance for shapes added
// from now on. Not retroactive. A zero envelope is legal but detects
// contacts only at dist <= 0, which destabilizes contact resolution.
func (m *Model) SetEnvelope(envelope float64) { m.envelope = envelope }

func (m *Model) Envelope() float64 { return m.envelope }

// SuggestedFullMargin is the envelope plus the safe margin, used by
// engines when sizing broad-phase bounding volumes.
func (m *Model) SuggestedFullMargin() float64 {
	return m.envelope + m.safeMargin
}

func (m *Model) NumShapes() int { return len(m.shapes) }

// ShapeAt returns the shape at the given registry index. The index
// must be in [0, NumShapes()).
func (m *Model) ShapeAt(i int) *Shape { return m.shapes[i] }

// CanCollide reports whether two models may generate contacts: each
// model's family group must be enabled in the other's mask. The
// predicate is symmetric by construction.
func CanCollide(a, b *Model) bool {
	return a.familyGroup&b.familyMask != 0 && b.familyGroup&a.familyMask != 0
}
