package collide

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/colmak/collsim/internal/geom"
)

// ArchiveVersion is the current model archive format version. Readers
// reject archives written by versions they do not know.
const ArchiveVersion = 1

type shapeArchive struct {
	Kind   string       `yaml:"kind"`
	Pos    [3]float64   `yaml:"pos"`
	Rot    [9]float64   `yaml:"rot,flow"`
	Params []float64    `yaml:"params,omitempty"`
	Hull   [][3]float64 `yaml:"hull,omitempty"`
	Mesh   *meshArchive `yaml:"mesh,omitempty"`
	Path   *pathArchive `yaml:"path,omitempty"`

	Static bool    `yaml:"static,omitempty"`
	Convex bool    `yaml:"convex,omitempty"`
	Sweep  float64 `yaml:"sweep,omitempty"`

	Margin   float64 `yaml:"margin"`
	Envelope float64 `yaml:"envelope"`
}

type meshArchive struct {
	Vertices [][3]float64 `yaml:"vertices"`
	Faces    [][3]int     `yaml:"faces"`
}

type pathArchive struct {
	Elements []pathElementArchive `yaml:"elements"`
}

type pathElementArchive struct {
	Arc    bool       `yaml:"arc,omitempty"`
	A      [2]float64 `yaml:"a,omitempty"`
	B      [2]float64 `yaml:"b,omitempty"`
	Center [2]float64 `yaml:"center,omitempty"`
	Radius float64    `yaml:"radius,omitempty"`
	Start  float64    `yaml:"start,omitempty"`
	End    float64    `yaml:"end,omitempty"`
	CCW    bool       `yaml:"ccw,omitempty"`
}

type modelArchive struct {
	Version     int            `yaml:"version"`
	Envelope    float64        `yaml:"envelope"`
	SafeMargin  float64        `yaml:"safe_margin"`
	FamilyGroup uint16         `yaml:"family_group"`
	FamilyMask  uint16         `yaml:"family_mask"`
	Shapes      []shapeArchive `yaml:"shapes"`
}

// WriteModel serializes the model's shape registry and all scalar
// settings as YAML.
func WriteModel(w io.Writer, m *Model) error {
	a := modelArchive{
		Version:     ArchiveVersion,
		Envelope:    m.envelope,
		SafeMargin:  m.safeMargin,
		FamilyGroup: m.familyGroup,
		FamilyMask:  m.familyMask,
		Shapes:      make([]shapeArchive, 0, len(m.shapes)),
	}
	for _, s := range m.shapes {
		a.Shapes = append(a.Shapes, packShape(s))
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&a)
}

// ReadModel reconstructs a model from a YAML archive, binding it to the
// given engine and finalizing it with BuildModel. Per-shape margins and
// envelopes are restored as written, not re-captured.
func ReadModel(r io.Reader, eng Engine) (*Model, error) {
	var a modelArchive
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("collide: decoding archive: %w", err)
	}
	if a.Version != ArchiveVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrArchiveVersion, a.Version, ArchiveVersion)
	}

	m := NewModelWith(eng, Tolerances{Envelope: a.Envelope, SafeMargin: a.SafeMargin})
	m.familyGroup = a.FamilyGroup
	m.familyMask = a.FamilyMask

	for i := range a.Shapes {
		s, err := unpackShape(&a.Shapes[i])
		if err != nil {
			return nil, err
		}
		m.shapes = append(m.shapes, s)
	}
	if err := m.BuildModel(); err != nil {
		return nil, err
	}
	return m, nil
}

func packShape(s *Shape) shapeArchive {
	a := shapeArchive{
		Kind:     s.Kind.String(),
		Pos:      [3]float64{s.Pos.X, s.Pos.Y, s.Pos.Z},
		Params:   s.Params,
		Static:   s.Static,
		Convex:   s.Convex,
		Sweep:    s.SweepThickness,
		Margin:   s.Margin,
		Envelope: s.Envelope,
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.Rot[i*3+j] = s.Rot[i][j]
		}
	}
	for _, p := range s.Hull {
		a.Hull = append(a.Hull, [3]float64{p.X, p.Y, p.Z})
	}
	if s.Mesh != nil {
		ma := &meshArchive{Faces: s.Mesh.Faces}
		for _, v := range s.Mesh.Vertices {
			ma.Vertices = append(ma.Vertices, [3]float64{v.X, v.Y, v.Z})
		}
		a.Mesh = ma
	}
	if s.Path != nil {
		pa := &pathArchive{}
		for _, e := range s.Path.Elements {
			pa.Elements = append(pa.Elements, pathElementArchive{
				Arc:    e.IsArc,
				A:      [2]float64{e.A.X, e.A.Y},
				B:      [2]float64{e.B.X, e.B.Y},
				Center: [2]float64{e.Center.X, e.Center.Y},
				Radius: e.Radius,
				Start:  e.Start,
				End:    e.End,
				CCW:    e.CCW,
			})
		}
		a.Path = pa
	}
	return a
}

func unpackShape(a *shapeArchive) (*Shape, error) {
	kind, ok := KindFromName(a.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
	s := &Shape{
		Kind:           kind,
		Pos:            geom.Vec3{X: a.Pos[0], Y: a.Pos[1], Z: a.Pos[2]},
		Params:         a.Params,
		Static:         a.Static,
		Convex:         a.Convex,
		SweepThickness: a.Sweep,
		Margin:         a.Margin,
		Envelope:       a.Envelope,
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s.Rot[i][j] = a.Rot[i*3+j]
		}
	}
	for _, p := range a.Hull {
		s.Hull = append(s.Hull, geom.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	if a.Mesh != nil {
		mesh := &geom.TriangleMesh{Faces: a.Mesh.Faces}
		for _, v := range a.Mesh.Vertices {
			mesh.Vertices = append(mesh.Vertices, geom.Vec3{X: v[0], Y: v[1], Z: v[2]})
		}
		s.Mesh = mesh
	}
	if a.Path != nil {
		path := &geom.Path2D{}
		for _, e := range a.Path.Elements {
			path.Elements = append(path.Elements, geom.PathElement{
				IsArc:  e.Arc,
				A:      geom.Vec2{X: e.A[0], Y: e.A[1]},
				B:      geom.Vec2{X: e.B[0], Y: e.B[1]},
				Center: geom.Vec2{X: e.Center[0], Y: e.Center[1]},
				Radius: e.Radius,
				Start:  e.Start,
				End:    e.End,
				CCW:    e.CCW,
			})
		}
		s.Path = path
	}
	return s, nil
}
