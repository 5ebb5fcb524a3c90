package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/colmak/collsim/internal/collide"
	"github.com/colmak/collsim/internal/engines"
	"github.com/colmak/collsim/internal/geom"
	"github.com/colmak/collsim/internal/world"
)

const (
	DefaultEngine   = "sweep"
	DefaultEnvelope = 0.03
	DefaultMargin   = 0.01
	DefaultWorkers  = 0 // one per CPU
)

// Config is a collision scene description: the engine to use, the
// default tolerances, and the bodies with their shape registries.
type Config struct {
	Engine   string       `yaml:"engine"`
	Envelope float64      `yaml:"envelope"`
	Margin   float64      `yaml:"margin"`
	Workers  int          `yaml:"workers"`
	Bodies   []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Name     string        `yaml:"name"`
	Family   int           `yaml:"family"`
	NoColl   []int         `yaml:"no_collide_with"`
	Position [3]float64    `yaml:"position"`
	Shapes   []ShapeConfig `yaml:"shapes"`
}

type ShapeConfig struct {
	Kind   string       `yaml:"kind"`
	Params []float64    `yaml:"params,omitempty"`
	Hull   [][3]float64 `yaml:"hull,omitempty"`
	Pos    [3]float64   `yaml:"pos,omitempty"`
	Yaw    float64      `yaml:"yaw,omitempty"` // rotation about Y, radians
}

func DefaultConfig() *Config {
	return &Config{
		Engine:   DefaultEngine,
		Envelope: DefaultEnvelope,
		Margin:   DefaultMargin,
		Workers:  DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build turns the scene description into a registered world: one model
// per body, shapes added inside the clear/build bracket, family/mask
// configured before registration so Register snapshots it.
func (c *Config) Build() (*world.World, error) {
	eng, err := engines.Get(c.Engine)
	if err != nil {
		return nil, err
	}

	w := world.New(c.Workers)
	tol := collide.Tolerances{Envelope: c.Envelope, SafeMargin: c.Margin}

	for i := range c.Bodies {
		b := &c.Bodies[i]
		m := collide.NewModelWith(eng, tol)

		for j := range b.Shapes {
			if err := addShape(m, &b.Shapes[j]); err != nil {
				return nil, fmt.Errorf("body %q shape %d: %w", b.Name, j, err)
			}
		}
		if err := m.BuildModel(); err != nil {
			return nil, fmt.Errorf("body %q: %w", b.Name, err)
		}

		if b.Family != 0 {
			m.SetFamily(b.Family)
		}
		for _, n := range b.NoColl {
			m.SetFamilyMaskNoCollisionWithFamily(n)
		}

		f := collide.NewFrame(b.Name)
		f.MoveTo(geom.Vec3{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]})
		m.SetContactable(f)

		w.Register(m)
	}
	return w, nil
}

func addShape(m *collide.Model, sc *ShapeConfig) error {
	kind, ok := collide.KindFromName(sc.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", collide.ErrUnknownKind, sc.Kind)
	}

	pos := geom.Vec3{X: sc.Pos[0], Y: sc.Pos[1], Z: sc.Pos[2]}
	rot := geom.RotationY(sc.Yaw)
	p := sc.Params

	need := func(n int) error {
		if len(p) < n {
			return fmt.Errorf("%s needs %d params, got %d", sc.Kind, n, len(p))
		}
		return nil
	}

	var added bool
	switch kind {
	case collide.KindSphere:
		if err := need(1); err != nil {
			return err
		}
		added = m.AddSphere(p[0], pos)
	case collide.KindPoint:
		if err := need(1); err != nil {
			return err
		}
		added = m.AddPoint(p[0], pos)
	case collide.KindEllipsoid:
		if err := need(3); err != nil {
			return err
		}
		added = m.AddEllipsoid(p[0], p[1], p[2], pos, rot)
	case collide.KindBox:
		if err := need(3); err != nil {
			return err
		}
		added = m.AddBox(p[0], p[1], p[2], pos, rot)
	case collide.KindCylinder:
		if err := need(3); err != nil {
			return err
		}
		added = m.AddCylinder(p[0], p[1], p[2], pos, rot)
	case collide.KindCone:
		if err := need(3); err != nil {
			return err
		}
		added = m.AddCone(p[0], p[1], p[2], pos, rot)
	case collide.KindCapsule:
		if err := need(2); err != nil {
			return err
		}
		added = m.AddCapsule(p[0], p[1], pos, rot)
	case collide.KindRoundedBox:
		if err := need(4); err != nil {
			return err
		}
		added = m.AddRoundedBox(p[0], p[1], p[2], p[3], pos, rot)
	case collide.KindRoundedCylinder:
		if err := need(4); err != nil {
			return err
		}
		added = m.AddRoundedCylinder(p[0], p[1], p[2], p[3], pos, rot)
	case collide.KindRoundedCone:
		if err := need(4); err != nil {
			return err
		}
		added = m.AddRoundedCone(p[0], p[1], p[2], p[3], pos, rot)
	case collide.KindBarrel:
		if err := need(5); err != nil {
			return err
		}
		added = m.AddBarrel(p[0], p[1], p[2], p[3], p[4], pos, rot)
	case collide.KindConvexHull:
		points := make([]geom.Vec3, len(sc.Hull))
		for i, h := range sc.Hull {
			points[i] = geom.Vec3{X: h[0], Y: h[1], Z: h[2]}
		}
		added = m.AddConvexHull(points, pos, rot)
	default:
		return fmt.Errorf("shape kind %s not supported in scene configs", sc.Kind)
	}

	if !added {
		return fmt.Errorf("engine %s does not support %s", m.Engine().Name(), sc.Kind)
	}
	return nil
}
