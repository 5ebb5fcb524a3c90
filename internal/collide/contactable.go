package collide

import "github.com/colmak/collsim/internal/geom"

// Contactable is the physical body owning a collision model. The model
// holds it as a non-owning back reference: it reads the body's world
// transform at SyncPosition time and identifies the body in reports,
// but never manages its lifetime.
type Contactable interface {
	Label() string
	CollisionTransform() geom.Transform
}

// Frame is a minimal Contactable for fixed or externally driven
// bodies: a named placement that can be moved between syncs.
type Frame struct {
	Name string
	T    geom.Transform
}

func NewFrame(name string) *Frame {
	return &Frame{Name: name, T: geom.NewTransform()}
}

func (f *Frame) Label() string { return f.Name }

func (f *Frame) CollisionTransform() geom.Transform { return f.T }

func (f *Frame) MoveTo(pos geom.Vec3) { f.T.Pos = pos }

func (f *Frame) RotateTo(rot geom.Mat33) { f.T.Rot = rot }
