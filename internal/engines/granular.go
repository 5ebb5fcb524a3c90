package engines

import (
	"fmt"

	"github.com/colmak/collsim/internal/collide"
)

// Granular is a restricted engine in the style of GPU granular-flow
// backends: only the primitives those kernels handle are accepted.
// Everything else makes AddXxx report false; 2D paths degrade to a
// silent no-op at the model layer.
type Granular struct{}

func NewGranular() *Granular { return &Granular{} }

func (e *Granular) Name() string { return "granular" }

func (e *Granular) Available() bool { return true }

func (e *Granular) Supports(kind collide.ShapeKind) bool {
	switch kind {
	case collide.KindSphere, collide.KindBox, collide.KindConvexHull,
		collide.KindTriangleMesh, collide.KindPoint:
		return true
	default:
		return false
	}
}

func (e *Granular) NewState() collide.ModelState {
	return &granularState{}
}

// granularState reuses the CPU bounds bookkeeping but rejects registry
// entries outside the engine's capability set. Shapes can bypass the
// AddXxx gate via model copies or archives, so Build re-checks.
type granularState struct {
	boundsState
}

func (s *granularState) Build(shapes []*collide.Shape) error {
	eng := Granular{}
	for _, sh := range shapes {
		if !eng.Supports(sh.Kind) {
			return fmt.Errorf("granular: unsupported shape kind %s in registry", sh.Kind)
		}
	}
	return s.boundsState.Build(shapes)
}
