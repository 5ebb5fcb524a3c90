package collide

// Tolerances bundles the two per-model robustness knobs: Envelope is
// the outward pre-contact detection distance, SafeMargin the inward
// penetration tolerance. Either may be zero, trading detection
// stability for tightness.
type Tolerances struct {
	Envelope   float64
	SafeMargin float64
}

// Engine-chosen startup defaults. Consulted whenever a model is
// constructed without explicit tolerances.
const (
	DefaultEnvelope   = 0.03
	DefaultSafeMargin = 0.01
)

var suggested = Tolerances{Envelope: DefaultEnvelope, SafeMargin: DefaultSafeMargin}

// SuggestedTolerances returns the current process-wide defaults.
func SuggestedTolerances() Tolerances { return suggested }

// SetDefaultSuggestedEnvelope overrides the process-wide default
// envelope. Affects models constructed afterwards only; by convention
// it is called once at startup, before any model construction.
func SetDefaultSuggestedEnvelope(env float64) { suggested.Envelope = env }

// SetDefaultSuggestedMargin overrides the process-wide default safe
// margin. Same discipline as SetDefaultSuggestedEnvelope.
func SetDefaultSuggestedMargin(margin float64) { suggested.SafeMargin = margin }

func DefaultSuggestedEnvelope() float64 { return suggested.Envelope }

func DefaultSuggestedMargin() float64 { return suggested.SafeMargin }
