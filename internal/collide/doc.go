// Package collide defines the per-body collision model abstraction
// shared by every collision detection backend.
//
// The core types are:
//
//   - [Model]: per-body shape registry, tolerances and family/mask gate
//   - [Shape]: tagged-union descriptor of one geometric primitive
//   - [Engine]: backend capability query and acceleration-state factory
//   - [ModelState]: backend state bound to one model
//   - [Contactable]: non-owning back reference to the owning body
//
// # Lifecycle
//
// Shape registration is bracketed between ClearModel and BuildModel:
//
//	m := collide.NewModel(eng)
//	m.AddSphere(0.5, geom.Vec3{})
//	m.AddBox(1, 1, 1, geom.Vec3{Y: 2}, geom.Identity())
//	if err := m.BuildModel(); err != nil { ... }
//
// Each AddXxx reports whether the engine supports that primitive; a
// false return means nothing was added and the caller must fall back
// to an approximation.
//
// # Thread Safety
//
// A Model is NOT safe for concurrent mutation. Distinct models share
// no mutable state, so collision detection may run over many models in
// parallel. The only process-wide state is the pair of suggested
// default tolerances, set once at startup.
package collide
