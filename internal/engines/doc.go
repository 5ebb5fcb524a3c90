// Package engines provides the concrete collision detection backends.
//
// Two engines are registered:
//
//   - sweep: reference CPU engine, supports every shape kind
//   - granular: restricted engine modeling GPU granular-flow kernels
//     (spheres, boxes, convex hulls, triangle meshes, points)
//
// Engines are obtained by name or auto-selected:
//
//	eng, err := engines.Get("sweep")
//	eng := engines.AutoSelect()
package engines
