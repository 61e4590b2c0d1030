// Package gravity implements a 2D N-body gravitational integrator with
// collisions.
//
// The package defines two cooperating types:
//
//   - [System]: owns every body it ever created, partitioned into active,
//     collided and escaped bodies, plus the global [Params].
//   - [Body]: a point mass with kinematic state, a radius, a colour and a
//     bounded [Trail] of past positions.
//
// Bodies register themselves with the System passed to [NewBody]. Each call
// to [System.Step] updates every body that was active when the step began:
// net acceleration from all other live bodies, a leapfrog velocity kick (half
// a step on the very first step, a full step afterwards), trail bookkeeping,
// a position drift and the boundary/overflow checks. Bodies closer than
// RF times the sum of their radii merge into a new body at their centre of
// mass.
//
// # Example
//
//	sys := gravity.NewSystem(gravity.DefaultParams())
//	gravity.NewBody(sys, gravity.BodySpec{ID: "sun", Mass: 1000})
//	gravity.NewBody(sys, gravity.BodySpec{ID: "earth", Mass: 1, X: 100, VY: 7})
//	for i := 0; i < 1000; i++ {
//		sys.Step(sys.Params().Dt)
//	}
//
// # Thread Safety
//
// A System and its bodies are NOT safe for concurrent use. State changes are
// reported synchronously to registered [Observer]s.
package gravity
