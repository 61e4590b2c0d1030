// Package vecmath holds the stateless helpers shared by the simulation core
// and its front ends: polar/Cartesian conversion, display rounding and the
// RGBA colour type carried by bodies.
package vecmath
