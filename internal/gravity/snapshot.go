package gravity

import "github.com/san-kum/gravity/internal/vecmath"

// BodySnapshot is the persistable state of a body. Trail carries the trail
// cap, not the recorded history.
type BodySnapshot struct {
	ID     string         `json:"id" yaml:"id"`
	Mass   float64        `json:"mass" yaml:"mass"`
	Radius float64        `json:"radius" yaml:"radius"`
	X      float64        `json:"x" yaml:"x"`
	Y      float64        `json:"y" yaml:"y"`
	VX     float64        `json:"vx" yaml:"vx"`
	VY     float64        `json:"vy" yaml:"vy"`
	Colour vecmath.Colour `json:"colour" yaml:"colour"`
	Trail  int            `json:"trail" yaml:"trail"`
}

// Spec converts the snapshot back into construction parameters.
func (s BodySnapshot) Spec(polar bool) BodySpec {
	return BodySpec{
		ID:     s.ID,
		Mass:   s.Mass,
		X:      s.X,
		Y:      s.Y,
		VX:     s.VX,
		VY:     s.VY,
		Colour: s.Colour,
		Radius: s.Radius,
		Trail:  s.Trail,
		Polar:  polar,
	}
}

func (b *Body) Snapshot() BodySnapshot {
	return BodySnapshot{
		ID:     b.id,
		Mass:   b.mass,
		Radius: b.radius,
		X:      b.pos.X,
		Y:      b.pos.Y,
		VX:     b.vel.X,
		VY:     b.vel.Y,
		Colour: b.colour,
		Trail:  b.trail.Cap(),
	}
}

// Snapshot returns the snapshots of the active bodies in order.
func (s *System) Snapshot() []BodySnapshot {
	out := make([]BodySnapshot, len(s.active))
	for i, b := range s.active {
		out[i] = b.Snapshot()
	}
	return out
}

// Restore builds a new System from p and registers one active body per
// snapshot.
func Restore(p Params, snaps []BodySnapshot, polar bool) *System {
	s := NewSystem(p)
	for _, snap := range snaps {
		NewBody(s, snap.Spec(polar))
	}
	return s
}
