package gravity

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravity/internal/vecmath"
	"gonum.org/v1/gonum/spatial/r2"
)

type Status int

const (
	Active Status = iota
	Collided
	Escaped
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Collided:
		return "collided"
	case Escaped:
		return "escaped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// BodySpec holds the initial parameters of a body.
type BodySpec struct {
	// ID names the body; an empty ID is replaced by the arena slot number.
	ID     string
	Mass   float64
	X, Y   float64
	VX, VY float64
	Colour vecmath.Colour
	// Radius is derived from mass when not positive.
	Radius float64
	// Trail is the trail cap, see Trail.
	Trail int
	// Polar selects polar coordinates for String.
	Polar bool
}

// Body is a point mass owned by exactly one System.
type Body struct {
	sys    *System
	slot   int
	id     string
	mass   float64
	pos    r2.Vec
	vel    r2.Vec
	acc    r2.Vec
	radius float64
	colour vecmath.Colour
	trail  *Trail
	status Status
	polar  bool
}

// NewBody creates a body from spec and registers it as active in sys.
//
// A negative mass is replaced by its absolute value rather than rejected,
// and a non-positive radius is derived with AutoRadius.
func NewBody(sys *System, spec BodySpec) *Body {
	mass := math.Abs(spec.Mass)
	radius := spec.Radius
	if radius <= 0 {
		radius = AutoRadius(mass, sys.params.RConst)
	}
	pos := r2.Vec{X: spec.X, Y: spec.Y}
	b := &Body{
		sys:    sys,
		id:     spec.ID,
		mass:   mass,
		pos:    pos,
		vel:    r2.Vec{X: spec.VX, Y: spec.VY},
		radius: radius,
		colour: spec.Colour,
		trail:  NewTrail(spec.Trail, pos),
		polar:  spec.Polar,
	}
	sys.register(b)

	if spec.Mass <= 0 {
		sys.log.Warn("non-positive mass normalised", "body", b.id, "given", spec.Mass, "mass", mass)
	}
	sys.log.Info("new object", "body", b.id, "colour", b.colour.Hex(), "mass", b.mass,
		"radius", b.radius, "pos", fmtVec(b.pos), "vel", fmtVec(b.vel), "trail", b.trail.Cap())
	sys.emit(Event{Kind: EventCreated, Body: b.id})
	return b
}

func (b *Body) System() *System        { return b.sys }
func (b *Body) ID() string             { return b.id }
func (b *Body) Mass() float64          { return b.mass }
func (b *Body) Position() r2.Vec       { return b.pos }
func (b *Body) Velocity() r2.Vec       { return b.vel }
func (b *Body) Acceleration() r2.Vec   { return b.acc }
func (b *Body) Radius() float64        { return b.radius }
func (b *Body) Colour() vecmath.Colour { return b.colour }
func (b *Body) Trail() *Trail          { return b.trail }
func (b *Body) Status() Status         { return b.status }
func (b *Body) HasCollided() bool      { return b.status == Collided }
func (b *Body) Polar() bool            { return b.polar }
func (b *Body) Slot() int              { return b.slot }

// Force returns the gravitational acceleration that other exerts on b.
//
// When collisions are enabled and the bodies lie within RF times the sum of
// their radii, the two are merged instead and the zero vector is returned.
// Exactly overlapping bodies also yield zero; if their velocities are equal
// as well they are nudged apart. No error escapes this method.
func (b *Body) Force(other *Body) r2.Vec {
	p := b.sys.params
	r := r2.Norm(r2.Sub(b.pos, other.pos))

	if p.Collisions && r <= p.RF*(b.radius+other.radius) && !b.HasCollided() && !other.HasCollided() {
		if _, err := b.Merge(other); err != nil {
			b.sys.log.Warn("merge failed", "body", b.id, "other", other.id, "err", err)
		}
		return r2.Vec{}
	}

	if r == 0 {
		b.sys.log.Warn("objects are overlapping", "body", b.id, "other", other.id)
		ev := Event{Kind: EventOverlap, Body: b.id, Others: []string{other.id}}
		if b.vel == other.vel {
			b.sys.log.Warn("shifting the coinciding bodies to avoid overlap", "body", b.id, "other", other.id)
			b.vel.X++
			other.vel.Y++
			ev.Message = "velocities nudged"
		}
		b.sys.emit(ev)
		return r2.Vec{}
	}

	r3 := r * r * r
	gm := p.G * other.mass
	return r2.Vec{
		X: sign(other.pos.X > b.pos.X) * gm * math.Abs(b.pos.X-other.pos.X) / r3,
		Y: sign(other.pos.Y > b.pos.Y) * gm * math.Abs(b.pos.Y-other.pos.Y) / r3,
	}
}

// Update advances b by dt: net acceleration from every other live body, a
// velocity kick (half of dt on the system's first step), trail bookkeeping,
// a position drift, and finally the overflow and boundary checks that may
// retire b to the escaped partition.
func (b *Body) Update(dt float64) {
	if b.status != Active {
		return
	}
	s := b.sys
	defer s.hold()()

	var acc r2.Vec
	for _, other := range s.active {
		if other == b || other.status != Active {
			continue
		}
		acc = r2.Add(acc, b.Force(other))
		if b.status != Active {
			return
		}
	}
	b.acc = acc

	kick := dt
	if s.stepCount == 0 {
		kick = dt / 2
	}
	b.vel = r2.Add(b.vel, r2.Scale(kick, b.acc))

	added, evicted := b.trail.Record(b.pos, s.params.TPDist)
	s.trailPoints += added - evicted

	b.pos = r2.Add(b.pos, r2.Scale(dt, b.vel))

	if !finite(b.pos) || !finite(b.vel) {
		s.log.Warn("overflow encountered", "body", b.id)
		s.retire(b, Escaped)
		s.emit(Event{
			Kind:    EventOverflow,
			Body:    b.id,
			Message: "the object was removed from the simulation\n" + b.String(),
		})
		return
	}

	if math.Abs(b.pos.X) > s.params.Bound || math.Abs(b.pos.Y) > s.params.Bound {
		s.log.Info("object has crossed the boundary", "body", b.id)
		s.retire(b, Escaped)
		s.emit(Event{Kind: EventEscaped, Body: b.id})
	}
}

// Merge combines b and other into a new active body and retires both to the
// collided partition. The new body sits at the centre of mass, moves with
// the momentum-weighted velocity scaled by VF, and is named "b+other".
func (b *Body) Merge(other *Body) (*Body, error) {
	s := b.sys
	switch {
	case other == b:
		return nil, &BodyError{Body: b.id, Step: s.stepCount, Wrapped: ErrSelfMerge}
	case other.sys != s:
		return nil, &BodyError{Body: other.id, Step: s.stepCount, Wrapped: ErrForeignBody}
	}
	for _, x := range [2]*Body{b, other} {
		switch x.status {
		case Collided:
			return nil, &BodyError{Body: x.id, Step: s.stepCount, Wrapped: ErrAlreadyCollided}
		case Escaped:
			return nil, &BodyError{Body: x.id, Step: s.stepCount, Wrapped: ErrRetired}
		}
	}

	p := s.params
	m := b.mass + other.mass
	wa, wb, total := b.mass, other.mass, m
	if total == 0 {
		wa, wb, total = 1, 1, 2
	}

	pos := r2.Vec{
		X: (wa*b.pos.X + wb*other.pos.X) / total,
		Y: (wa*b.pos.Y + wb*other.pos.Y) / total,
	}
	vel := r2.Vec{
		X: p.VF * (wa*b.vel.X + wb*other.vel.X) / total,
		Y: p.VF * (wa*b.vel.Y + wb*other.vel.Y) / total,
	}

	radius := math.Max(b.radius, other.radius)
	if p.AutoRadius {
		radius = AutoRadius(m, p.RConst)
	}

	s.retire(b, Collided)
	s.retire(other, Collided)
	s.log.Info("objects have collided", "body", b.id, "other", other.id)
	s.emit(Event{Kind: EventCollided, Body: b.id, Others: []string{other.id}})
	s.emit(Event{Kind: EventCollided, Body: other.id, Others: []string{b.id}})

	merged := NewBody(s, BodySpec{
		ID:     b.id + "+" + other.id,
		Mass:   m,
		X:      pos.X,
		Y:      pos.Y,
		VX:     vel.X,
		VY:     vel.Y,
		Colour: b.colour.Blend(other.colour, wa, wb),
		Radius: radius,
		Trail:  max(b.trail.Cap(), other.trail.Cap()),
		Polar:  b.polar || other.polar,
	})
	s.emit(Event{Kind: EventMerged, Body: merged.id, Others: []string{b.id, other.id}})
	return merged, nil
}

func (b *Body) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "    <%s>\n", b.id)
	fmt.Fprintf(&sb, "Mass : %g        Radius : %g\n", b.mass, b.radius)

	posLabel, velLabel, accLabel := "(X, Y)", "(X, Y)", "(X, Y)"
	if b.polar {
		posLabel, velLabel, accLabel = "(r, θ)", "(|v|, θ)", "(|a|, θ)"
	}
	px, py := vecmath.Neat(b.pos.X, b.pos.Y, b.polar)
	fmt.Fprintf(&sb, "Position %s : (%g, %g)", posLabel, px, py)

	switch b.status {
	case Collided:
		sb.WriteString("\n    <- Collided ->")
	case Escaped:
		sb.WriteString("\n    <- Escaped ->")
	default:
		vx, vy := vecmath.Neat(b.vel.X, b.vel.Y, b.polar)
		ax, ay := vecmath.Neat(b.acc.X, b.acc.Y, b.polar)
		fmt.Fprintf(&sb, "\nVelocity %s : (%g, %g)", velLabel, vx, vy)
		fmt.Fprintf(&sb, "\nAcceleration %s : (%g, %g)", accLabel, ax, ay)
	}
	return sb.String()
}

func sign(positive bool) float64 {
	if positive {
		return 1
	}
	return -1
}

func finite(v r2.Vec) bool {
	return !math.IsInf(v.X, 0) && !math.IsNaN(v.X) && !math.IsInf(v.Y, 0) && !math.IsNaN(v.Y)
}

func fmtVec(v r2.Vec) string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
