package gravity

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"
)

// System owns a set of bodies and the parameters they are simulated with.
//
// Every body ever created by the System stays in its arena and belongs to
// exactly one of the active, collided and escaped partitions.
type System struct {
	params Params

	bodies   []*Body
	active   []*Body
	collided []*Body
	escaped  []*Body

	stepCount   int
	simTime     float64
	trailPoints int

	// depth counts nested Step/Update calls; retirements while depth > 0
	// are compacted out of active when the outermost call returns.
	depth int
	dirty bool

	observers []Observer
	log       *log.Logger
}

func NewSystem(p Params) *System {
	return &System{
		params:    p.normalize(),
		bodies:    make([]*Body, 0),
		active:    make([]*Body, 0),
		collided:  make([]*Body, 0),
		escaped:   make([]*Body, 0),
		observers: make([]Observer, 0),
		log:       log.New(io.Discard),
	}
}

// SetLogger routes the system's diagnostics to l. A nil logger discards them.
func (s *System) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	s.log = l
}

func (s *System) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// AddBody is shorthand for NewBody(s, spec).
func (s *System) AddBody(spec BodySpec) *Body { return NewBody(s, spec) }

func (s *System) Params() Params         { return s.params }
func (s *System) StepCount() int         { return s.stepCount }
func (s *System) SimulatedTime() float64 { return s.simTime }

// TrailPoints is the number of trail points retained by all bodies.
func (s *System) TrailPoints() int { return s.trailPoints }

func (s *System) Active() []*Body   { return cloneBodies(s.active) }
func (s *System) Collided() []*Body { return cloneBodies(s.collided) }
func (s *System) Escaped() []*Body  { return cloneBodies(s.escaped) }

// Bodies returns every body created by the system in creation order.
func (s *System) Bodies() []*Body { return cloneBodies(s.bodies) }

// Counts returns the sizes of the three partitions.
func (s *System) Counts() (active, collided, escaped int) {
	return len(s.active), len(s.collided), len(s.escaped)
}

// Find returns the most recently created body with the given id.
func (s *System) Find(id string) (*Body, bool) {
	for i := len(s.bodies) - 1; i >= 0; i-- {
		if s.bodies[i].id == id {
			return s.bodies[i], true
		}
	}
	return nil, false
}

// Step advances the simulation by dt.
//
// Only bodies that were active when the step began are updated; bodies
// created by merges during the step act as gravity sources straight away but
// are first updated on the next step. Bodies retired mid-step are skipped.
func (s *System) Step(dt float64) {
	release := s.hold()
	pending := cloneBodies(s.active)
	for _, b := range pending {
		if b.status == Active {
			b.Update(dt)
		}
	}
	release()

	s.stepCount++
	s.simTime += dt
}

func (s *System) register(b *Body) {
	b.slot = len(s.bodies)
	if b.id == "" {
		b.id = strconv.Itoa(b.slot + 1)
	}
	s.bodies = append(s.bodies, b)
	s.active = append(s.active, b)
	s.trailPoints += b.trail.Len()
}

func (s *System) retire(b *Body, status Status) {
	b.status = status
	switch status {
	case Collided:
		s.collided = append(s.collided, b)
	case Escaped:
		s.escaped = append(s.escaped, b)
	}
	s.dirty = true
	if s.depth == 0 {
		s.compact()
	}
}

func (s *System) hold() func() {
	s.depth++
	return func() {
		s.depth--
		if s.depth == 0 && s.dirty {
			s.compact()
		}
	}
}

func (s *System) compact() {
	live := make([]*Body, 0, len(s.active))
	for _, b := range s.active {
		if b.status == Active {
			live = append(live, b)
		}
	}
	s.active = live
	s.dirty = false
}

func (s *System) emit(e Event) {
	e.Step = s.stepCount
	e.Time = s.simTime
	for _, o := range s.observers {
		o.OnEvent(e)
	}
}

func cloneBodies(src []*Body) []*Body {
	out := make([]*Body, len(src))
	copy(out, src)
	return out
}
