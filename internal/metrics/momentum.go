package metrics

import (
	"github.com/san-kum/gravity/internal/gravity"
	"gonum.org/v1/gonum/spatial/r2"
)

// TotalMomentum is Σ m·v over the active bodies.
func TotalMomentum(sys *gravity.System) r2.Vec {
	var p r2.Vec
	for _, b := range sys.Active() {
		p = r2.Add(p, r2.Scale(b.Mass(), b.Velocity()))
	}
	return p
}

// CentreOfMass is the mass-weighted mean position of the active bodies, and
// the origin when they carry no mass.
func CentreOfMass(sys *gravity.System) r2.Vec {
	var c r2.Vec
	var m float64
	for _, b := range sys.Active() {
		c = r2.Add(c, r2.Scale(b.Mass(), b.Position()))
		m += b.Mass()
	}
	if m == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/m, c)
}

// Momentum reports |Σ m·v| at the latest observation.
type Momentum struct {
	last float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string                { return "momentum" }
func (m *Momentum) Observe(sys *gravity.System) { m.last = r2.Norm(TotalMomentum(sys)) }
func (m *Momentum) Value() float64              { return m.last }
func (m *Momentum) Reset()                      { m.last = 0 }

// Population reports the peak number of simultaneously active bodies.
type Population struct {
	peak int
}

func NewPopulation() *Population { return &Population{} }

func (p *Population) Name() string { return "peak_active" }

func (p *Population) Observe(sys *gravity.System) {
	if active, _, _ := sys.Counts(); active > p.peak {
		p.peak = active
	}
}

func (p *Population) Value() float64 { return float64(p.peak) }
func (p *Population) Reset()         { p.peak = 0 }
