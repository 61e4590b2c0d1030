package metrics

import (
	"math"

	"github.com/san-kum/gravity/internal/gravity"
)

// TotalEnergy is the kinetic energy of the active bodies plus their pairwise
// potential -G·mi·mj/r. Coinciding pairs contribute no potential.
func TotalEnergy(sys *gravity.System) float64 {
	g := sys.Params().G
	bodies := sys.Active()

	var ke, pe float64
	for i, a := range bodies {
		v := a.Velocity()
		ke += 0.5 * a.Mass() * (v.X*v.X + v.Y*v.Y)
		for _, b := range bodies[i+1:] {
			pa, pb := a.Position(), b.Position()
			r := math.Hypot(pb.X-pa.X, pb.Y-pa.Y)
			if r == 0 {
				continue
			}
			pe -= g * a.Mass() * b.Mass() / r
		}
	}
	return ke + pe
}

// Energy reports the total energy at the latest observation.
type Energy struct {
	name    string
	samples int
	last    float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(sys *gravity.System) {
	e.last = TotalEnergy(sys)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.last
}

func (e *Energy) Reset() {
	e.last = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of the total energy from
// its first observed value. Merges and escapes remove energy, so the drift
// is only meaningful for runs without either.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys *gravity.System) {
	energy := TotalEnergy(sys)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
