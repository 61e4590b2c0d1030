package metrics

import "github.com/san-kum/gravity/internal/sim"

// Standard returns fresh instances of the metrics recorded by every run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewPopulation(),
	}
}
