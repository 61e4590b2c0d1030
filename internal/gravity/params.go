package gravity

import (
	"math"
	"time"
)

const (
	DefaultG             = 5.0
	DefaultDt            = 0.01
	DefaultBound         = 10000.0
	DefaultCalcFrequency = 50.0
	DefaultRConst        = 3.0
	DefaultRF            = 0.8
	DefaultVF            = 1.0
	DefaultTPDist        = 1.0
	DefaultTrail         = 100
)

// Params holds the global settings of a System. They are resolved once by
// the caller and never looked up from anywhere else.
type Params struct {
	// G is the gravitational constant.
	G float64 `json:"G" yaml:"g"`
	// Dt is the nominal integration interval.
	Dt float64 `json:"dt" yaml:"dt"`
	// Bound is the half-width of the square domain centred at the origin.
	Bound float64 `json:"bound" yaml:"bound"`
	// CalcFrequency is the nominal number of steps per wall-clock second.
	CalcFrequency float64 `json:"f_calc" yaml:"f_calc"`
	// Randomize scales Dt by the measured frame time, see ScaleDt.
	Randomize bool `json:"rand" yaml:"randomize"`
	// AutoRadius derives merged radii from mass instead of keeping the larger one.
	AutoRadius bool `json:"autoradius" yaml:"autoradius"`
	// RConst is the density constant used by AutoRadius.
	RConst float64 `json:"r_const" yaml:"r_const"`
	// Collisions enables merging of bodies.
	Collisions bool `json:"collide" yaml:"collisions"`
	// RF multiplies the sum of two radii to give the collision distance.
	RF float64 `json:"rf" yaml:"rf"`
	// VF scales the velocity of a merged body.
	VF float64 `json:"vf" yaml:"vf"`
	// TPDist is the minimum distance between two recorded trail points.
	TPDist float64 `json:"tpdist" yaml:"tpdist"`
}

func DefaultParams() Params {
	return Params{
		G:             DefaultG,
		Dt:            DefaultDt,
		Bound:         DefaultBound,
		CalcFrequency: DefaultCalcFrequency,
		AutoRadius:    true,
		RConst:        DefaultRConst,
		Collisions:    true,
		RF:            DefaultRF,
		VF:            DefaultVF,
		TPDist:        DefaultTPDist,
	}
}

func (p Params) normalize() Params {
	p.Bound = math.Abs(p.Bound)
	p.CalcFrequency = math.Abs(p.CalcFrequency)
	return p
}

// CalcInterval is the nominal wall-clock time between two steps, or zero
// when no calculation frequency is set.
func (p Params) CalcInterval() time.Duration {
	if p.CalcFrequency == 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / p.CalcFrequency)
}

// ScaleDt returns the interval to pass to Step for a frame that took frame
// of wall-clock time. With Randomize off it is always Dt; otherwise Dt is
// scaled by frame / CalcInterval.
func (p Params) ScaleDt(frame time.Duration) float64 {
	interval := p.CalcInterval()
	if !p.Randomize || interval == 0 {
		return p.Dt
	}
	return frame.Seconds() / interval.Seconds() * p.Dt
}

// AutoRadius is the display radius derived from mass: max(1, round(√m / k)).
// Halves round to even.
func AutoRadius(mass, rConst float64) float64 {
	if rConst <= 0 {
		rConst = DefaultRConst
	}
	return math.Max(1, math.RoundToEven(math.Sqrt(mass)/rConst))
}
