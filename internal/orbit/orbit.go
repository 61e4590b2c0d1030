// Package orbit relates the mass of a central body to the radius, period,
// orbital velocity and escape velocity of a circular orbit around it:
//
//	T² = 4π²R³ / (GM)
//	v_orb = √(GM / R)
//	v_esc = √(2GM / R)
package orbit

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrInvalidG = errors.New("orbit: G must be positive")

	// ErrUnderdetermined is returned when the knowns do not fix M and R,
	// either because fewer than two are given or because they are the two
	// velocities, which only fix GM/R.
	ErrUnderdetermined = errors.New("orbit: not enough independent values")
)

// Knowns holds the quantities of a circular orbit. Non-positive fields are
// unknown.
type Knowns struct {
	M    float64 `json:"M"`
	R    float64 `json:"R"`
	T    float64 `json:"T"`
	VOrb float64 `json:"v_orb"`
	VEsc float64 `json:"v_esc"`
}

type quantity int

const (
	qM quantity = iota
	qR
	qT
	qVOrb
	qVEsc
)

func (k Knowns) values() [5]float64 {
	return [5]float64{k.M, k.R, k.T, k.VOrb, k.VEsc}
}

// Solve fills every field of k from the first two known fields in the order
// M, R, T, VOrb, VEsc. Any further known fields are recomputed.
func Solve(g float64, k Knowns) (Knowns, error) {
	if !(g > 0) || math.IsInf(g, 0) {
		return Knowns{}, ErrInvalidG
	}

	var picked []quantity
	for i, v := range k.values() {
		if v > 0 && !math.IsInf(v, 0) {
			picked = append(picked, quantity(i))
			if len(picked) == 2 {
				break
			}
		}
	}
	if len(picked) < 2 {
		return Knowns{}, ErrUnderdetermined
	}

	// mu is GM; r is the orbit radius.
	var mu, r float64
	switch a, b := picked[0], picked[1]; {
	case a == qM:
		mu = g * k.M
		switch b {
		case qR:
			r = k.R
		case qT:
			r = math.Cbrt(mu * k.T * k.T / (4 * math.Pi * math.Pi))
		case qVOrb:
			r = mu / (k.VOrb * k.VOrb)
		case qVEsc:
			r = 2 * mu / (k.VEsc * k.VEsc)
		}
	case a == qR:
		r = k.R
		switch b {
		case qT:
			mu = 4 * math.Pi * math.Pi * r * r * r / (k.T * k.T)
		case qVOrb:
			mu = k.VOrb * k.VOrb * r
		case qVEsc:
			mu = k.VEsc * k.VEsc * r / 2
		}
	case a == qT:
		vo := k.VOrb
		if b == qVEsc {
			vo = k.VEsc / math.Sqrt2
		}
		r = vo * k.T / (2 * math.Pi)
		mu = vo * vo * r
	default:
		return Knowns{}, ErrUnderdetermined
	}

	out := Knowns{
		M:    mu / g,
		R:    r,
		T:    2 * math.Pi * math.Sqrt(r*r*r/mu),
		VOrb: math.Sqrt(mu / r),
		VEsc: math.Sqrt(2 * mu / r),
	}
	out.M = tidy(out.M)
	out.R = tidy(out.R)
	out.T = tidy(out.T)
	out.VOrb = tidy(out.VOrb)
	out.VEsc = tidy(out.VEsc)
	return out, nil
}

// tidy snaps values within 1e-14 of an integer onto it.
func tidy(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-14 {
		return r
	}
	return v
}

// CircularVelocity is the velocity, relative to a central body of mass m at
// centre, that puts a body at pos on a counter-clockwise circular orbit.
func CircularVelocity(g, m float64, centre, pos r2.Vec) r2.Vec {
	d := r2.Sub(pos, centre)
	r := r2.Norm(d)
	if r == 0 || g*m <= 0 {
		return r2.Vec{}
	}
	v := math.Sqrt(g * m / r)
	return r2.Vec{X: -d.Y / r * v, Y: d.X / r * v}
}
