package vecmath

import "math"

const (
	degPerRad = 180 / math.Pi
	radPerDeg = math.Pi / 180
)

// ToCartesian converts the polar pair (magnitude m, angle a) to (x, y).
// The angle is read in degrees unless radians is set.
func ToCartesian(m, a float64, radians bool) (x, y float64) {
	if !radians {
		a *= radPerDeg
	}
	return m * math.Cos(a), m * math.Sin(a)
}

// ToPolar converts (x, y) to (magnitude, angle). The angle is in degrees
// unless radians is set.
//
// The quadrant correction is applied as a single chain: x < 0 adds 180,
// otherwise x == 0 pins the angle to 90 or 270, otherwise a negative y adds
// 360. The origin therefore maps to (0, 90).
func ToPolar(x, y float64, radians bool) (m, a float64) {
	m = math.Hypot(x, y)
	a = 90
	if x != 0 {
		a = math.Atan(y/x) * degPerRad
	}
	if x < 0 {
		a += 180
	} else if x == 0 && y < 0 {
		a = 270
	} else if x > 0 && y < 0 {
		a += 360
	}
	if radians {
		a *= radPerDeg
	}
	return m, a
}

// Round5 rounds v to 5 decimal places for display.
func Round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// Neat returns a short display form of a 2D vector, in polar form when polar
// is set.
func Neat(p1, p2 float64, polar bool) (float64, float64) {
	if polar {
		d, a := ToPolar(p1, p2, false)
		return Round5(d), Round5(a)
	}
	return Round5(p1), Round5(p2)
}
