package gravity

import "gonum.org/v1/gonum/spatial/r2"

// Trail is the position history of a body.
//
// A positive cap bounds the history, evicting the oldest points first; a cap
// of zero disables recording; a negative cap records without limit. The
// trail always holds at least the seed point.
type Trail struct {
	points []r2.Vec
	cap    int
}

func NewTrail(cap int, seed r2.Vec) *Trail {
	return &Trail{points: []r2.Vec{seed}, cap: cap}
}

func (t *Trail) Cap() int      { return t.cap }
func (t *Trail) Len() int      { return len(t.points) }
func (t *Trail) Enabled() bool { return t.cap != 0 }
func (t *Trail) Last() r2.Vec  { return t.points[len(t.points)-1] }

// Points returns a copy of the recorded positions, oldest first.
func (t *Trail) Points() []r2.Vec {
	out := make([]r2.Vec, len(t.points))
	copy(out, t.points)
	return out
}

// Record appends p when it lies at least minDist away from the last point,
// then evicts from the front while a positive cap is exceeded. It reports
// how many points were added and evicted.
func (t *Trail) Record(p r2.Vec, minDist float64) (added, evicted int) {
	if !t.Enabled() {
		return 0, 0
	}
	if r2.Norm(r2.Sub(p, t.Last())) >= minDist {
		t.points = append(t.points, p)
		added = 1
	}
	for t.cap > 0 && len(t.points) > t.cap {
		t.points = t.points[1:]
		evicted++
	}
	return added, evicted
}
