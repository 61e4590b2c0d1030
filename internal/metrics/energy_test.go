package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravity/internal/gravity"
)

// G=5, masses 2 and 3 four units apart: KE = 1 + 6, PE = -7.5.
func testSystem(moving bool) *gravity.System {
	sys := gravity.NewSystem(gravity.DefaultParams())
	a := gravity.BodySpec{ID: "a", Mass: 2}
	b := gravity.BodySpec{ID: "b", Mass: 3, X: 4}
	if moving {
		a.VX = 1
		b.VY = 2
	}
	sys.AddBody(a)
	sys.AddBody(b)
	return sys
}

func TestTotalEnergy(t *testing.T) {
	tests := []struct {
		name   string
		moving bool
		want   float64
	}{
		{"moving", true, -0.5},
		{"at rest", false, -7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalEnergy(testSystem(tt.moving)); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected energy %f, got %f", tt.want, got)
			}
		})
	}
}

func TestTotalEnergyCoinciding(t *testing.T) {
	sys := gravity.NewSystem(gravity.DefaultParams())
	sys.AddBody(gravity.BodySpec{Mass: 1})
	sys.AddBody(gravity.BodySpec{Mass: 1})

	if got := TotalEnergy(sys); got != 0 {
		t.Errorf("expected zero energy, got %f", got)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(testSystem(true))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(testSystem(true))
	m.Observe(testSystem(true))
	if m.Value() != 0 {
		t.Errorf("expected no drift, got %f", m.Value())
	}

	m.Observe(testSystem(false))
	m.Observe(testSystem(true))
	if got := m.Value(); math.Abs(got-14) > 1e-12 {
		t.Errorf("expected max drift 14, got %f", got)
	}

	m.Reset()
	m.Observe(testSystem(false))
	if m.Value() != 0 {
		t.Errorf("expected drift reset, got %f", m.Value())
	}
}
