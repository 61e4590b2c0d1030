package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/gravity/internal/gravity"
)

// Metric accumulates a scalar over the course of a run.
type Metric interface {
	Name() string
	Observe(sys *gravity.System)
	Value() float64
	Reset()
}

// FrameClock supplies the wall-clock duration of each frame.
type FrameClock interface {
	Next() time.Duration
}

// Seeder is implemented by clocks whose sequence depends on a seed.
type Seeder interface {
	Seed(seed int64)
}

type Config struct {
	// Steps caps the number of steps; zero means no cap.
	Steps int `json:"steps" yaml:"steps"`
	// Duration caps the simulated time; zero means no cap.
	Duration float64 `json:"duration" yaml:"duration"`
	// RecordEvery records a frame every n steps. Zero records every step.
	RecordEvery int   `json:"record_every" yaml:"record_every"`
	Seed        int64 `json:"seed" yaml:"seed"`
}

func (c Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must be non-negative, got %f", c.Duration)
	}
	if c.Steps == 0 && c.Duration == 0 {
		return fmt.Errorf("either steps or duration must be set")
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("record_every must be non-negative, got %d", c.RecordEvery)
	}
	return nil
}

func (c Config) every() int {
	if c.RecordEvery <= 0 {
		return 1
	}
	return c.RecordEvery
}

// Frame is the state of the system after a step.
type Frame struct {
	Step     int
	Time     float64
	Dt       float64
	Bodies   []gravity.BodySnapshot
	Active   int
	Collided int
	Escaped  int
}

type Result struct {
	Frames     []Frame
	Events     []gravity.Event
	Metrics    map[string]float64
	StepsTaken int
	SimTime    float64
	// Stopped is the reason the run ended before its limits, or nil.
	Stopped error
}

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
