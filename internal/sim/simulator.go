package sim

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravity/internal/gravity"
)

// Simulator drives a gravity.System with frame times from a FrameClock.
type Simulator struct {
	sys       *gravity.System
	clock     FrameClock
	metrics   []Metric
	observers []gravity.Observer
	events    []gravity.Event
	log       *log.Logger
}

// New wraps sys. A nil clock ticks at the nominal calculation interval.
func New(sys *gravity.System, clock FrameClock) *Simulator {
	if clock == nil {
		clock = FixedClock{Interval: sys.Params().CalcInterval()}
	}
	s := &Simulator{
		sys:       sys,
		clock:     clock,
		metrics:   make([]Metric, 0),
		observers: make([]gravity.Observer, 0),
		log:       log.New(io.Discard),
	}
	sys.AddObserver(gravity.ObserverFunc(s.onEvent))
	return s
}

func (s *Simulator) AddMetric(m Metric)             { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o gravity.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) System() *gravity.System        { return s.sys }

func (s *Simulator) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	s.log = l
}

// Events returns the events seen since the last Run or Reset.
func (s *Simulator) Events() []gravity.Event {
	out := make([]gravity.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Reset clears recorded events and metric state.
func (s *Simulator) Reset() {
	s.events = s.events[:0]
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.sys)
	}
}

func (s *Simulator) onEvent(e gravity.Event) {
	s.events = append(s.events, e)
	for _, o := range s.observers {
		o.OnEvent(e)
	}
}

// Advance performs one step for a frame that took the given wall-clock time
// and returns the resulting frame.
func (s *Simulator) Advance(frame time.Duration) (Frame, error) {
	dt := s.sys.Params().ScaleDt(frame)
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return Frame{}, fmt.Errorf("step %d: %w (dt=%v)", s.sys.StepCount(), gravity.ErrInvalidDt, dt)
	}
	s.sys.Step(dt)
	for _, m := range s.metrics {
		m.Observe(s.sys)
	}
	return s.frame(dt), nil
}

func (s *Simulator) frame(dt float64) Frame {
	active, collided, escaped := s.sys.Counts()
	return Frame{
		Step:     s.sys.StepCount(),
		Time:     s.sys.SimulatedTime(),
		Dt:       dt,
		Bodies:   s.sys.Snapshot(),
		Active:   active,
		Collided: collided,
		Escaped:  escaped,
	}
}

func (s *Simulator) validate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Steps == 0 && s.sys.Params().Dt == 0 {
		return fmt.Errorf("duration %v cannot be reached: %w", cfg.Duration, gravity.ErrInvalidDt)
	}
	return nil
}

func (s *Simulator) seed(cfg Config) {
	if sd, ok := s.clock.(Seeder); ok {
		sd.Seed(cfg.Seed)
	}
}

func (s *Simulator) done(cfg Config, taken int, dt float64) bool {
	if cfg.Steps > 0 && taken >= cfg.Steps {
		return true
	}
	return cfg.Duration > 0 && s.sys.SimulatedTime()+dt/2 > cfg.Duration
}

// Run steps the system until cfg's limits are reached, every body has left
// the simulation, or ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}
	s.seed(cfg)
	s.Reset()

	every := cfg.every()
	result := &Result{
		Frames:  make([]Frame, 0),
		Metrics: make(map[string]float64),
	}
	result.Frames = append(result.Frames, s.frame(0))

	last := s.sys.Params().Dt
	var pending *Frame
	for {
		if s.done(cfg, result.StepsTaken, last) {
			break
		}
		select {
		case <-ctx.Done():
			result.Stopped = ctx.Err()
			s.finish(result, pending)
			return result, ctx.Err()
		default:
		}
		if active, _, _ := s.sys.Counts(); active == 0 {
			result.Stopped = gravity.ErrNoActiveBodies
			break
		}

		fr, err := s.Advance(s.clock.Next())
		if err != nil {
			s.finish(result, pending)
			return result, err
		}
		last = fr.Dt
		result.StepsTaken++
		if result.StepsTaken%every == 0 {
			result.Frames = append(result.Frames, fr)
			pending = nil
			s.log.Debug("step", "step", fr.Step, "t", fr.Time, "active", fr.Active)
		} else {
			pending = &fr
		}
	}
	if active, _, _ := s.sys.Counts(); active == 0 && result.Stopped == nil {
		result.Stopped = gravity.ErrNoActiveBodies
	}
	s.finish(result, pending)
	return result, nil
}

// finish appends the last unrecorded frame, if any, and collects totals.
func (s *Simulator) finish(result *Result, pending *Frame) {
	if pending != nil {
		result.Frames = append(result.Frames, *pending)
	}
	result.SimTime = s.sys.SimulatedTime()
	result.Events = s.Events()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps like Run without recording, handing every frame to
// callback. Returning false from callback stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := s.validate(cfg); err != nil {
		return err
	}
	s.seed(cfg)
	s.Reset()

	taken := 0
	last := s.sys.Params().Dt
	for !s.done(cfg, taken, last) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if active, _, _ := s.sys.Counts(); active == 0 {
			return nil
		}

		fr, err := s.Advance(s.clock.Next())
		if err != nil {
			return err
		}
		taken++
		last = fr.Dt
		if !callback(fr) {
			return nil
		}
	}
	return nil
}
