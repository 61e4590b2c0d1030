package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/gravity/internal/gravity"
	"github.com/san-kum/gravity/internal/orbit"
	"github.com/san-kum/gravity/internal/sim"
	"github.com/san-kum/gravity/internal/vecmath"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	MaxG          = 1000.0
	MaxCalcFreq   = 200.0
	MaxBound      = 100000.0
	DefaultSteps  = 5000
	DefaultRecord = 10
)

var (
	ErrCoincidingBodies = errors.New("config: bodies have the same initial position")
	ErrUnknownBody      = errors.New("config: no body with that id")
)

type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Obj       ObjConfig       `yaml:"obj"`
	Collision CollisionConfig `yaml:"collision"`
	Anim      AnimConfig      `yaml:"anim"`
	Run       sim.Config      `yaml:"run"`
	// AutoOrbit names a central body. Every other body given without a
	// velocity is placed on a circular orbit around it.
	AutoOrbit string       `yaml:"auto_orbit,omitempty"`
	Bodies    []BodyConfig `yaml:"bodies"`
}

type SimConfig struct {
	G         float64 `yaml:"g"`
	Dt        float64 `yaml:"dt"`
	FCalc     float64 `yaml:"f_calc"`
	Bound     float64 `yaml:"bound"`
	Randomize bool    `yaml:"randomize"`
}

type ObjConfig struct {
	// Polar reads body positions and velocities as (magnitude, angle in
	// degrees) pairs.
	Polar      bool    `yaml:"polar"`
	AutoRadius bool    `yaml:"autoradius"`
	RConst     float64 `yaml:"r_const"`
}

type CollisionConfig struct {
	AllowCollide bool    `yaml:"allow_collide"`
	RFrac        float64 `yaml:"r_frac"`
	VFrac        float64 `yaml:"v_frac"`
}

type AnimConfig struct {
	TPDist float64 `yaml:"tpdist"`
}

type BodyConfig struct {
	ID string `yaml:"id,omitempty"`
	// Colour is "#rrggbb" or "#rrggbbaa"; empty means white.
	Colour string  `yaml:"colour,omitempty"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius,omitempty"`
	// Trail is the trail cap; a missing key means gravity.DefaultTrail.
	Trail int        `yaml:"trail"`
	Pos   [2]float64 `yaml:"pos,flow"`
	Vel   [2]float64 `yaml:"vel,flow"`
}

func (b *BodyConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain BodyConfig
	out := plain{Trail: gravity.DefaultTrail}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*b = BodyConfig(out)
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			G:     gravity.DefaultG,
			Dt:    gravity.DefaultDt,
			FCalc: gravity.DefaultCalcFrequency,
			Bound: gravity.DefaultBound,
		},
		Obj: ObjConfig{
			AutoRadius: true,
			RConst:     gravity.DefaultRConst,
		},
		Collision: CollisionConfig{
			AllowCollide: true,
			RFrac:        gravity.DefaultRF,
			VFrac:        gravity.DefaultVF,
		},
		Anim: AnimConfig{TPDist: gravity.DefaultTPDist},
		Run: sim.Config{
			Steps:       DefaultSteps,
			RecordEvery: DefaultRecord,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}

func (c *Config) Params() gravity.Params {
	return gravity.Params{
		G:             c.Sim.G,
		Dt:            c.Sim.Dt,
		Bound:         c.Sim.Bound,
		CalcFrequency: c.Sim.FCalc,
		Randomize:     c.Sim.Randomize,
		AutoRadius:    c.Obj.AutoRadius,
		RConst:        c.Obj.RConst,
		Collisions:    c.Collision.AllowCollide,
		RF:            c.Collision.RFrac,
		VF:            c.Collision.VFrac,
		TPDist:        c.Anim.TPDist,
	}
}

// Correction records a setting that was out of range and reset.
type Correction struct {
	Field string
	Was   float64
	Now   float64
}

func (c Correction) String() string {
	return fmt.Sprintf("%s: %v out of range, reset to %v", c.Field, c.Was, c.Now)
}

// Validate resets out-of-range settings to their defaults and reports each
// one it changed.
func (c *Config) Validate() []Correction {
	var out []Correction
	fix := func(field string, v *float64, ok bool, def float64) {
		if !ok {
			out = append(out, Correction{Field: field, Was: *v, Now: def})
			*v = def
		}
	}
	in := func(v, lo, hi float64) bool { return v >= lo && v <= hi }

	fix("sim.g", &c.Sim.G, c.Sim.G != 0 && in(math.Abs(c.Sim.G), 0, MaxG), gravity.DefaultG)
	fix("sim.dt", &c.Sim.Dt, in(c.Sim.Dt, 0, math.MaxFloat64), gravity.DefaultDt)
	fix("sim.f_calc", &c.Sim.FCalc, in(c.Sim.FCalc, 0, MaxCalcFreq), gravity.DefaultCalcFrequency)
	fix("sim.bound", &c.Sim.Bound, in(math.Abs(c.Sim.Bound), 0, MaxBound), gravity.DefaultBound)
	fix("obj.r_const", &c.Obj.RConst, c.Obj.RConst > 0 && c.Obj.RConst <= math.MaxFloat64, gravity.DefaultRConst)
	fix("collision.r_frac", &c.Collision.RFrac, in(c.Collision.RFrac, 0, 1), gravity.DefaultRF)
	fix("collision.v_frac", &c.Collision.VFrac, in(c.Collision.VFrac, 0, 1), gravity.DefaultVF)
	fix("anim.tpdist", &c.Anim.TPDist, in(c.Anim.TPDist, 0, math.MaxFloat64), gravity.DefaultTPDist)
	return out
}

// BodySpecs converts the configured bodies to Cartesian construction
// parameters, applying auto-orbit. Two bodies may not start at the same
// position.
func (c *Config) BodySpecs() ([]gravity.BodySpec, error) {
	specs := make([]gravity.BodySpec, 0, len(c.Bodies))
	seen := make(map[r2.Vec]string, len(c.Bodies))

	for i, b := range c.Bodies {
		name := b.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}

		colour := vecmath.White
		if b.Colour != "" {
			parsed, err := vecmath.ParseColour(b.Colour)
			if err != nil {
				return nil, fmt.Errorf("body %s: %w", name, err)
			}
			colour = parsed
		}

		x, y := b.Pos[0], b.Pos[1]
		vx, vy := b.Vel[0], b.Vel[1]
		if c.Obj.Polar {
			x, y = vecmath.ToCartesian(x, y, false)
			vx, vy = vecmath.ToCartesian(vx, vy, false)
		}

		pos := r2.Vec{X: x, Y: y}
		if other, ok := seen[pos]; ok {
			return nil, fmt.Errorf("bodies %s and %s: %w", other, name, ErrCoincidingBodies)
		}
		seen[pos] = name

		specs = append(specs, gravity.BodySpec{
			ID:     b.ID,
			Mass:   b.Mass,
			X:      x,
			Y:      y,
			VX:     vx,
			VY:     vy,
			Colour: colour,
			Radius: b.Radius,
			Trail:  b.Trail,
			Polar:  c.Obj.Polar,
		})
	}

	if c.AutoOrbit != "" {
		if err := c.applyAutoOrbit(specs); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

func (c *Config) applyAutoOrbit(specs []gravity.BodySpec) error {
	centre := -1
	for i, s := range specs {
		if s.ID == c.AutoOrbit {
			centre = i
			break
		}
	}
	if centre < 0 {
		return fmt.Errorf("auto_orbit %q: %w", c.AutoOrbit, ErrUnknownBody)
	}

	cs := specs[centre]
	cpos := r2.Vec{X: cs.X, Y: cs.Y}
	for i := range specs {
		s := &specs[i]
		if i == centre || s.VX != 0 || s.VY != 0 {
			continue
		}
		v := orbit.CircularVelocity(c.Sim.G, math.Abs(cs.Mass), cpos, r2.Vec{X: s.X, Y: s.Y})
		s.VX = cs.VX + v.X
		s.VY = cs.VY + v.Y
	}
	return nil
}

// Populate builds a System from the configuration.
func (c *Config) Populate() (*gravity.System, error) {
	specs, err := c.BodySpecs()
	if err != nil {
		return nil, err
	}
	sys := gravity.NewSystem(c.Params())
	for _, s := range specs {
		sys.AddBody(s)
	}
	return sys, nil
}

// BodyFromSnapshot converts a snapshot back to a body entry, in polar form
// when polar is set.
func BodyFromSnapshot(s gravity.BodySnapshot, polar bool) BodyConfig {
	b := BodyConfig{
		ID:     s.ID,
		Mass:   s.Mass,
		Radius: s.Radius,
		Trail:  s.Trail,
		Pos:    [2]float64{s.X, s.Y},
		Vel:    [2]float64{s.VX, s.VY},
	}
	switch {
	case s.Colour == vecmath.White:
	case s.Colour[3] == 1:
		b.Colour = s.Colour.RGBHex()
	default:
		b.Colour = s.Colour.Hex()
	}
	if polar {
		b.Pos[0], b.Pos[1] = vecmath.ToPolar(s.X, s.Y, false)
		b.Vel[0], b.Vel[1] = vecmath.ToPolar(s.VX, s.VY, false)
	}
	return b
}
