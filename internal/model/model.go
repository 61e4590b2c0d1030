// Package model reads and writes model files: JSON documents holding the
// simulation settings and the state of every body.
//
//	{
//	  "settings": {"G": 5, "dt": 0.01, "bound": 10000, "rand": 0, ...},
//	  "data": [{"id": "1", "colour": [1, 1, 1, 1], "mass": 10, ...}]
//	}
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/gravity"
)

var ErrInvalidColour = errors.New("model: colour channels must lie in [0, 1]")

// Flag is a boolean stored as 0 or 1. Decoding also accepts true and false.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flag %s: want 0, 1, true or false", data)
	}
	*f = n != 0
	return nil
}

// View is the camera state of the viewer that saved the file.
type View struct {
	X    int     `json:"ix"`
	Y    int     `json:"iy"`
	Zoom float64 `json:"iz"`
	Rot  float64 `json:"ir"`
}

type Settings struct {
	G       float64 `json:"G"`
	Dt      float64 `json:"dt"`
	Bound   int     `json:"bound"`
	Rand    Flag    `json:"rand"`
	Polar   Flag    `json:"polar"`
	Collide Flag    `json:"collide"`
	RF      float64 `json:"rf"`
	VF      float64 `json:"vf"`
	View
}

type File struct {
	Settings Settings               `json:"settings"`
	Data     []gravity.BodySnapshot `json:"data"`
}

func DefaultSettings() Settings {
	return Settings{
		G:       gravity.DefaultG,
		Dt:      gravity.DefaultDt,
		Bound:   int(gravity.DefaultBound),
		Collide: true,
		RF:      gravity.DefaultRF,
		VF:      gravity.DefaultVF,
		View:    View{Zoom: 1},
	}
}

func Read(r io.Reader) (*File, error) {
	f := &File{Settings: DefaultSettings()}
	if err := json.NewDecoder(r).Decode(f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	for _, b := range f.Data {
		if !b.Colour.Valid() {
			return nil, fmt.Errorf("body %s: %w", b.ID, ErrInvalidColour)
		}
	}
	return f, nil
}

func Write(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Read(fh)
}

func Save(path string, f *File) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// FromSystem captures the active bodies of sys.
func FromSystem(sys *gravity.System, polar bool) *File {
	p := sys.Params()
	s := DefaultSettings()
	s.G = p.G
	s.Dt = p.Dt
	s.Bound = int(p.Bound)
	s.Rand = Flag(p.Randomize)
	s.Polar = Flag(polar)
	s.Collide = Flag(p.Collisions)
	s.RF = p.RF
	s.VF = p.VF
	return &File{Settings: s, Data: sys.Snapshot()}
}

// Params overlays the file's settings on base, which supplies the values a
// model file does not carry.
func (f *File) Params(base gravity.Params) gravity.Params {
	base.G = f.Settings.G
	base.Dt = f.Settings.Dt
	base.Bound = float64(f.Settings.Bound)
	base.Randomize = bool(f.Settings.Rand)
	base.Collisions = bool(f.Settings.Collide)
	base.RF = f.Settings.RF
	base.VF = f.Settings.VF
	return base
}

// Restore builds a System holding the file's bodies.
func (f *File) Restore(base gravity.Params) *gravity.System {
	return gravity.Restore(f.Params(base), f.Data, bool(f.Settings.Polar))
}

// Config converts the file to a configuration. Bodies are written in polar
// form when the file says so.
func (f *File) Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Sim.G = f.Settings.G
	cfg.Sim.Dt = f.Settings.Dt
	cfg.Sim.Bound = float64(f.Settings.Bound)
	cfg.Sim.Randomize = bool(f.Settings.Rand)
	cfg.Obj.Polar = bool(f.Settings.Polar)
	cfg.Collision.AllowCollide = bool(f.Settings.Collide)
	cfg.Collision.RFrac = f.Settings.RF
	cfg.Collision.VFrac = f.Settings.VF

	cfg.Bodies = make([]config.BodyConfig, len(f.Data))
	for i, b := range f.Data {
		cfg.Bodies[i] = config.BodyFromSnapshot(b, cfg.Obj.Polar)
	}
	return cfg
}

// SettingsFromConfig returns the settings section describing cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	s.G = cfg.Sim.G
	s.Dt = cfg.Sim.Dt
	s.Bound = int(cfg.Sim.Bound)
	s.Rand = Flag(cfg.Sim.Randomize)
	s.Polar = Flag(cfg.Obj.Polar)
	s.Collide = Flag(cfg.Collision.AllowCollide)
	s.RF = cfg.Collision.RFrac
	s.VF = cfg.Collision.VFrac
	return s
}

// FromConfig builds a file from cfg's bodies. Radii left to be derived are
// resolved with AutoRadius.
func FromConfig(cfg *config.Config) (*File, error) {
	specs, err := cfg.BodySpecs()
	if err != nil {
		return nil, err
	}

	data := make([]gravity.BodySnapshot, len(specs))
	for i, sp := range specs {
		radius := sp.Radius
		if radius <= 0 {
			radius = gravity.AutoRadius(math.Abs(sp.Mass), cfg.Obj.RConst)
		}
		data[i] = gravity.BodySnapshot{
			ID:     sp.ID,
			Mass:   sp.Mass,
			Radius: radius,
			X:      sp.X,
			Y:      sp.Y,
			VX:     sp.VX,
			VY:     sp.VY,
			Colour: sp.Colour,
			Trail:  sp.Trail,
		}
	}
	return &File{Settings: SettingsFromConfig(cfg), Data: data}, nil
}
