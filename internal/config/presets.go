package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"binary": preset(func(c *Config) {
		c.Bodies = []BodyConfig{
			{ID: "A", Colour: "#ffb347", Mass: 100, Trail: 300, Pos: [2]float64{-20, 0}, Vel: [2]float64{0, -2.5}},
			{ID: "B", Colour: "#6ca0dc", Mass: 100, Trail: 300, Pos: [2]float64{20, 0}, Vel: [2]float64{0, 2.5}},
		}
	}),
	"sun-earth": preset(func(c *Config) {
		c.Obj.Polar = true
		c.AutoOrbit = "sun"
		c.Run.Steps = 10000
		c.Bodies = []BodyConfig{
			{ID: "sun", Colour: "#fdb813", Mass: 10000, Radius: 10},
			{ID: "earth", Colour: "#2e86c1", Mass: 1, Radius: 2, Trail: 500, Pos: [2]float64{200, 90}},
		}
	}),
	"collision": preset(func(c *Config) {
		c.Run.Steps = 3000
		c.Bodies = []BodyConfig{
			{ID: "left", Colour: "#e74c3c", Mass: 50, Trail: 100, Pos: [2]float64{-50, 0}, Vel: [2]float64{5, 0}},
			{ID: "right", Colour: "#3498db", Mass: 30, Trail: 100, Pos: [2]float64{50, 0}, Vel: [2]float64{-5, 0}},
		}
	}),
	"three-body": preset(func(c *Config) {
		c.AutoOrbit = "star"
		c.Run.Steps = 20000
		c.Run.RecordEvery = 20
		c.Bodies = []BodyConfig{
			{ID: "star", Colour: "#fff3b0", Mass: 5000, Radius: 8},
			{ID: "inner", Colour: "#e67e22", Mass: 2, Trail: 200, Pos: [2]float64{100, 0}},
			{ID: "middle", Colour: "#27ae60", Mass: 5, Trail: 300, Pos: [2]float64{0, -150}},
			{ID: "outer", Colour: "#8e44ad", Mass: 10, Trail: 400, Pos: [2]float64{-250, 0}},
		}
	}),
	"escape": preset(func(c *Config) {
		c.Sim.Bound = 500
		c.Run.Steps = 4000
		c.Bodies = []BodyConfig{
			{ID: "planet", Colour: "#5d6d7e", Mass: 1000, Radius: 6},
			{ID: "satellite", Colour: "#f4d03f", Mass: 1, Radius: 1, Trail: -1, Pos: [2]float64{50, 0}, Vel: [2]float64{0, 20}},
		}
	}),
	// Chenciner and Montgomery's choreography, scaled to masses of 10^4
	// and lengths of 10^2 at G = 1.
	"figure-eight": preset(func(c *Config) {
		c.Sim.G = 1
		c.Collision.AllowCollide = false
		c.Run.Steps = 6400
		c.Bodies = []BodyConfig{
			{ID: "1", Colour: "#ff6f61", Mass: 10000, Radius: 2, Trail: 400,
				Pos: [2]float64{-97.000436, 24.308753}, Vel: [2]float64{4.6620368, 4.3236573}},
			{ID: "2", Colour: "#6b5b95", Mass: 10000, Radius: 2, Trail: 400,
				Pos: [2]float64{97.000436, -24.308753}, Vel: [2]float64{4.6620368, 4.3236573}},
			{ID: "3", Colour: "#88b04b", Mass: 10000, Radius: 2, Trail: 400,
				Pos: [2]float64{0, 0}, Vel: [2]float64{-9.3240737, -8.6473146}},
		}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
