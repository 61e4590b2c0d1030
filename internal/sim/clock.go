package sim

import (
	"math/rand"
	"time"
)

// FixedClock reports the same interval for every frame.
type FixedClock struct {
	Interval time.Duration
}

func (c FixedClock) Next() time.Duration { return c.Interval }

// JitterClock draws frame times uniformly from interval·(1 ± spread). The
// sequence is reproducible for a given seed.
type JitterClock struct {
	interval time.Duration
	spread   float64
	rng      *rand.Rand
}

func NewJitterClock(interval time.Duration, spread float64, seed int64) *JitterClock {
	if spread < 0 {
		spread = -spread
	}
	if spread > 1 {
		spread = 1
	}
	return &JitterClock{
		interval: interval,
		spread:   spread,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (c *JitterClock) Seed(seed int64) { c.rng.Seed(seed) }

func (c *JitterClock) Next() time.Duration {
	f := 1 + c.spread*(2*c.rng.Float64()-1)
	return time.Duration(float64(c.interval) * f)
}

// WallClock measures real time elapsed between frames. The first frame has
// nothing to measure against and reports the nominal interval instead.
type WallClock struct {
	nominal time.Duration
	last    time.Time
	now     func() time.Time
}

func NewWallClock(nominal time.Duration) *WallClock {
	return &WallClock{nominal: nominal, now: time.Now}
}

// Mark records a frame at t and returns the time since the previous one.
func (c *WallClock) Mark(t time.Time) time.Duration {
	d := c.nominal
	if !c.last.IsZero() {
		d = t.Sub(c.last)
	}
	c.last = t
	return d
}

func (c *WallClock) Next() time.Duration { return c.Mark(c.now()) }
