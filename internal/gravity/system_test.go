package gravity_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravity/internal/gravity"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("System", func() {
	var params gravity.Params

	BeforeEach(func() {
		params = gravity.DefaultParams()
		params.G = 1
		params.Dt = 0.01
		params.TPDist = 0
	})

	It("normalises bound and calculation frequency", func() {
		params.Bound = -50
		params.CalcFrequency = -20
		sys := gravity.NewSystem(params)
		Expect(sys.Params().Bound).To(Equal(50.0))
		Expect(sys.Params().CalcFrequency).To(Equal(20.0))
	})

	It("counts steps and simulated time", func() {
		sys := gravity.NewSystem(params)
		gravity.NewBody(sys, gravity.BodySpec{Mass: 1})
		sys.Step(0.5)
		sys.Step(0.25)
		Expect(sys.StepCount()).To(Equal(2))
		Expect(sys.SimulatedTime()).To(Equal(0.75))
	})

	Context("when two touching bodies are at rest", func() {
		It("merges them into one body at the centre of mass", func() {
			params.RF = 1
			params.VF = 1
			sys := gravity.NewSystem(params)
			a := gravity.NewBody(sys, gravity.BodySpec{ID: "a", Mass: 10, Radius: 5})
			b := gravity.NewBody(sys, gravity.BodySpec{ID: "b", Mass: 20, X: 10, Radius: 5})

			sys.Step(params.Dt)

			active := sys.Active()
			Expect(active).To(HaveLen(1))
			merged := active[0]
			Expect(merged.Mass()).To(Equal(30.0))
			Expect(merged.Position().X).To(BeNumerically("~", 6.667, 1e-3))
			Expect(merged.Position().Y).To(Equal(0.0))
			Expect(merged.Velocity()).To(Equal(r2.Vec{}))
			Expect(merged.ID()).To(Equal("a+b"))
			Expect(sys.Collided()).To(ConsistOf(a, b))
		})

		It("does not integrate the merged body in the step that created it", func() {
			params.RF = 1
			sys := gravity.NewSystem(params)
			gravity.NewBody(sys, gravity.BodySpec{Mass: 1, VX: 3, Radius: 1})
			gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 1, VX: 3, Radius: 1})

			sys.Step(params.Dt)
			merged := sys.Active()[0]
			Expect(merged.Position().X).To(BeNumerically("~", 0.5, 1e-12))
			Expect(merged.Acceleration()).To(Equal(r2.Vec{}))

			sys.Step(params.Dt)
			Expect(merged.Position().X).To(BeNumerically("~", 0.5+params.Dt*3, 1e-12))
		})
	})

	Context("when a body starts outside the boundary", func() {
		It("retires it to escaped and never updates it again", func() {
			params.Bound = 100
			sys := gravity.NewSystem(params)
			far := gravity.NewBody(sys, gravity.BodySpec{ID: "far", Mass: 1, X: 150, VY: 1})
			gravity.NewBody(sys, gravity.BodySpec{ID: "near", Mass: 1, X: 10})

			sys.Step(params.Dt)
			Expect(sys.Escaped()).To(ConsistOf(far))
			Expect(sys.Active()).NotTo(ContainElement(far))

			pos := far.Position()
			for i := 0; i < 20; i++ {
				sys.Step(params.Dt)
			}
			Expect(sys.Active()).NotTo(ContainElement(far))
			Expect(sys.Escaped()).To(HaveLen(1))
			Expect(far.Position()).To(Equal(pos))
		})
	})

	Describe("leapfrog bootstrap", func() {
		It("kicks by half a step first and by full steps afterwards", func() {
			params.Collisions = false
			sys := gravity.NewSystem(params)
			a := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: -10, VY: 0.3})
			gravity.NewBody(sys, gravity.BodySpec{Mass: 50, X: 10, VY: -0.1})

			dt := params.Dt
			v0 := a.Velocity()
			sys.Step(dt)
			acc := a.Acceleration()
			Expect(acc.X).To(BeNumerically(">", 0))
			Expect(a.Velocity().X).To(BeNumerically("~", v0.X+dt/2*acc.X, 1e-15))
			Expect(a.Velocity().Y).To(BeNumerically("~", v0.Y+dt/2*acc.Y, 1e-15))

			for i := 0; i < 3; i++ {
				v := a.Velocity()
				sys.Step(dt)
				acc = a.Acceleration()
				Expect(a.Velocity().X).To(BeNumerically("~", v.X+dt*acc.X, 1e-15))
				Expect(a.Velocity().Y).To(BeNumerically("~", v.Y+dt*acc.Y, 1e-15))
			}
		})
	})

	Describe("trails", func() {
		newOrbit := func(trail int) (*gravity.System, *gravity.Body) {
			params.Collisions = false
			sys := gravity.NewSystem(params)
			gravity.NewBody(sys, gravity.BodySpec{Mass: 1000, Trail: 3})
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 100, VY: 3, Trail: trail})
			return sys, b
		}

		It("never exceeds a positive cap", func() {
			sys, b := newOrbit(5)
			for i := 0; i < 50; i++ {
				sys.Step(params.Dt)
				Expect(b.Trail().Len()).To(BeNumerically("<=", 5))
			}
			Expect(b.Trail().Len()).To(Equal(5))
		})

		It("records nothing with a zero cap", func() {
			sys, b := newOrbit(0)
			for i := 0; i < 10; i++ {
				sys.Step(params.Dt)
			}
			Expect(b.Trail().Len()).To(Equal(1))
		})

		It("grows without limit with a negative cap", func() {
			sys, b := newOrbit(-1)
			for i := 0; i < 10; i++ {
				sys.Step(params.Dt)
			}
			Expect(b.Trail().Len()).To(Equal(11))
		})

		It("keeps the point counter equal to the retained points", func() {
			sys, _ := newOrbit(4)
			for i := 0; i < 25; i++ {
				sys.Step(params.Dt)
			}
			total := 0
			for _, b := range sys.Bodies() {
				total += b.Trail().Len()
			}
			Expect(sys.TrailPoints()).To(Equal(total))
		})
	})

	Describe("partitions", func() {
		It("stay disjoint and cover every body during chained collisions", func() {
			params.RF = 1
			params.Bound = 40
			sys := gravity.NewSystem(params)
			for i := 0; i < 12; i++ {
				gravity.NewBody(sys, gravity.BodySpec{
					Mass:   float64(1 + i%3),
					X:      float64(i%4)*3 - 4.5,
					Y:      float64(i/4)*3 - 3,
					VX:     float64(i%5) - 2,
					VY:     float64(i%3) - 1,
					Radius: 1,
				})
			}

			for step := 0; step < 200; step++ {
				sys.Step(params.Dt)

				seen := map[*gravity.Body]int{}
				for _, b := range sys.Active() {
					Expect(b.Status()).To(Equal(gravity.Active))
					Expect(b.HasCollided()).To(BeFalse())
					seen[b]++
				}
				for _, b := range sys.Collided() {
					Expect(b.Status()).To(Equal(gravity.Collided))
					seen[b]++
				}
				for _, b := range sys.Escaped() {
					Expect(b.Status()).To(Equal(gravity.Escaped))
					seen[b]++
				}
				Expect(seen).To(HaveLen(len(sys.Bodies())))
				for _, n := range seen {
					Expect(n).To(Equal(1))
				}
			}
			Expect(len(sys.Collided())).To(BeNumerically(">", 0))
		})

		It("compacts immediately when merging outside a step", func() {
			sys := gravity.NewSystem(params)
			a := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: -50})
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 50})

			c, err := a.Merge(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Active()).To(ConsistOf(c))
			active, collided, escaped := sys.Counts()
			Expect([]int{active, collided, escaped}).To(Equal([]int{1, 2, 0}))
		})
	})

	Describe("snapshots", func() {
		It("round-trip the persistable field set", func() {
			sys := gravity.NewSystem(params)
			gravity.NewBody(sys, gravity.BodySpec{ID: "x", Mass: 2.5, X: 1, Y: -2, VX: 0.5, VY: 0.25, Radius: 3, Trail: 60})
			gravity.NewBody(sys, gravity.BodySpec{ID: "y", Mass: 9, X: -7, Y: 4, Radius: 1, Trail: -1})

			snaps := sys.Snapshot()
			restored := gravity.Restore(params, snaps, false)
			Expect(restored.Snapshot()).To(Equal(snaps))
		})
	})

	It("finds bodies by id", func() {
		sys := gravity.NewSystem(params)
		b := gravity.NewBody(sys, gravity.BodySpec{ID: "sun", Mass: 1})
		found, ok := sys.Find("sun")
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(b))

		_, ok = sys.Find("moon")
		Expect(ok).To(BeFalse())
	})
})
