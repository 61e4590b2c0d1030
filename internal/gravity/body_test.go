package gravity_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravity/internal/gravity"
	"github.com/san-kum/gravity/internal/vecmath"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Body", func() {
	var (
		params gravity.Params
		sys    *gravity.System
	)

	BeforeEach(func() {
		params = gravity.DefaultParams()
		params.G = 1
		params.Collisions = false
		sys = gravity.NewSystem(params)
	})

	Describe("construction", func() {
		It("registers itself as active", func() {
			b := gravity.NewBody(sys, gravity.BodySpec{ID: "a", Mass: 1})
			Expect(sys.Active()).To(ConsistOf(b))
			Expect(b.Status()).To(Equal(gravity.Active))
			Expect(b.HasCollided()).To(BeFalse())
		})

		It("normalises a negative mass to its absolute value", func() {
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: -5})
			Expect(b.Mass()).To(Equal(5.0))
		})

		It("derives the radius from mass when none is given", func() {
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: 81})
			Expect(b.Radius()).To(Equal(3.0))

			small := gravity.NewBody(sys, gravity.BodySpec{Mass: 1})
			Expect(small.Radius()).To(Equal(1.0))
		})

		It("keeps an explicit radius", func() {
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: 81, Radius: 7})
			Expect(b.Radius()).To(Equal(7.0))
		})

		It("numbers bodies without an id by creation order", func() {
			a := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: -10})
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 10})
			Expect(a.ID()).To(Equal("1"))
			Expect(b.ID()).To(Equal("2"))
		})
	})

	Describe("Force", func() {
		It("follows the inverse square law along each axis", func() {
			a := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 0, Y: 0})
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: 8, X: 3, Y: -4})

			f := a.Force(b)
			Expect(f.X).To(BeNumerically("~", 8.0*3/125, 1e-12))
			Expect(f.Y).To(BeNumerically("~", -8.0*4/125, 1e-12))

			g := b.Force(a)
			Expect(g.X).To(BeNumerically("~", -1.0*3/125, 1e-12))
			Expect(g.Y).To(BeNumerically("~", 1.0*4/125, 1e-12))
		})

		It("nudges exactly coinciding bodies and returns zero", func() {
			var events []gravity.Event
			sys.AddObserver(gravity.ObserverFunc(func(e gravity.Event) {
				events = append(events, e)
			}))

			a := gravity.NewBody(sys, gravity.BodySpec{ID: "a", Mass: 1, X: 5, Y: 5, VX: 2, VY: 3})
			b := gravity.NewBody(sys, gravity.BodySpec{ID: "b", Mass: 1, X: 5, Y: 5, VX: 2, VY: 3})

			var f r2.Vec
			Expect(func() { f = a.Force(b) }).NotTo(Panic())
			Expect(f).To(Equal(r2.Vec{}))
			Expect(a.Velocity()).To(Equal(r2.Vec{X: 3, Y: 3}))
			Expect(b.Velocity()).To(Equal(r2.Vec{X: 2, Y: 4}))

			Expect(events).NotTo(BeEmpty())
			last := events[len(events)-1]
			Expect(last.Kind).To(Equal(gravity.EventOverlap))
			Expect(last.Others).To(Equal([]string{"b"}))
		})

		It("leaves velocities alone when coinciding bodies move differently", func() {
			a := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, VX: 1})
			b := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, VX: -1})

			Expect(a.Force(b)).To(Equal(r2.Vec{}))
			Expect(a.Velocity()).To(Equal(r2.Vec{X: 1}))
			Expect(b.Velocity()).To(Equal(r2.Vec{X: -1}))
		})

		It("survives a full step with coinciding bodies", func() {
			gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 1, Y: 1})
			gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 1, Y: 1})

			Expect(func() { sys.Step(params.Dt) }).NotTo(Panic())
			Expect(sys.StepCount()).To(Equal(1))
		})
	})

	Describe("Merge", func() {
		var a, b *gravity.Body

		BeforeEach(func() {
			params.VF = 0.5
			params.AutoRadius = false
			sys = gravity.NewSystem(params)
			a = gravity.NewBody(sys, gravity.BodySpec{
				ID: "a", Mass: 3, X: 1, Y: 2, VX: 4, VY: -1,
				Colour: vecmath.Colour{1, 0, 0, 1}, Radius: 2, Trail: 10,
			})
			b = gravity.NewBody(sys, gravity.BodySpec{
				ID: "b", Mass: 7, X: -3, Y: 5, VX: -2, VY: 6,
				Colour: vecmath.Colour{0, 0, 1, 0.5}, Radius: 4, Trail: 40,
			})
		})

		It("conserves mass and places the product at the centre of mass", func() {
			c, err := a.Merge(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Mass()).To(Equal(10.0))
			Expect(c.Position().X).To(BeNumerically("~", (3*1.0+7*-3.0)/10, 1e-12))
			Expect(c.Position().Y).To(BeNumerically("~", (3*2.0+7*5.0)/10, 1e-12))
		})

		It("scales the combined momentum by VF", func() {
			c, err := a.Merge(b)
			Expect(err).NotTo(HaveOccurred())
			px := 0.5 * (3*4.0 + 7*-2.0)
			py := 0.5 * (3*-1.0 + 7*6.0)
			Expect(c.Velocity().X * c.Mass()).To(BeNumerically("~", px, 1e-12))
			Expect(c.Velocity().Y * c.Mass()).To(BeNumerically("~", py, 1e-12))
		})

		It("blends colours by mass and keeps the larger radius and trail cap", func() {
			c, err := a.Merge(b)
			Expect(err).NotTo(HaveOccurred())
			col := c.Colour()
			Expect(col[0]).To(BeNumerically("~", 0.3, 1e-12))
			Expect(col[1]).To(BeNumerically("~", 0, 1e-12))
			Expect(col[2]).To(BeNumerically("~", 0.7, 1e-12))
			Expect(col[3]).To(BeNumerically("~", 0.65, 1e-12))
			Expect(c.Radius()).To(Equal(4.0))
			Expect(c.Trail().Cap()).To(Equal(40))
		})

		It("derives the radius from the new mass with auto radius on", func() {
			params.AutoRadius = true
			params.RConst = 1
			sys = gravity.NewSystem(params)
			x := gravity.NewBody(sys, gravity.BodySpec{Mass: 20, X: -1})
			y := gravity.NewBody(sys, gravity.BodySpec{Mass: 16, X: 1})

			c, err := x.Merge(y)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Radius()).To(Equal(6.0))
		})

		It("names the product after both parents and retires them", func() {
			c, err := a.Merge(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID()).To(Equal("a+b"))
			Expect(a.HasCollided()).To(BeTrue())
			Expect(b.HasCollided()).To(BeTrue())
			Expect(sys.Active()).To(ConsistOf(c))
			Expect(sys.Collided()).To(ConsistOf(a, b))
		})

		It("reports state changes in order", func() {
			var kinds []gravity.EventKind
			sys.AddObserver(gravity.ObserverFunc(func(e gravity.Event) {
				kinds = append(kinds, e.Kind)
			}))

			_, err := a.Merge(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(kinds).To(Equal([]gravity.EventKind{
				gravity.EventCollided,
				gravity.EventCollided,
				gravity.EventCreated,
				gravity.EventMerged,
			}))
		})

		It("refuses bodies that already collided", func() {
			_, err := a.Merge(b)
			Expect(err).NotTo(HaveOccurred())

			other := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, X: 100})
			_, err = a.Merge(other)
			Expect(err).To(MatchError(gravity.ErrAlreadyCollided))

			var be *gravity.BodyError
			Expect(err).To(BeAssignableToTypeOf(be))
		})

		It("refuses bodies that escaped", func() {
			far := gravity.NewBody(sys, gravity.BodySpec{ID: "far", Mass: 1, X: 2 * params.Bound})
			far.Update(params.Dt)
			Expect(far.Status()).To(Equal(gravity.Escaped))

			_, err := a.Merge(far)
			Expect(err).To(MatchError(gravity.ErrRetired))
			var be *gravity.BodyError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Body).To(Equal("far"))
			Expect(sys.Active()).To(ConsistOf(a, b))
		})

		It("refuses to merge a body with itself", func() {
			_, err := a.Merge(a)
			Expect(err).To(MatchError(gravity.ErrSelfMerge))
		})

		It("refuses bodies from another system", func() {
			foreign := gravity.NewBody(gravity.NewSystem(params), gravity.BodySpec{Mass: 1})
			_, err := a.Merge(foreign)
			Expect(err).To(MatchError(gravity.ErrForeignBody))
			Expect(sys.Active()).To(ConsistOf(a, b))
		})
	})

	Describe("String", func() {
		It("shows position in polar form when asked", func() {
			b := gravity.NewBody(sys, gravity.BodySpec{ID: "p", Mass: 1, X: 0, Y: 2, Polar: true})
			Expect(b.String()).To(ContainSubstring("<p>"))
			Expect(b.String()).To(ContainSubstring("Position (r, θ) : (2, 90)"))
		})

		It("marks escaped bodies", func() {
			params.Bound = 1
			sys = gravity.NewSystem(params)
			b := gravity.NewBody(sys, gravity.BodySpec{ID: "far", Mass: 1, X: 5})
			sys.Step(params.Dt)
			Expect(b.String()).To(ContainSubstring("<- Escaped ->"))
		})
	})

	It("keeps non-finite state out of the active set", func() {
		var kinds []gravity.EventKind
		sys.AddObserver(gravity.ObserverFunc(func(e gravity.Event) { kinds = append(kinds, e.Kind) }))

		b := gravity.NewBody(sys, gravity.BodySpec{Mass: 1, VX: math.MaxFloat64})
		sys.Step(10)

		Expect(b.Status()).To(Equal(gravity.Escaped))
		Expect(sys.Active()).To(BeEmpty())
		Expect(sys.Escaped()).To(ConsistOf(b))
		Expect(kinds).To(ContainElement(gravity.EventOverflow))
	})
})
