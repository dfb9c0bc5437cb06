package physics_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/integrators"
	"github.com/san-kum/axesim/internal/physics"
)

var _ = Describe("Axe", func() {
	var axe *physics.Axe

	BeforeEach(func() {
		axe = physics.NewAxe()
	})

	It("has a six-component state", func() {
		Expect(axe.StateDim()).To(Equal(6))
		Expect(physics.StateLabels).To(HaveLen(6))
		Expect(physics.StateUnits).To(HaveLen(6))
	})

	DescribeTable("derivative depends on the state only through the velocities",
		func(x dynamo.State) {
			dx := axe.Derive(x, 0)
			Expect(dx).To(HaveLen(6))
			Expect(dx[physics.X]).To(Equal(x[physics.VX]))
			Expect(dx[physics.Y]).To(Equal(x[physics.VY]))
			Expect(dx[physics.Theta]).To(Equal(x[physics.Omega]))
			Expect(dx[physics.VX]).To(BeZero())
			Expect(dx[physics.VY]).To(Equal(-axe.Gravity))
			Expect(dx[physics.Omega]).To(BeZero())
		},
		Entry("at rest", dynamo.State{0, 0, 0, 0, 0, 0}),
		Entry("notebook throw", dynamo.State{0, 2, 2, 8, 4, -7}),
		Entry("upside down and falling", dynamo.State{-3, 10, 3.5, -1, -20, 12}),
		Entry("large values", dynamo.State{1e6, -1e6, 1e3, 1e4, -1e4, 1e2}),
	)

	It("uses the configured gravity", func() {
		axe.Gravity = 1.62
		Expect(axe.Derive(dynamo.State{0, 0, 0, 0, 0, 0}, 0)[physics.VY]).To(Equal(-1.62))
	})

	Describe("integrated flight", func() {
		x0 := dynamo.State{0, 2, 2, 8, 4, -7}

		It("follows x = 8t, vy = 4 - 9.8t, theta = 2 - 7t", func() {
			sim := dynamo.New(axe, integrators.NewRK4())
			cfg := dynamo.DefaultConfig()
			cfg.Dt = 0.01
			cfg.Duration = 1.0

			result, err := sim.Run(context.Background(), x0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.States).To(HaveLen(101))

			for i, s := range result.States {
				t := result.Times[i]
				Expect(s[physics.X]).To(BeNumerically("~", 8*t, 1e-9))
				Expect(s[physics.VY]).To(BeNumerically("~", 4-9.8*t, 1e-9))
				Expect(s[physics.Theta]).To(BeNumerically("~", 2-7*t, 1e-9))
				Expect(s[physics.VX]).To(Equal(8.0))
				Expect(s[physics.Omega]).To(Equal(-7.0))
			}
		})

		It("matches the closed-form solution", func() {
			sim := dynamo.New(axe, integrators.NewRK45())
			cfg := dynamo.DefaultConfig()
			cfg.Adaptive = true
			cfg.Duration = 1.0

			result, err := sim.Run(context.Background(), x0, cfg)
			Expect(err).NotTo(HaveOccurred())

			for i, s := range result.States {
				want := axe.Exact(x0, result.Times[i])
				for j := range want {
					Expect(s[j]).To(BeNumerically("~", want[j], 1e-9))
				}
			}
		})

		It("conserves energy", func() {
			start := axe.Energy(x0)
			for _, t := range []float64{0.1, 0.5, 1.0, 2.0} {
				Expect(axe.Energy(axe.Exact(x0, t))).To(BeNumerically("~", start, 1e-9))
			}
		})

		It("stops at the ground", func() {
			sim := dynamo.New(axe, integrators.NewRK4())
			sim.AddEvent(physics.GroundContact(0))
			sim.AddEvent(physics.Apex())
			cfg := dynamo.DefaultConfig()
			cfg.Duration = 5

			result, err := sim.Run(context.Background(), x0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Diagnostics.Status).To(Equal(dynamo.StatusEvent))

			events := result.Diagnostics.Events
			Expect(events).To(HaveLen(2))
			Expect(events[0].Name).To(Equal("apex"))
			Expect(events[0].Time).To(BeNumerically("~", 4/9.8, 1e-6))
			Expect(events[1].Name).To(Equal("ground"))
			Expect(events[1].State[physics.Y]).To(BeNumerically("~", 0, 1e-9))

			last, _ := result.Final()
			Expect(last[physics.Y]).To(BeNumerically("~", 0, 1e-9))
		})
	})

	Describe("parameters", func() {
		It("round-trips through SetParam", func() {
			Expect(axe.SetParam("mass", 0.8)).To(Succeed())
			Expect(axe.SetParam("handle_length", 0.5)).To(Succeed())
			Expect(axe.GetParams()).To(HaveKeyWithValue("mass", 0.8))
			Expect(axe.GetParams()).To(HaveKeyWithValue("handle_length", 0.5))
		})

		DescribeTable("rejects values out of bounds",
			func(name string, value float64) {
				Expect(axe.SetParam(name, value)).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero mass", "mass", 0.0),
			Entry("negative handle", "handle_length", -0.1),
			Entry("negative gravity", "gravity", -9.8),
			Entry("negative head width", "head_width", -1.0),
		)

		It("rejects unknown names", func() {
			Expect(axe.SetParam("drag", 0.1)).To(MatchError(ContainSubstring("unknown param")))
		})
	})

	Describe("state labels", func() {
		DescribeTable("resolve to indices",
			func(label string, want int) {
				Expect(physics.StateIndex(label)).To(Equal(want))
			},
			Entry("x", "x", physics.X),
			Entry("theta", "theta", physics.Theta),
			Entry("omega", "omega", physics.Omega),
		)

		It("rejects unknown labels", func() {
			_, err := physics.StateIndex("z")
			Expect(err).To(MatchError(ContainSubstring("unknown state component")))
		})
	})
})
