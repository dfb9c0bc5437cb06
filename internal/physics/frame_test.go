package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/physics"
)

var _ = Describe("Frame", func() {
	It("points along +x at theta = 0", func() {
		f := physics.NewFrame(0)
		Expect(f.Radial[0]).To(BeNumerically("~", 1, 1e-15))
		Expect(f.Radial[1]).To(BeNumerically("~", 0, 1e-15))
		Expect(f.Radial.Dot(f.Tangential)).To(BeNumerically("~", 0, 1e-15))
		Expect(f.Tangential[0]).To(BeNumerically("~", 0, 1e-15))
		Expect(f.Tangential[1]).To(BeNumerically("~", 1, 1e-15))
	})

	DescribeTable("is orthonormal",
		func(theta float64) {
			f := physics.NewFrame(theta)
			Expect(f.Radial.Len()).To(BeNumerically("~", 1, 1e-12))
			Expect(f.Tangential.Len()).To(BeNumerically("~", 1, 1e-12))
			Expect(f.Radial.Dot(f.Tangential)).To(BeNumerically("~", 0, 1e-12))
			// counter-clockwise: the 2D cross product is +1
			cross := f.Radial[0]*f.Tangential[1] - f.Radial[1]*f.Tangential[0]
			Expect(cross).To(BeNumerically("~", 1, 1e-12))
		},
		Entry("quarter turn", math.Pi/2),
		Entry("notebook angle", 2.0),
		Entry("negative", -7.0),
		Entry("many turns", 100.0),
	)
})

var _ = Describe("Pose", func() {
	var axe *physics.Axe

	BeforeEach(func() {
		axe = physics.NewAxe()
	})

	It("centers the handle on the state position", func() {
		p := axe.Pose(dynamo.State{1, 2, 0, 0, 0, 0})
		Expect(p.Center[0]).To(Equal(1.0))
		Expect(p.Center[1]).To(Equal(2.0))
		Expect(p.Head[0]).To(BeNumerically("~", 1+axe.HandleLength/2, 1e-12))
		Expect(p.Butt[0]).To(BeNumerically("~", 1-axe.HandleLength/2, 1e-12))
		Expect(p.BladeA[1]).To(BeNumerically("~", 2-axe.HeadWidth/2, 1e-12))
		Expect(p.BladeB[1]).To(BeNumerically("~", 2+axe.HeadWidth/2, 1e-12))
	})

	It("keeps its dimensions at any angle", func() {
		for _, theta := range []float64{0.3, 2, -7, 12.5} {
			p := axe.Pose(dynamo.State{0, 0, theta, 0, 0, 0})
			Expect(p.Head.Sub(p.Butt).Len()).To(BeNumerically("~", axe.HandleLength, 1e-12))
			Expect(p.BladeB.Sub(p.BladeA).Len()).To(BeNumerically("~", axe.HeadWidth, 1e-12))
			Expect(p.Head.Sub(p.Butt).Dot(p.BladeB.Sub(p.BladeA))).To(BeNumerically("~", 0, 1e-12))
		}
	})
})
