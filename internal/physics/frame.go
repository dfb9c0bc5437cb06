package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/axesim/internal/dynamo"
)

// Frame is the body frame of the axe: Radial points along the handle toward
// the head, Tangential is Radial turned a quarter turn counter-clockwise.
type Frame struct {
	Radial     mgl64.Vec2
	Tangential mgl64.Vec2
}

func NewFrame(theta float64) Frame {
	radial := polarToCartesian(theta, 1)
	return Frame{Radial: radial, Tangential: perp(radial)}
}

func polarToCartesian(theta, rho float64) mgl64.Vec2 {
	return mgl64.Vec2{rho * math.Cos(theta), rho * math.Sin(theta)}
}

func perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v[1], v[0]}
}

// Pose holds the world coordinates needed to draw the axe.
type Pose struct {
	Center mgl64.Vec2
	Butt   mgl64.Vec2
	Head   mgl64.Vec2
	BladeA mgl64.Vec2
	BladeB mgl64.Vec2
}

// Pose places the handle centered on (x, y) along the radial direction, with
// the blade edge across the head along the tangential direction.
func (a *Axe) Pose(x dynamo.State) Pose {
	f := NewFrame(x[Theta])
	center := mgl64.Vec2{x[X], x[Y]}
	halfHandle := f.Radial.Mul(a.HandleLength / 2)
	halfBlade := f.Tangential.Mul(a.HeadWidth / 2)

	head := center.Add(halfHandle)
	return Pose{
		Center: center,
		Butt:   center.Sub(halfHandle),
		Head:   head,
		BladeA: head.Sub(halfBlade),
		BladeB: head.Add(halfBlade),
	}
}
