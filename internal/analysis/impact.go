package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/physics"
)

var ErrNoImpact = errors.New("no ground impact")

// contactTolerance accepts a sample left just above the ground by a
// terminal ground event.
const contactTolerance = 1e-9

type Impact struct {
	Time  float64
	State dynamo.State
	// Angle is theta wrapped into (-pi, pi].
	Angle       float64
	Revolutions float64
	// BladeFirst is true when the head is lower than the butt at contact.
	BladeFirst bool
}

// FindImpact returns the first falling crossing of y through groundY.
func FindImpact(result *dynamo.Result, groundY float64) (*Impact, error) {
	if result == nil || len(result.States) < 2 {
		return nil, ErrNoImpact
	}

	theta0 := result.States[0][physics.Theta]
	for i := 1; i < len(result.States); i++ {
		prev, cur := result.States[i-1], result.States[i]
		h0 := prev[physics.Y] - groundY
		h1 := cur[physics.Y] - groundY
		if !(h0 > contactTolerance && h1 <= contactTolerance) {
			continue
		}

		frac := 1.0
		if h1 < 0 {
			frac = h0 / (h0 - h1)
		}
		s := prev.Lerp(cur, frac)
		t := result.Times[i-1] + frac*(result.Times[i]-result.Times[i-1])

		return &Impact{
			Time:        t,
			State:       s,
			Angle:       WrapAngle(s[physics.Theta]),
			Revolutions: math.Abs(s[physics.Theta]-theta0) / (2 * math.Pi),
			BladeFirst:  physics.NewFrame(s[physics.Theta]).Radial.Y() < 0,
		}, nil
	}
	return nil, ErrNoImpact
}

// PredictImpactTime solves y0 + vy*t - g*t^2/2 = groundY for the latest
// non-negative root.
func PredictImpactTime(x0 dynamo.State, g, groundY float64) (float64, error) {
	h := x0[physics.Y] - groundY
	vy := x0[physics.VY]

	if g == 0 {
		if vy >= 0 {
			return 0, ErrNoImpact
		}
		t := -h / vy
		if t < 0 {
			return 0, ErrNoImpact
		}
		return t, nil
	}

	disc := vy*vy + 2*g*h
	if disc < 0 {
		return 0, ErrNoImpact
	}
	t := (vy + math.Sqrt(disc)) / g
	if t < 0 {
		return 0, ErrNoImpact
	}
	return t, nil
}

func WrapAngle(theta float64) float64 {
	a := math.Mod(theta+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
