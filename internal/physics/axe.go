package physics

import (
	"fmt"

	"github.com/san-kum/axesim/internal/dynamo"
)

// State indices.
const (
	X = iota
	Y
	Theta
	VX
	VY
	Omega
	StateDim
)

const (
	DefaultGravity      = 9.8
	DefaultMass         = 1.2
	DefaultHandleLength = 0.4
	DefaultHeadWidth    = 0.1
)

// StateLabels names the state components in index order.
var StateLabels = []string{"x", "y", "theta", "vx", "vy", "omega"}

// StateUnits gives the unit of each state component in index order.
var StateUnits = []string{"m", "m", "rad", "m/s", "m/s", "rad/s"}

type Axe struct {
	Gravity      float64
	Mass         float64
	HandleLength float64
	HeadWidth    float64
}

func NewAxe() *Axe {
	return &Axe{
		Gravity:      DefaultGravity,
		Mass:         DefaultMass,
		HandleLength: DefaultHandleLength,
		HeadWidth:    DefaultHeadWidth,
	}
}

func (a *Axe) StateDim() int { return StateDim }

// Derive returns (vx, vy, omega, 0, -g, 0). No drag and no coupling
// between spin and flight.
func (a *Axe) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[VX], x[VY], x[Omega], 0, -a.Gravity, 0}
}

// Inertia is the moment of inertia about the center, treating the axe as a
// uniform rod of the handle length.
func (a *Axe) Inertia() float64 {
	return a.Mass * a.HandleLength * a.HandleLength / 12.0
}

func (a *Axe) Energy(x dynamo.State) float64 {
	y, vx, vy, omega := x[Y], x[VX], x[VY], x[Omega]
	ke := 0.5 * a.Mass * (vx*vx + vy*vy)
	keRot := 0.5 * a.Inertia() * omega * omega
	pe := a.Mass * a.Gravity * y
	return ke + keRot + pe
}

// Exact returns the closed-form state at time t starting from x0.
func (a *Axe) Exact(x0 dynamo.State, t float64) dynamo.State {
	return dynamo.State{
		x0[X] + x0[VX]*t,
		x0[Y] + x0[VY]*t - 0.5*a.Gravity*t*t,
		x0[Theta] + x0[Omega]*t,
		x0[VX],
		x0[VY] - a.Gravity*t,
		x0[Omega],
	}
}

func (a *Axe) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":       a.Gravity,
		"mass":          a.Mass,
		"handle_length": a.HandleLength,
		"head_width":    a.HeadWidth,
	}
}

func (a *Axe) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		if value < 0 {
			return fmt.Errorf("%w: gravity must not be negative, got %g", dynamo.ErrParameterBounds, value)
		}
		a.Gravity = value
	case "mass":
		if value <= 0 {
			return fmt.Errorf("%w: mass must be positive, got %g", dynamo.ErrParameterBounds, value)
		}
		a.Mass = value
	case "handle_length":
		if value <= 0 {
			return fmt.Errorf("%w: handle length must be positive, got %g", dynamo.ErrParameterBounds, value)
		}
		a.HandleLength = value
	case "head_width":
		if value < 0 {
			return fmt.Errorf("%w: head width must not be negative, got %g", dynamo.ErrParameterBounds, value)
		}
		a.HeadWidth = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// StateIndex looks up a component by its label, e.g. "vy".
func StateIndex(label string) (int, error) {
	for i, l := range StateLabels {
		if l == label {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown state component: %s (want one of %v)", label, StateLabels)
}
