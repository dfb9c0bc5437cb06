package physics

import "github.com/san-kum/axesim/internal/dynamo"

// GroundContact fires when the center of the axe falls to groundY. It is
// terminal: the flight ends there.
func GroundContact(groundY float64) dynamo.Event {
	return heightEvent{name: "ground", level: groundY, terminal: true}
}

// Apex marks the top of the arc, where vy changes sign.
func Apex() dynamo.Event {
	return apexEvent{}
}

type heightEvent struct {
	name     string
	level    float64
	terminal bool
}

func (h heightEvent) Name() string                            { return h.name }
func (h heightEvent) Value(x dynamo.State, t float64) float64 { return x[Y] - h.level }
func (h heightEvent) Terminal() bool                          { return h.terminal }

type apexEvent struct{}

func (apexEvent) Name() string                            { return "apex" }
func (apexEvent) Value(x dynamo.State, t float64) float64 { return x[VY] }
func (apexEvent) Terminal() bool                          { return false }
