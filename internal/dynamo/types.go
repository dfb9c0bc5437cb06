package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Lerp returns s + frac*(other-s).
func (s State) Lerp(other State, frac float64) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + frac*(other[i]-s[i])
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator returns the new state together with the suggested
// size of the next step. On ErrStepRejected the state is nil and the
// suggested step should be used to retry.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Event is a scalar function of the state. The simulator records every
// crossing from a positive value to a non-positive one.
type Event interface {
	Name() string
	Value(x State, t float64) float64
	Terminal() bool
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      1.0,
		Tolerance:     1e-6,
		MaxDt:         0.1,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.MaxDt < 0 {
		return fmt.Errorf("%w: max dt must not be negative, got %g", ErrInvalidConfig, c.MaxDt)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
	}
	return nil
}

type Status int

const (
	StatusCompleted Status = iota
	StatusEvent
	StatusFailed
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusEvent:
		return "terminated by event"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type EventRecord struct {
	Name  string  `json:"name"`
	Time  float64 `json:"time"`
	State State   `json:"state"`
}

// Diagnostics describes how the solver got to the result.
type Diagnostics struct {
	Status        Status
	Message       string
	Evaluations   int
	StepsAccepted int
	StepsRejected int
	Events        []EventRecord
}

func (d Diagnostics) Success() bool {
	return d.Status == StatusCompleted || d.Status == StatusEvent
}

type Result struct {
	States      []State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	Diagnostics Diagnostics
}

// Final returns the last sample, or nil for an empty result.
func (r *Result) Final() (State, float64) {
	if len(r.States) == 0 {
		return nil, 0
	}
	n := len(r.States) - 1
	return r.States[n], r.Times[n]
}

// Column extracts state component i across the trajectory.
func (r *Result) Column(i int) []float64 {
	col := make([]float64, 0, len(r.States))
	for _, s := range r.States {
		if i < len(s) {
			col = append(col, s[i])
		}
	}
	return col
}
