package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// timeEpsilon absorbs rounding when the last step lands on the duration.
	timeEpsilon        = 1e-12
	eventTolerance     = 1e-12
	maxEventIterations = 50
	floorMinDt         = 1e-12
	// maxPrealloc caps the sample buffer; longer runs grow it by append.
	maxPrealloc = 1 << 16
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
	events     []Event
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		events:     make([]Event, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) AddEvent(e Event)       { s.events = append(s.events, e) }

// countingSystem counts derivative evaluations for the diagnostics.
type countingSystem struct {
	System
	calls int
}

func (c *countingSystem) Derive(x State, t float64) State {
	c.calls++
	return c.System.Derive(x, t)
}

// Run integrates the system from x0 over [0, cfg.Duration] and returns the
// sampled trajectory. On failure the partial trajectory is returned along
// with the error.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d values, system expects %d",
			ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	dyn := &countingSystem{System: s.dyn}
	if dx := dyn.Derive(x0, 0); len(dx) != len(x0) {
		return nil, fmt.Errorf("%w: derivative has %d values, state has %d",
			ErrDimensionMismatch, len(dx), len(x0))
	}

	capacity := maxPrealloc
	if n := math.Ceil(cfg.Duration/math.Max(cfg.Dt, cfg.MaxDt)) + 1; n < maxPrealloc {
		capacity = int(n)
	}
	result := &Result{
		States:  make([]State, 0, capacity),
		Times:   make([]float64, 0, capacity),
		Metrics: make(map[string]float64),
	}
	diag := &result.Diagnostics

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	s.record(result, x, t)

	prevEvents := s.eventValues(x, t)
	initialEnergy := s.computeEnergy(x)

	dt := cfg.Dt
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		dt = cfg.MaxDt
	}

	status := StatusCompleted
	var runErr error
	step := 0

loop:
	for cfg.Duration-t > timeEpsilon {
		select {
		case <-ctx.Done():
			status = StatusCanceled
			runErr = ctx.Err()
			break loop
		default:
		}

		var newX State
		var h float64

		if cfg.Adaptive {
			var next float64
			var err error
			h = dt
			if rem := cfg.Duration - t; h >= rem || rem-h < cfg.MinDt {
				h = rem
			}
			newX, h, next, err = s.adaptiveStep(dyn, x, t, h, cfg, diag)
			if err != nil {
				status = StatusFailed
				runErr = &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
				break loop
			}
			dt = next
		} else {
			target := math.Min(float64(step+1)*dt, cfg.Duration)
			if cfg.Duration-target < dt*1e-9 {
				target = cfg.Duration
			}
			h = target - t
			newX = s.integrator.Step(dyn, x, t, h)
		}

		newT := t + h
		if cfg.Duration-newT < timeEpsilon {
			newT = cfg.Duration
		}
		step++

		if cfg.ValidateState && !newX.IsValid() {
			status = StatusFailed
			runErr = &SimulationError{Step: step, Time: newT, State: newX, Wrapped: ErrInvalidState}
			break
		}
		diag.StepsAccepted++

		curEvents := s.eventValues(newX, newT)
		if rec, terminal := s.detectEvents(dyn, prevEvents, curEvents, x, t, newT-t); len(rec) > 0 {
			diag.Events = append(diag.Events, rec...)
			if terminal != nil {
				x, t = terminal.State, terminal.Time
				s.record(result, x, t)
				status = StatusEvent
				break
			}
		}

		x = newX
		t = newT
		prevEvents = curEvents
		s.record(result, x, t)
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	diag.Status = status
	diag.Evaluations = dyn.calls
	if runErr != nil {
		diag.Message = runErr.Error()
	} else {
		diag.Message = status.String()
	}

	return result, runErr
}

func (s *Simulator) record(result *Result, x State, t float64) {
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) computeEnergy(x State) float64 {
	if h, ok := s.dyn.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

func (s *Simulator) eventValues(x State, t float64) []float64 {
	if len(s.events) == 0 {
		return nil
	}
	vals := make([]float64, len(s.events))
	for i, ev := range s.events {
		vals[i] = ev.Value(x, t)
	}
	return vals
}

// detectEvents returns the crossings inside a step ordered by time, and the
// earliest terminal one if any. Crossings after a terminal one are dropped.
func (s *Simulator) detectEvents(dyn System, prev, cur []float64, x State, t, h float64) ([]EventRecord, *EventRecord) {
	var records []EventRecord
	terminal := make(map[int]bool)
	for i, ev := range s.events {
		if !(prev[i] > 0 && cur[i] <= 0) {
			continue
		}
		xe, te := s.locate(dyn, ev, x, t, h, prev[i], cur[i])
		if ev.Terminal() {
			terminal[len(records)] = true
		}
		records = append(records, EventRecord{Name: ev.Name(), Time: te, State: xe})
	}
	if len(records) == 0 {
		return nil, nil
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return records[idx[a]].Time < records[idx[b]].Time })

	ordered := make([]EventRecord, 0, len(records))
	for _, i := range idx {
		ordered = append(ordered, records[i])
		if terminal[i] {
			last := ordered[len(ordered)-1]
			return ordered, &last
		}
	}
	return ordered, nil
}

// locate finds the crossing time inside [t, t+h] by regula falsi, re-stepping
// the integrator from x for each trial sub-step.
func (s *Simulator) locate(dyn System, ev Event, x State, t, h, f0, f1 float64) (State, float64) {
	lo, hi := 0.0, h
	flo, fhi := f0, f1
	tau := hi
	var xe State

	for i := 0; i < maxEventIterations; i++ {
		tau = lo + flo*(hi-lo)/(flo-fhi)
		xe = s.integrator.Step(dyn, x, t, tau)
		f := ev.Value(xe, t+tau)
		if math.Abs(f) < eventTolerance || hi-lo < eventTolerance {
			break
		}
		if f > 0 {
			lo, flo = tau, f
			fhi /= 2
		} else {
			hi, fhi = tau, f
			flo /= 2
		}
	}
	return xe, t + tau
}

func (s *Simulator) adaptiveStep(dyn System, x State, t, h float64, cfg Config, diag *Diagnostics) (State, float64, float64, error) {
	minDt := cfg.MinDt
	if minDt <= 0 {
		minDt = floorMinDt
	}
	adaptive, ok := s.integrator.(AdaptiveIntegrator)

	for {
		if h < minDt {
			return nil, h, 0, ErrStepTooSmall
		}

		var newX State
		var next float64
		var err error
		if ok {
			newX, next, err = adaptive.StepAdaptive(dyn, x, t, h, cfg.Tolerance)
		} else {
			newX, next, err = stepDoubling(s.integrator, dyn, x, t, h, cfg.Tolerance)
		}

		if errors.Is(err, ErrStepRejected) {
			diag.StepsRejected++
			h = next
			continue
		}
		if err != nil {
			return nil, h, 0, err
		}

		if cfg.MaxDt > 0 && next > cfg.MaxDt {
			next = cfg.MaxDt
		}
		return newX, h, next, nil
	}
}

// stepDoubling estimates the local error of a fixed-step integrator by
// comparing one full step against two half steps.
func stepDoubling(integ Integrator, dyn System, x State, t, h, tol float64) (State, float64, error) {
	x1 := integ.Step(dyn, x, t, h)
	xHalf := integ.Step(dyn, x, t, h/2)
	x2 := integ.Step(dyn, xHalf, t+h/2, h/2)

	errEst := x1.Sub(x2).Norm()
	if errEst > tol {
		return nil, h / 2, ErrStepRejected
	}

	next := h
	if errEst < tol/10 {
		next = h * 2
	}
	return x2, next, nil
}
