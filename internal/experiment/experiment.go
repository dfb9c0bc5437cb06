package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/axesim/internal/config"
	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/logging"
	"github.com/san-kum/axesim/internal/physics"
)

// Experiment turns a config into a ready simulator for one throw.
type Experiment struct {
	cfg       *config.Config
	axe       *physics.Axe
	simulator *dynamo.Simulator
	log       *logging.Logger
}

func New(cfg *config.Config, log *logging.Logger) *Experiment {
	if log == nil {
		log = logging.Discard()
	}
	return &Experiment{cfg: cfg, log: log}
}

func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}

	axe := physics.NewAxe()
	for name, value := range e.cfg.GetAxeParams() {
		if err := axe.SetParam(name, value); err != nil {
			return err
		}
	}

	integrator, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.axe = axe
	e.simulator = dynamo.New(axe, integrator)
	for _, m := range reg.DefaultMetrics(axe) {
		e.simulator.AddMetric(m)
	}
	if e.cfg.StopAtGround {
		e.simulator.AddEvent(physics.GroundContact(e.cfg.GroundY))
	}
	e.simulator.AddEvent(physics.Apex())

	e.log.Debug("experiment ready",
		"integrator", e.cfg.Integrator,
		"adaptive", e.cfg.Adaptive,
		"stop_at_ground", e.cfg.StopAtGround,
		"mass", axe.Mass,
		"handle_length", axe.HandleLength,
	)
	return nil
}

func (e *Experiment) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Tolerance:     e.cfg.Tolerance,
		MaxDt:         e.cfg.MaxDt,
		MinDt:         e.cfg.MinDt,
		Adaptive:      e.cfg.Adaptive,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := dynamo.State(e.cfg.GetInitState())
	e.log.Info("run start", "x0", x0, "dt", e.cfg.Dt, "duration", e.cfg.Duration)

	result, err := e.simulator.Run(ctx, x0, e.SimConfig())
	if err != nil {
		e.log.Error("run failed", "error", err)
		return result, err
	}

	d := result.Diagnostics
	e.log.Info("run done",
		"status", d.Status.String(),
		"samples", len(result.States),
		"evaluations", d.Evaluations,
		"accepted", d.StepsAccepted,
		"rejected", d.StepsRejected,
		"events", len(d.Events),
	)
	return result, nil
}

// Axe returns the model built by Setup, with the configured parameters.
func (e *Experiment) Axe() *physics.Axe {
	return e.axe
}

// GetSimulator returns the simulator built by Setup, for adding observers.
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}
