package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/integrators"
	"github.com/san-kum/axesim/internal/metrics"
	"github.com/san-kum/axesim/internal/physics"
)

var ErrUnknownIntegrator = errors.New("unknown integrator")

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics are the flight metrics reported for every run.
func (r *Registry) DefaultMetrics(axe *physics.Axe) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewApex(physics.Y),
		metrics.NewDistance(physics.X),
		metrics.NewRevolutions(physics.Theta),
		metrics.NewEnergyDrift(axe),
	}
}
