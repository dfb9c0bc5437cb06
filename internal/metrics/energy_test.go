package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/physics"
)

func TestEnergyDriftExactFlight(t *testing.T) {
	axe := physics.NewAxe()
	m := NewEnergyDrift(axe)

	x0 := dynamo.State{0, 2, 2, 8, 4, -7}
	for _, tm := range []float64{0, 0.25, 0.5, 1.0} {
		m.Observe(axe.Exact(x0, tm), tm)
	}

	if m.Value() > 1e-12 {
		t.Errorf("exact trajectory should not drift, got %e", m.Value())
	}
}

func TestEnergyDriftDetectsChange(t *testing.T) {
	axe := physics.NewAxe()
	m := NewEnergyDrift(axe)

	x := dynamo.State{0, 2, 0, 8, 4, 0}
	m.Observe(x, 0)
	e0 := axe.Energy(x)

	x2 := dynamo.State{0, 3, 0, 8, 4, 0}
	m.Observe(x2, 0.1)
	want := math.Abs(axe.Energy(x2)-e0) / e0

	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift %f, got %f", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

type plain struct{}

func (plain) Derive(x dynamo.State, t float64) dynamo.State { return x }
func (plain) StateDim() int                                 { return 1 }

func TestEnergyDriftWithoutHamiltonian(t *testing.T) {
	m := NewEnergyDrift(plain{})
	m.Observe(dynamo.State{1}, 0)
	m.Observe(dynamo.State{5}, 1)
	if m.Value() != 0 {
		t.Errorf("expected zero without energy function, got %f", m.Value())
	}
}
