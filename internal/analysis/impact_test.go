package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/integrators"
	"github.com/san-kum/axesim/internal/physics"
)

func simulate(t *testing.T, x0 dynamo.State, duration float64) *dynamo.Result {
	t.Helper()
	sim := dynamo.New(physics.NewAxe(), integrators.NewRK4())
	cfg := dynamo.DefaultConfig()
	cfg.Duration = duration
	result, err := sim.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return result
}

func TestPredictImpactTime(t *testing.T) {
	tests := []struct {
		name    string
		x0      dynamo.State
		g       float64
		groundY float64
		want    float64
		wantErr bool
	}{
		{"dropped", dynamo.State{0, 4.9, 0, 0, 0, 0}, 9.8, 0, 1, false},
		{"thrown up", dynamo.State{0, 0, 0, 0, 9.8, 0}, 9.8, 0, 2, false},
		{"raised ground", dynamo.State{0, 2, 0, 0, 0, 0}, 9.8, 2, 0, false},
		{"no gravity falling", dynamo.State{0, 3, 0, 0, -1.5, 0}, 0, 0, 2, false},
		{"no gravity rising", dynamo.State{0, 3, 0, 0, 1, 0}, 0, 0, 0, true},
		{"no gravity below ground", dynamo.State{0, -1, 0, 0, -2, 0}, 0, 0, 0, true},
		{"never reaches", dynamo.State{0, 0, 0, 0, 1, 0}, 9.8, 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PredictImpactTime(tt.x0, tt.g, tt.groundY)
			if tt.wantErr {
				if !errors.Is(err, ErrNoImpact) {
					t.Fatalf("expected ErrNoImpact, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestFindImpactMatchesPrediction(t *testing.T) {
	x0 := dynamo.State{0, 2, 2, 8, 4, -7}
	result := simulate(t, x0, 1.5)

	imp, err := FindImpact(result, 0)
	if err != nil {
		t.Fatal(err)
	}

	want, err := PredictImpactTime(x0, physics.DefaultGravity, 0)
	if err != nil {
		t.Fatal(err)
	}

	// linear interpolation over a 0.01 s sample of a parabola
	if math.Abs(imp.Time-want) > 1e-3 {
		t.Errorf("impact at %f, predicted %f", imp.Time, want)
	}
	if math.Abs(imp.State[physics.X]-8*imp.Time) > 1e-9 {
		t.Errorf("x at impact %f, want %f", imp.State[physics.X], 8*imp.Time)
	}
	if imp.Angle <= -math.Pi || imp.Angle > math.Pi {
		t.Errorf("angle %f not wrapped", imp.Angle)
	}
	if math.Abs(imp.Revolutions-7*imp.Time/(2*math.Pi)) > 1e-9 {
		t.Errorf("unexpected revolutions %f", imp.Revolutions)
	}

	head := physics.NewFrame(imp.State[physics.Theta]).Radial.Y() < 0
	if imp.BladeFirst != head {
		t.Errorf("blade first = %v, want %v", imp.BladeFirst, head)
	}
}

func TestFindImpactNone(t *testing.T) {
	result := simulate(t, dynamo.State{0, 2, 2, 8, 4, -7}, 0.5)
	if _, err := FindImpact(result, 0); !errors.Is(err, ErrNoImpact) {
		t.Errorf("expected ErrNoImpact, got %v", err)
	}
	if _, err := FindImpact(nil, 0); !errors.Is(err, ErrNoImpact) {
		t.Errorf("expected ErrNoImpact for nil result, got %v", err)
	}
}

func TestBladeFirst(t *testing.T) {
	// falls straight down with the head pointing down
	result := simulate(t, dynamo.State{0, 1, -math.Pi / 2, 0, 0, 0}, 1)
	imp, err := FindImpact(result, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !imp.BladeFirst {
		t.Error("expected blade first")
	}

	result = simulate(t, dynamo.State{0, 1, math.Pi / 2, 0, 0, 0}, 1)
	imp, err = FindImpact(result, 0)
	if err != nil {
		t.Fatal(err)
	}
	if imp.BladeFirst {
		t.Error("expected butt first")
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5, 2*math.Pi - 5},
		{10, 10 - 4*math.Pi},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("WrapAngle(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestPhasePortrait(t *testing.T) {
	result := simulate(t, dynamo.State{0, 2, 2, 8, 4, -7}, 1)

	portrait := NewPhasePortrait(result, physics.Y, physics.VY)
	if portrait == nil {
		t.Fatal("expected portrait")
	}
	if len(portrait.Points) != len(result.States) {
		t.Fatalf("expected %d points, got %d", len(result.States), len(portrait.Points))
	}
	if portrait.Points[0] != (Point{X: 2, Y: 4}) {
		t.Errorf("unexpected first point %+v", portrait.Points[0])
	}

	art := portrait.ToASCII(40, 10)
	if lines := strings.Split(strings.TrimRight(art, "\n"), "\n"); len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(art, "•") {
		t.Error("expected plotted points")
	}

	if NewPhasePortrait(result, 9, 0) != nil {
		t.Error("expected nil for out of range index")
	}
}

func TestSection(t *testing.T) {
	// theta rises from 0 at 7 rad/s and passes pi once
	result := simulate(t, dynamo.State{0, 2, 0, 8, 4, 7}, 1)

	section := NewSection(result, physics.Theta, math.Pi, physics.X, physics.Y)
	if section == nil || len(section.Points) != 1 {
		t.Fatalf("expected one crossing, got %+v", section)
	}
	wantT := math.Pi / 7
	if math.Abs(section.Times[0]-wantT) > 1e-9 {
		t.Errorf("crossing at %f, want %f", section.Times[0], wantT)
	}
	if math.Abs(section.Points[0].X-8*wantT) > 1e-9 {
		t.Errorf("x at crossing %f, want %f", section.Points[0].X, 8*wantT)
	}

	// spinning the other way: theta falls from 2 and passes 0 at 2/7
	back := simulate(t, dynamo.State{0, 2, 2, 8, 4, -7}, 1)
	section = NewSection(back, physics.Theta, 0, physics.X, physics.VY)
	if section == nil || len(section.Points) != 1 {
		t.Fatalf("expected one falling crossing, got %+v", section)
	}
	if math.Abs(section.Times[0]-2.0/7) > 1e-9 {
		t.Errorf("falling crossing at %f, want %f", section.Times[0], 2.0/7)
	}
	if !strings.Contains(section.ToASCII(20, 6), "•") {
		t.Error("expected the crossing in the drawing")
	}

	empty := NewSection(result, physics.Theta, 100, physics.X, physics.Y)
	if got := empty.ToASCII(10, 5); got != "No crossings detected" {
		t.Errorf("unexpected output %q", got)
	}
}
