package plot

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/physics"
)

// ASCII renders state component idx against sample index as a terminal graph.
func ASCII(result *dynamo.Result, idx, width, height int) (string, error) {
	if result == nil || len(result.States) == 0 || idx < 0 || idx >= physics.StateDim {
		return "", ErrNoData
	}

	data := result.Column(idx)
	_, tEnd := result.Final()
	caption := fmt.Sprintf("%s (%s) over %.2f s", physics.StateLabels[idx], physics.StateUnits[idx], tEnd)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

// ASCIIPath renders y against x, resampled onto width evenly spaced x values.
func ASCIIPath(result *dynamo.Result, width, height int) (string, error) {
	if result == nil || len(result.States) < 2 || width < 2 {
		return "", ErrNoData
	}

	xs := result.Column(physics.X)
	ys := result.Column(physics.Y)
	x0, x1 := xs[0], xs[len(xs)-1]
	if x0 == x1 {
		return "", ErrNoData
	}

	data := make([]float64, width)
	j := 0
	for i := range data {
		x := x0 + (x1-x0)*float64(i)/float64(width-1)
		for j < len(xs)-2 && (xs[j+1]-x)*(x1-x0) < 0 {
			j++
		}
		frac := (x - xs[j]) / (xs[j+1] - xs[j])
		if xs[j+1] == xs[j] {
			frac = 0
		}
		data[i] = ys[j] + frac*(ys[j+1]-ys[j])
	}

	caption := fmt.Sprintf("y (m) over x from %.2f to %.2f m", x0, x1)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
