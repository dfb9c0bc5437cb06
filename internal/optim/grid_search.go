// Package optim searches release conditions for the throw that scores best.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/axesim/internal/analysis"
	"github.com/san-kum/axesim/internal/config"
	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/experiment"
	"github.com/san-kum/axesim/internal/logging"
)

var ErrNoCandidate = errors.New("no candidate produced a score")

// Objective scores a finished run; lower is better.
type Objective func(result *dynamo.Result) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return vals
}

// ParseRange reads "name=lo:hi:n" into a parameter name and its grid.
func ParseRange(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("bad range %q: want name=lo:hi:n", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad range %q: want name=lo:hi:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad range %q: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad range %q: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("bad range %q: count must be a positive integer", arg)
	}
	return name, Linspace(lo, hi, n), nil
}

// Search runs every combination on the grid, each on a copy of base, and
// returns the parameters with the lowest score. Candidates whose run or
// objective fails are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective, log *logging.Logger) (map[string]float64, float64, error) {
	if log == nil {
		log = logging.Discard()
	}
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, log, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	log *logging.Logger,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for k, v := range current {
			if err := cfg.Set(k, v); err != nil {
				return err
			}
		}

		exp := experiment.New(&cfg, log)
		if err := exp.Setup(experiment.NewRegistry()); err != nil {
			log.Debug("candidate rejected", "params", current, "error", err)
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			log.Debug("candidate failed", "params", current, "error", err)
			return nil
		}

		val, err := objective(result)
		if err != nil {
			log.Debug("candidate unscored", "params", current, "error", err)
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, log, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// ImpactAngle scores how far the landing angle is from target, wrapped so
// that a full extra turn costs nothing.
func ImpactAngle(groundY, target float64) Objective {
	return func(result *dynamo.Result) (float64, error) {
		imp, err := analysis.FindImpact(result, groundY)
		if err != nil {
			return 0, err
		}
		return math.Abs(analysis.WrapAngle(imp.Angle - target)), nil
	}
}
