package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/axesim/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// PhasePortrait holds two state components of a trajectory against each other.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait reads components xIdx and yIdx from every sample.
func NewPhasePortrait(result *dynamo.Result, xIdx, yIdx int) *PhasePortrait {
	if result == nil || len(result.States) == 0 {
		return nil
	}
	if xIdx >= len(result.States[0]) || yIdx >= len(result.States[0]) {
		return nil
	}

	portrait := &PhasePortrait{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(result.States)),
	}
	for _, s := range result.States {
		portrait.Points = append(portrait.Points, Point{X: s[xIdx], Y: s[yIdx]})
	}
	return portrait
}

// ToASCII draws the portrait on a width x height character grid, with the
// axes where they are in view.
func (portrait *PhasePortrait) ToASCII(width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := bounds(portrait.Points)
	toCell := func(p Point) (int, int) {
		col := int((p.X - lo.X) / (hi.X - lo.X) * float64(width-1))
		row := height - 1 - int((p.Y-lo.Y)/(hi.Y-lo.Y)*float64(height-1))
		return row, col
	}

	grid := newGrid(width, height)
	for _, p := range portrait.Points {
		grid.set(toCell(p))
	}
	if lo.X <= 0 && hi.X >= 0 {
		_, col := toCell(Point{})
		for row := range grid {
			grid.fill(row, col, '│')
		}
	}
	if lo.Y <= 0 && hi.Y >= 0 {
		row, _ := toCell(Point{})
		for col := 0; col < width; col++ {
			grid.fill(row, col, '─')
		}
	}
	return grid.String()
}

// bounds returns the corners of the box around points, widened by a tenth
// of each span. A zero span counts as one.
func bounds(points []Point) (lo, hi Point) {
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
	}
	pad := Point{X: hi.X - lo.X, Y: hi.Y - lo.Y}
	if pad.X == 0 {
		pad.X = 1
	}
	if pad.Y == 0 {
		pad.Y = 1
	}
	pad.X, pad.Y = pad.X*0.1, pad.Y*0.1
	return Point{lo.X - pad.X, lo.Y - pad.Y}, Point{hi.X + pad.X, hi.Y + pad.Y}
}

type grid [][]rune

func newGrid(width, height int) grid {
	g := make(grid, height)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", width))
	}
	return g
}

func (g grid) inside(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g[row])
}

func (g grid) set(row, col int) {
	if g.inside(row, col) {
		g[row][col] = '•'
	}
}

// fill writes r only into blank cells.
func (g grid) fill(row, col int, r rune) {
	if g.inside(row, col) && g[row][col] == ' ' {
		g[row][col] = r
	}
}

func (g grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Section records (recordX, recordY) wherever component crossIdx passes
// level in either direction, interpolated between samples. A spinning axe
// crosses each angle once per turn whichever way it rotates.
type Section struct {
	Points []Point
	Times  []float64
}

func NewSection(result *dynamo.Result, crossIdx int, level float64, recordX, recordY int) *Section {
	if result == nil || len(result.States) == 0 {
		return nil
	}
	dim := len(result.States[0])
	if crossIdx >= dim || recordX >= dim || recordY >= dim {
		return nil
	}

	section := &Section{}
	for i := 1; i < len(result.States); i++ {
		prev, cur := result.States[i-1], result.States[i]
		before, after := prev[crossIdx]-level, cur[crossIdx]-level
		if !(before < 0 && after >= 0) && !(before > 0 && after <= 0) {
			continue
		}

		frac := (level - prev[crossIdx]) / (cur[crossIdx] - prev[crossIdx])
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		s := prev.Lerp(cur, frac)
		section.Points = append(section.Points, Point{X: s[recordX], Y: s[recordY]})
		section.Times = append(section.Times, result.Times[i-1]+frac*(result.Times[i]-result.Times[i-1]))
	}
	return section
}

func (section *Section) ToASCII(width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	portrait := &PhasePortrait{Points: section.Points}
	return portrait.ToASCII(width, height)
}
