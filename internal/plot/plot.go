// Package plot renders trajectories as PNG figures with gonum/plot and as
// terminal line graphs with asciigraph.
package plot

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/physics"
)

var ErrNoData = errors.New("plot data invalid")

const DefaultDPI = 150

var (
	pathColor   = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	handleColor = color.RGBA{R: 120, G: 72, B: 30, A: 255}
	bladeColor  = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	groundColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	eventColor  = color.RGBA{R: 20, G: 150, B: 60, A: 255}
)

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)

	p.X.Label.TextStyle.Font.Size = vg.Points(13)
	p.Y.Label.TextStyle.Font.Size = vg.Points(13)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)

	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.X.Tick.Marker = limitedTicker(8, "%.2f")
	p.Y.Tick.Marker = limitedTicker(8, "%.2f")

	p.Add(plotter.NewGrid())
}

func segment(a, b mgl64.Vec2, c color.Color, width vg.Length) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: a[0], Y: a[1]}, {X: b[0], Y: b[1]}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = width
	return line, nil
}

// Trajectory plots the path of the center (y against x), the ground line
// and the axe drawn every poseEvery samples. Recorded events are marked.
func Trajectory(result *dynamo.Result, axe *physics.Axe, groundY float64, poseEvery int) (*plot.Plot, error) {
	if result == nil || len(result.States) == 0 {
		return nil, ErrNoData
	}
	if poseEvery <= 0 {
		poseEvery = max(1, len(result.States)/10)
	}

	p := plot.New()
	p.Title.Text = "Axe trajectory"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	stylePlot(p)

	pts := make(plotter.XYs, len(result.States))
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, s := range result.States {
		pts[i].X = s[physics.X]
		pts[i].Y = s[physics.Y]
		minX = math.Min(minX, s[physics.X])
		maxX = math.Max(maxX, s[physics.X])
	}
	path, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	path.LineStyle.Color = pathColor
	path.LineStyle.Width = vg.Points(1.5)
	path.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(path)
	p.Legend.Add("center", path)

	pad := axe.HandleLength
	ground, err := segment(mgl64.Vec2{minX - pad, groundY}, mgl64.Vec2{maxX + pad, groundY}, groundColor, vg.Points(2))
	if err != nil {
		return nil, err
	}
	p.Add(ground)
	p.Legend.Add("ground", ground)

	last := len(result.States) - 1
	for i := 0; i <= last; i += poseEvery {
		if err := addPose(p, axe.Pose(result.States[i]), i == 0); err != nil {
			return nil, err
		}
	}
	if last%poseEvery != 0 {
		if err := addPose(p, axe.Pose(result.States[last]), false); err != nil {
			return nil, err
		}
	}

	if events := result.Diagnostics.Events; len(events) > 0 {
		marks := make(plotter.XYs, len(events))
		for i, ev := range events {
			marks[i].X = ev.State[physics.X]
			marks[i].Y = ev.State[physics.Y]
		}
		sc, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = eventColor
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add("events", sc)
	}

	p.Legend.Top = true
	return p, nil
}

func addPose(p *plot.Plot, pose physics.Pose, legend bool) error {
	handle, err := segment(pose.Butt, pose.Head, handleColor, vg.Points(2.5))
	if err != nil {
		return err
	}
	blade, err := segment(pose.BladeA, pose.BladeB, bladeColor, vg.Points(3.5))
	if err != nil {
		return err
	}
	p.Add(handle, blade)
	if legend {
		p.Legend.Add("handle", handle)
		p.Legend.Add("blade", blade)
	}
	return nil
}

// Series plots state component idx against time.
func Series(result *dynamo.Result, idx int) (*plot.Plot, error) {
	if result == nil || len(result.States) == 0 || idx < 0 || idx >= physics.StateDim {
		return nil, ErrNoData
	}

	label := physics.StateLabels[idx]
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s(t)", label)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = fmt.Sprintf("%s (%s)", label, physics.StateUnits[idx])
	stylePlot(p)

	ys := result.Column(idx)
	if len(ys) != len(result.Times) {
		return nil, ErrNoData
	}
	pts := make(plotter.XYs, len(ys))
	for i := range ys {
		pts[i].X = result.Times[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = pathColor
	p.Add(line)
	return p, nil
}

// WritePNG draws p on a widthIn x heightIn inch canvas and encodes it as PNG.
func WritePNG(w io.Writer, p *plot.Plot, widthIn, heightIn float64, dpi int) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

// SavePNG writes p to filename, creating the parent directory.
func SavePNG(p *plot.Plot, widthIn, heightIn float64, dpi int, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WritePNG(bw, p, widthIn, heightIn, dpi); err != nil {
		return err
	}
	return bw.Flush()
}
