package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/physics"
)

const (
	defaultWidth  = 60
	defaultHeight = 20
	panelWidth    = 30
	minCanvas     = 10
)

type TickMsg time.Time

// Model replays a recorded trajectory one sample per tick.
type Model struct {
	result   *dynamo.Result
	axe      *physics.Axe
	groundY  float64
	interval time.Duration

	frame  int
	paused bool
	done   bool

	canvas *Canvas
	view   viewport
	theme  Theme
	styles styles
}

// NewModel prepares a replay at fps frames per second.
func NewModel(result *dynamo.Result, axe *physics.Axe, groundY float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		result:   result,
		axe:      axe,
		groundY:  groundY,
		interval: time.Second / time.Duration(fps),
		theme:    Themes[0],
	}
	m.styles = newStyles(m.theme)
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Run starts the replay in the alternate screen and blocks until it quits.
func Run(result *dynamo.Result, axe *physics.Axe, groundY float64, fps int) error {
	if result == nil || len(result.States) == 0 {
		return fmt.Errorf("nothing to animate")
	}
	_, err := tea.NewProgram(NewModel(result, axe, groundY, fps), tea.WithAltScreen()).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Frame() int   { return m.frame }
func (m Model) Paused() bool { return m.paused }
func (m Model) Done() bool   { return m.done }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.frame = 0
			if m.done {
				m.done = false
				return m, m.tick()
			}
		case "t":
			m.theme = m.theme.next()
			m.styles = newStyles(m.theme)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-4, msg.Height-4)
	case TickMsg:
		if m.done {
			return m, nil
		}
		last := len(m.result.States) - 1
		if !m.paused && m.frame < last {
			m.frame++
		}
		if m.frame >= last {
			m.done = true
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	w = max(w, minCanvas)
	h = max(h, minCanvas/2)
	m.canvas = NewCanvas(w, h)
	pw, ph := m.canvas.PixelSize()
	m.view = fitViewport(m.result, m.axe, m.groundY, pw, ph)
}

func (m Model) View() string {
	m.draw()

	title := m.styles.title.Render("AXE THROW")
	left := lipgloss.JoinVertical(lipgloss.Left, title, m.styles.canvas.Render(m.canvas.String()))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.panel())
}

func (m Model) draw() {
	c := m.canvas
	c.Clear()

	pw, _ := c.PixelSize()
	_, gy := m.view.toPixel(mgl64.Vec2{0, m.groundY})
	c.DrawLine(0, gy, pw-1, gy)

	for i := 0; i <= m.frame; i++ {
		s := m.result.States[i]
		px, py := m.view.toPixel(mgl64.Vec2{s[physics.X], s[physics.Y]})
		c.Set(px, py)
	}

	pose := m.axe.Pose(m.result.States[m.frame])
	m.segment(pose.Butt, pose.Head)
	m.segment(pose.BladeA, pose.BladeB)
}

func (m Model) segment(a, b mgl64.Vec2) {
	x0, y0 := m.view.toPixel(a)
	x1, y1 := m.view.toPixel(b)
	m.canvas.DrawLine(x0, y0, x1, y1)
}

func (m Model) panel() string {
	s := m.result.States[m.frame]
	t := m.result.Times[m.frame]

	status := m.styles.running.Render("PLAYING")
	switch {
	case m.done:
		status = m.styles.running.Render("DONE")
	case m.paused:
		status = m.styles.paused.Render("PAUSED")
	}

	var b strings.Builder
	b.WriteString(status + "\n\n")
	b.WriteString(m.row("t", fmt.Sprintf("%.3f s", t)))
	for i, label := range physics.StateLabels {
		b.WriteString(m.row(label, fmt.Sprintf("%+.3f %s", s[i], physics.StateUnits[i])))
	}
	b.WriteString("\n")

	progress := 1.0
	if last := len(m.result.States) - 1; last > 0 {
		progress = float64(m.frame) / float64(last)
	}
	b.WriteString(m.styles.trail.Render(ProgressBar(progress, panelWidth-4)) + "\n")
	b.WriteString(m.styles.label.Render("y ") + m.styles.trail.Render(Sparkline(m.result.Column(physics.Y)[:m.frame+1], panelWidth-6)) + "\n\n")
	b.WriteString(m.styles.hint.Render("space pause  r restart\nt theme  q quit"))

	return m.styles.panel.Width(panelWidth).Render(b.String())
}

func (m Model) row(label, value string) string {
	return fmt.Sprintf("%s %s\n", m.styles.label.Render(fmt.Sprintf("%-6s", label)), m.styles.value.Render(value))
}

// viewport maps world coordinates onto canvas sub-pixels with one scale for
// both axes, y pointing up.
type viewport struct {
	minX, maxY float64
	scale      float64
}

func fitViewport(result *dynamo.Result, axe *physics.Axe, groundY float64, pw, ph int) viewport {
	if result == nil || len(result.States) == 0 {
		return viewport{scale: 1}
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := groundY, groundY
	grow := func(p mgl64.Vec2) {
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
	}
	for _, s := range result.States {
		pose := axe.Pose(s)
		for _, p := range []mgl64.Vec2{pose.Butt, pose.Head, pose.BladeA, pose.BladeB} {
			grow(p)
		}
	}

	pad := 0.05 * math.Max(maxX-minX, maxY-minY)
	if pad == 0 {
		pad = 1
	}
	minX, maxX = minX-pad, maxX+pad
	minY, maxY = minY-pad, maxY+pad

	scale := math.Min(float64(pw-1)/(maxX-minX), float64(ph-1)/(maxY-minY))
	return viewport{minX: minX, maxY: maxY, scale: scale}
}

func (v viewport) toPixel(p mgl64.Vec2) (int, int) {
	px := (p.X() - v.minX) * v.scale
	py := (v.maxY - p.Y()) * v.scale
	return int(math.Round(px)), int(math.Round(py))
}
