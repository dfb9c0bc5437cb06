package metrics

import (
	"math"

	"github.com/san-kum/axesim/internal/dynamo"
)

// Apex tracks the highest value of one state component, y by default.
type Apex struct {
	name    string
	index   int
	max     float64
	samples int
}

func NewApex(index int) *Apex {
	return &Apex{name: "apex", index: index}
}

func (a *Apex) Name() string { return a.name }

func (a *Apex) Observe(x dynamo.State, t float64) {
	if a.index >= len(x) {
		return
	}
	if a.samples == 0 || x[a.index] > a.max {
		a.max = x[a.index]
	}
	a.samples++
}

func (a *Apex) Value() float64 { return a.max }

func (a *Apex) Reset() {
	a.max = 0
	a.samples = 0
}

// Revolutions counts full turns from the first observed angle.
type Revolutions struct {
	name    string
	index   int
	start   float64
	last    float64
	samples int
}

func NewRevolutions(index int) *Revolutions {
	return &Revolutions{name: "revolutions", index: index}
}

func (r *Revolutions) Name() string { return r.name }

func (r *Revolutions) Observe(x dynamo.State, t float64) {
	if r.index >= len(x) {
		return
	}
	if r.samples == 0 {
		r.start = x[r.index]
	}
	r.last = x[r.index]
	r.samples++
}

func (r *Revolutions) Value() float64 {
	return math.Abs(r.last-r.start) / (2 * math.Pi)
}

func (r *Revolutions) Reset() {
	r.start, r.last = 0, 0
	r.samples = 0
}

// Distance is the horizontal displacement between the first and last sample.
type Distance struct {
	name        string
	index       int
	first, last float64
	samples     int
}

func NewDistance(index int) *Distance {
	return &Distance{name: "distance", index: index}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(x dynamo.State, t float64) {
	if d.index >= len(x) {
		return
	}
	if d.samples == 0 {
		d.first = x[d.index]
	}
	d.last = x[d.index]
	d.samples++
}

func (d *Distance) Value() float64 { return d.last - d.first }

func (d *Distance) Reset() {
	d.first, d.last = 0, 0
	d.samples = 0
}
