package experiment

import (
	"log/slog"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/logging"
	"github.com/san-kum/axesim/internal/physics"
)

// Trace is an observer that logs every Nth sample at INFO.
type Trace struct {
	log   *logging.Logger
	every int
	n     int
}

func NewTrace(log *logging.Logger, every int) *Trace {
	if every < 1 {
		every = 1
	}
	return &Trace{log: log, every: every}
}

func (tr *Trace) OnStep(x dynamo.State, t float64) {
	n := tr.n
	tr.n++
	if n%tr.every != 0 {
		return
	}
	attrs := make([]any, 0, len(x)+1)
	attrs = append(attrs, slog.Float64("t", t))
	for i, v := range x {
		attrs = append(attrs, slog.Float64(physics.StateLabels[i], v))
	}
	tr.log.Info("sample", attrs...)
}

// Samples is the number of samples seen, logged or not.
func (tr *Trace) Samples() int { return tr.n }
