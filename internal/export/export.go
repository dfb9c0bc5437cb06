// Package export writes a finished trajectory as CSV or JSON. Nothing is
// stored: the caller owns the writer.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/physics"
)

// Meta describes how a trajectory was produced.
type Meta struct {
	Integrator string  `json:"integrator"`
	Dt         float64 `json:"dt"`
	Duration   float64 `json:"duration"`
	Adaptive   bool    `json:"adaptive"`
}

type ExportData struct {
	Meta
	Status        string               `json:"status"`
	Message       string               `json:"message"`
	Evaluations   int                  `json:"evaluations"`
	StepsAccepted int                  `json:"steps_accepted"`
	StepsRejected int                  `json:"steps_rejected"`
	Labels        []string             `json:"labels"`
	Steps         int                  `json:"steps"`
	Times         []float64            `json:"times"`
	States        [][]float64          `json:"states"`
	Metrics       map[string]float64   `json:"metrics"`
	EnergyDrift   float64              `json:"energy_drift"`
	Events        []dynamo.EventRecord `json:"events"`
}

func NewExportData(meta Meta, result *dynamo.Result) ExportData {
	d := result.Diagnostics
	data := ExportData{
		Meta:          meta,
		Status:        d.Status.String(),
		Message:       d.Message,
		Evaluations:   d.Evaluations,
		StepsAccepted: d.StepsAccepted,
		StepsRejected: d.StepsRejected,
		Labels:        physics.StateLabels,
		Steps:         len(result.Times),
		Times:         result.Times,
		States:        make([][]float64, len(result.States)),
		Metrics:       result.Metrics,
		EnergyDrift:   result.EnergyDrift,
		Events:        d.Events,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	if data.Events == nil {
		data.Events = []dynamo.EventRecord{}
	}
	return data
}

// WriteJSON encodes the run as indented JSON.
func WriteJSON(w io.Writer, meta Meta, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, result))
}

// WriteCSV writes one row per sample under the header
// time,x,y,theta,vx,vy,omega.
func WriteCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, physics.StateLabels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, s := range result.States {
		if len(s) != len(physics.StateLabels) {
			return fmt.Errorf("%w: row %d has %d values", dynamo.ErrDimensionMismatch, i, len(s))
		}
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, val := range s {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
