// Package export writes sampled oscillator runs as CSV, JSON or SVG.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/oscillab/internal/buffer"
	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/physics"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want csv, json or svg)", s)
	}
}

// Data is one exported window.
type Data struct {
	Mode    string              `json:"mode"`
	Params  dynamo.Params       `json:"params"`
	Summary physics.Summary     `json:"summary"`
	Frames  []dynamo.Kinematics `json:"frames"`
}

func NewData(mode dynamo.Mode, p dynamo.Params, frames []dynamo.Kinematics) Data {
	return Data{
		Mode:    mode.String(),
		Params:  p,
		Summary: physics.Describe(mode, p),
		Frames:  frames,
	}
}

// FramesFromBuffer zips the three series of a buffer back into
// kinematics records.
func FramesFromBuffer(m *buffer.Manager) []dynamo.Kinematics {
	pos := m.Series(dynamo.SignalPosition)
	vel := m.Series(dynamo.SignalVelocity)
	acc := m.Series(dynamo.SignalAcceleration)

	n := pos.Len()
	frames := make([]dynamo.Kinematics, n)
	for i := 0; i < n; i++ {
		s := pos.At(i)
		frames[i] = dynamo.Kinematics{
			Time:         s.Time,
			Position:     s.Value,
			Velocity:     vel.At(i).Value,
			Acceleration: acc.At(i).Value,
		}
	}
	return frames
}

func Write(w io.Writer, f Format, d Data) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, d.Frames)
	case FormatJSON:
		return WriteJSON(w, d)
	case FormatSVG:
		_, err := io.WriteString(w, SignalsSVG(d.Frames, 800, 600))
		return err
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

// WriteSeriesSVG writes one signal as a standalone SVG document.
func WriteSeriesSVG(w io.Writer, sig dynamo.Signal, samples []dynamo.Sample) error {
	doc := SeriesSVG(samples, 800, 240, signalColors[sig])
	if doc == "" {
		return fmt.Errorf("not enough %s samples to plot: %d", sig, len(samples))
	}
	_, err := io.WriteString(w, doc)
	return err
}

func WriteJSON(w io.Writer, d Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
