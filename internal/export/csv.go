package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/oscillab/internal/dynamo"
)

var csvHeader = []string{"time", "position", "velocity", "acceleration"}

func WriteCSV(w io.Writer, frames []dynamo.Kinematics) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, k := range frames {
		row := []string{
			strconv.FormatFloat(k.Time, 'f', 6, 64),
			strconv.FormatFloat(k.Position, 'g', 10, 64),
			strconv.FormatFloat(k.Velocity, 'g', 10, 64),
			strconv.FormatFloat(k.Acceleration, 'g', 10, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV.
func ReadCSV(r io.Reader) ([]dynamo.Kinematics, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}
	for i, h := range csvHeader {
		if records[0][i] != h {
			return nil, fmt.Errorf("unexpected column %q, want %q", records[0][i], h)
		}
	}

	frames := make([]dynamo.Kinematics, 0, len(records)-1)
	for line, record := range records[1:] {
		var vals [4]float64
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
			vals[i] = v
		}
		frames = append(frames, dynamo.Kinematics{
			Time:         vals[0],
			Position:     vals[1],
			Velocity:     vals[2],
			Acceleration: vals[3],
		})
	}
	return frames, nil
}
