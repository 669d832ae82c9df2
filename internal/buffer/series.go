package buffer

import (
	"math"

	"github.com/san-kum/oscillab/internal/dynamo"
)

// Series is a time-ascending run of samples with cheap front trimming.
// Evicted samples stay in the backing array as a dead prefix until it
// outgrows the live part, then the live part is copied down.
type Series struct {
	data  []dynamo.Sample
	start int
}

func NewSeries(capacity int) *Series {
	return &Series{data: make([]dynamo.Sample, 0, capacity)}
}

func (s *Series) Len() int { return len(s.data) - s.start }

func (s *Series) At(i int) dynamo.Sample { return s.data[s.start+i] }

func (s *Series) First() (dynamo.Sample, bool) {
	if s.Len() == 0 {
		return dynamo.Sample{}, false
	}
	return s.data[s.start], true
}

func (s *Series) Last() (dynamo.Sample, bool) {
	if s.Len() == 0 {
		return dynamo.Sample{}, false
	}
	return s.data[len(s.data)-1], true
}

func (s *Series) push(sample dynamo.Sample) {
	s.data = append(s.data, sample)
}

// trimBefore drops leading samples older than cutoff.
func (s *Series) trimBefore(cutoff float64) int {
	dropped := 0
	for s.start < len(s.data) && s.data[s.start].Time < cutoff {
		s.start++
		dropped++
	}
	if s.start > 0 && s.start >= len(s.data)-s.start {
		n := copy(s.data, s.data[s.start:])
		s.data = s.data[:n]
		s.start = 0
	}
	return dropped
}

func (s *Series) reset() {
	s.data = s.data[:0]
	s.start = 0
}

// Samples returns a copy of the live samples.
func (s *Series) Samples() []dynamo.Sample {
	out := make([]dynamo.Sample, s.Len())
	copy(out, s.data[s.start:])
	return out
}

func (s *Series) Times() []float64 {
	out := make([]float64, 0, s.Len())
	for _, sm := range s.data[s.start:] {
		out = append(out, sm.Time)
	}
	return out
}

func (s *Series) Values() []float64 {
	out := make([]float64, 0, s.Len())
	for _, sm := range s.data[s.start:] {
		out = append(out, sm.Value)
	}
	return out
}

// Bounds returns the smallest and largest value in the series.
func (s *Series) Bounds() (float64, float64) {
	if s.Len() == 0 {
		return 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, sm := range s.data[s.start:] {
		lo = math.Min(lo, sm.Value)
		hi = math.Max(hi, sm.Value)
	}
	return lo, hi
}
