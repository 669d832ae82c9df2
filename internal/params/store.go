package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/oscillab/internal/dynamo"
)

// Range is an inclusive interval of accepted values.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

func DefaultRanges() map[dynamo.Field]Range {
	return map[dynamo.Field]Range{
		dynamo.FieldMass:           {Min: 0.5, Max: 5},
		dynamo.FieldSpringConstant: {Min: 10, Max: 100},
		dynamo.FieldAmplitude:      {Min: 0.01, Max: 0.50},
		dynamo.FieldLength:         {Min: 0.5, Max: 3},
		dynamo.FieldAngle:          {Min: 1, Max: 15},
		dynamo.FieldGravity:        {Min: 1, Max: 20},
		dynamo.FieldPhase:          {Min: 0, Max: 2 * math.Pi},
	}
}

// WideAngleRanges allows release angles up to 45°, past the accuracy limit
// of the small-angle energy formula.
func WideAngleRanges() map[dynamo.Field]Range {
	r := DefaultRanges()
	r[dynamo.FieldAngle] = Range{Min: 1, Max: 45}
	return r
}

// FieldsFor returns the parameters that affect the given oscillator.
func FieldsFor(mode dynamo.Mode) []dynamo.Field {
	if mode == dynamo.ModePendulum {
		return []dynamo.Field{dynamo.FieldLength, dynamo.FieldAngle, dynamo.FieldGravity, dynamo.FieldPhase}
	}
	return []dynamo.Field{dynamo.FieldMass, dynamo.FieldSpringConstant, dynamo.FieldAmplitude, dynamo.FieldPhase}
}

// Store is the only writer of simulation parameters. Rejected input marks
// its field invalid and leaves the last committed value in place.
type Store struct {
	values  dynamo.Params
	ranges  map[dynamo.Field]Range
	invalid map[dynamo.Field]*dynamo.ValidationError
}

// New creates a store. An initial value outside its range is flagged
// invalid, so a bad config cannot start the simulation, and the store
// holds the nearest in-range value (or the default when the input is
// not finite) in its place.
func New(initial dynamo.Params, ranges map[dynamo.Field]Range) *Store {
	if ranges == nil {
		ranges = DefaultRanges()
	}
	s := &Store{
		values:  initial,
		ranges:  ranges,
		invalid: make(map[dynamo.Field]*dynamo.ValidationError),
	}
	defaults := dynamo.DefaultParams()
	for _, f := range dynamo.AllFields {
		v, _ := initial.Get(f)
		err := s.check(f, v, "")
		if err == nil {
			continue
		}
		s.invalid[f] = err
		safe, _ := defaults.Get(f)
		if r, ok := ranges[f]; ok && finite(v) {
			safe = r.Clamp(v)
		}
		s.values, _ = s.values.With(f, safe)
	}
	return s
}

func (s *Store) Params() dynamo.Params { return s.values }

func (s *Store) Get(f dynamo.Field) (float64, error) {
	return s.values.Get(f)
}

func (s *Store) Range(f dynamo.Field) (Range, bool) {
	r, ok := s.ranges[f]
	return r, ok
}

func (s *Store) Set(f dynamo.Field, v float64) error {
	return s.commit(f, v, "")
}

// SetString parses raw user input and commits it.
func (s *Store) SetString(f dynamo.Field, raw string) error {
	trimmed := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		if _, ok := s.ranges[f]; !ok {
			return unknownField(f, raw)
		}
		verr := &dynamo.ValidationError{Field: f, Reason: "must be a number", Input: raw, Err: dynamo.ErrNotNumeric}
		s.invalid[f] = verr
		return verr
	}
	return s.commit(f, v, trimmed)
}

// Step nudges a field by 1/50 of its range, clamped into the range.
func (s *Store) Step(f dynamo.Field, direction int) error {
	r, ok := s.ranges[f]
	if !ok {
		return unknownField(f, "")
	}
	cur, _ := s.values.Get(f)
	next := r.Clamp(cur + float64(direction)*(r.Max-r.Min)/50)
	return s.Set(f, next)
}

func (s *Store) Valid(f dynamo.Field) bool {
	_, bad := s.invalid[f]
	return !bad
}

// CanStart is true iff every field currently holds valid input.
func (s *Store) CanStart() bool {
	return len(s.invalid) == 0
}

// Invalid returns the outstanding validation errors in field order.
func (s *Store) Invalid() []*dynamo.ValidationError {
	out := make([]*dynamo.ValidationError, 0, len(s.invalid))
	for _, f := range dynamo.AllFields {
		if err, ok := s.invalid[f]; ok {
			out = append(out, err)
		}
	}
	return out
}

func (s *Store) GetParams() map[string]float64 {
	out := make(map[string]float64, len(dynamo.AllFields))
	for _, f := range dynamo.AllFields {
		v, _ := s.values.Get(f)
		out[string(f)] = v
	}
	return out
}

func (s *Store) SetParam(name string, value float64) error {
	f, err := dynamo.ParseField(name)
	if err != nil {
		return unknownField(dynamo.Field(name), "")
	}
	return s.Set(f, value)
}

func (s *Store) commit(f dynamo.Field, v float64, input string) error {
	if _, ok := s.ranges[f]; !ok {
		return unknownField(f, input)
	}
	if err := s.check(f, v, input); err != nil {
		s.invalid[f] = err
		return err
	}
	next, err := s.values.With(f, v)
	if err != nil {
		return unknownField(f, input)
	}
	s.values = next
	delete(s.invalid, f)
	return nil
}

func (s *Store) check(f dynamo.Field, v float64, input string) *dynamo.ValidationError {
	if input == "" {
		input = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if !finite(v) {
		return &dynamo.ValidationError{Field: f, Reason: "must be a finite number", Input: input, Err: dynamo.ErrNotNumeric}
	}
	r, ok := s.ranges[f]
	if !ok {
		return nil
	}
	if !r.Contains(v) {
		return &dynamo.ValidationError{
			Field:  f,
			Reason: fmt.Sprintf("must be between %g and %g %s", r.Min, r.Max, f.Unit()),
			Input:  input,
			Err:    dynamo.ErrParameterBounds,
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unknownField(f dynamo.Field, input string) *dynamo.ValidationError {
	return &dynamo.ValidationError{Field: f, Reason: "unknown parameter", Input: input, Err: dynamo.ErrUnknownField}
}
