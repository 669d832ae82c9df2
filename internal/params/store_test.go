package params

import (
	"math"
	"testing"

	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreWithDefaultsCanStart(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	assert.True(t, s.CanStart())
	assert.Empty(t, s.Invalid())
	for _, f := range dynamo.AllFields {
		assert.True(t, s.Valid(f), "field %s", f)
	}
}

func TestNewStoreFlagsOutOfRangeInitialValues(t *testing.T) {
	p := dynamo.DefaultParams()
	p.Mass = 50

	s := New(p, DefaultRanges())

	assert.False(t, s.CanStart())
	assert.False(t, s.Valid(dynamo.FieldMass))
	require.Len(t, s.Invalid(), 1)
	assert.Equal(t, dynamo.FieldMass, s.Invalid()[0].Field)
}

func TestNewStoreNeverHoldsOutOfRangeValues(t *testing.T) {
	p := dynamo.DefaultParams()
	p.Mass = 0
	p.PendulumLength = math.NaN()
	p.Gravity = 500

	s := New(p, DefaultRanges())

	assert.False(t, s.CanStart())
	assert.Len(t, s.Invalid(), 3)
	assert.Equal(t, 0.5, s.Params().Mass)
	assert.Equal(t, dynamo.DefaultParams().PendulumLength, s.Params().PendulumLength)
	assert.Equal(t, 20.0, s.Params().Gravity)

	invalid := s.Invalid()
	assert.Equal(t, "0", invalid[0].Input)
	assert.ErrorIs(t, invalid[1], dynamo.ErrNotNumeric)
}

func TestSetCommitsValidValue(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	require.NoError(t, s.Set(dynamo.FieldSpringConstant, 80))

	v, err := s.Get(dynamo.FieldSpringConstant)
	require.NoError(t, err)
	assert.Equal(t, 80.0, v)
	assert.Equal(t, 80.0, s.Params().SpringConstant)
}

func TestSetRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		field dynamo.Field
		value float64
	}{
		{dynamo.FieldMass, 0.4},
		{dynamo.FieldMass, 5.01},
		{dynamo.FieldSpringConstant, 9},
		{dynamo.FieldAmplitude, 0.6},
		{dynamo.FieldLength, 3.5},
		{dynamo.FieldAngle, 16},
		{dynamo.FieldGravity, 0},
		{dynamo.FieldPhase, -0.1},
		{dynamo.FieldPhase, 7},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			s := New(dynamo.DefaultParams(), nil)
			before, _ := s.Get(tt.field)

			err := s.Set(tt.field, tt.value)

			var verr *dynamo.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
			assert.False(t, s.Valid(tt.field))
			assert.False(t, s.CanStart())

			after, _ := s.Get(tt.field)
			assert.Equal(t, before, after, "rejected value must not be committed")
		})
	}
}

func TestSetRejectsNonFinite(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	assert.ErrorIs(t, s.Set(dynamo.FieldMass, math.NaN()), dynamo.ErrNotNumeric)
	assert.ErrorIs(t, s.Set(dynamo.FieldGravity, math.Inf(1)), dynamo.ErrNotNumeric)
	assert.Len(t, s.Invalid(), 2)
}

func TestSetStringParsesInput(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	require.NoError(t, s.SetString(dynamo.FieldAmplitude, " 0.25 "))
	assert.Equal(t, 0.25, s.Params().Amplitude)

	err := s.SetString(dynamo.FieldAmplitude, "abc")
	assert.ErrorIs(t, err, dynamo.ErrNotNumeric)
	assert.Contains(t, err.Error(), `"abc"`)
	assert.False(t, s.Valid(dynamo.FieldAmplitude))
	assert.Equal(t, 0.25, s.Params().Amplitude)
}

func TestCorrectingInputRestoresValidity(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	require.Error(t, s.Set(dynamo.FieldMass, 10))
	require.False(t, s.CanStart())

	require.NoError(t, s.Set(dynamo.FieldMass, 2))
	assert.True(t, s.Valid(dynamo.FieldMass))
	assert.True(t, s.CanStart())
}

func TestUnknownField(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	assert.ErrorIs(t, s.Set("bogus", 1), dynamo.ErrUnknownField)
	assert.ErrorIs(t, s.SetString("bogus", "x"), dynamo.ErrUnknownField)
	assert.ErrorIs(t, s.SetParam("bogus", 1), dynamo.ErrUnknownField)
	assert.True(t, s.CanStart(), "unknown fields do not affect validity")
}

func TestWideAngleRanges(t *testing.T) {
	narrow := New(dynamo.DefaultParams(), DefaultRanges())
	wide := New(dynamo.DefaultParams(), WideAngleRanges())

	assert.Error(t, narrow.Set(dynamo.FieldAngle, 30))
	assert.NoError(t, wide.Set(dynamo.FieldAngle, 30))
	assert.Error(t, wide.Set(dynamo.FieldAngle, 46))
}

func TestStepClampsIntoRange(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	require.NoError(t, s.Set(dynamo.FieldMass, 4.95))
	require.NoError(t, s.Step(dynamo.FieldMass, 1))
	assert.Equal(t, 5.0, s.Params().Mass)

	require.NoError(t, s.Set(dynamo.FieldMass, 1.0))
	require.NoError(t, s.Step(dynamo.FieldMass, -1))
	assert.InDelta(t, 0.91, s.Params().Mass, 1e-12)
}

func TestConfigurableSurface(t *testing.T) {
	s := New(dynamo.DefaultParams(), nil)

	require.NoError(t, s.SetParam("gravity", 1.62))
	got := s.GetParams()
	assert.Equal(t, 1.62, got["gravity"])
	assert.Len(t, got, len(dynamo.AllFields))
}

func TestFieldsFor(t *testing.T) {
	assert.Contains(t, FieldsFor(dynamo.ModeSpring), dynamo.FieldSpringConstant)
	assert.NotContains(t, FieldsFor(dynamo.ModeSpring), dynamo.FieldGravity)
	assert.Contains(t, FieldsFor(dynamo.ModePendulum), dynamo.FieldAngle)
	assert.Contains(t, FieldsFor(dynamo.ModePendulum), dynamo.FieldPhase)
}
