package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVolumeTable_Idempotent(t *testing.T) {
	for _, shape := range []Shape{ShapeQuarterSquare, ShapeSine} {
		for gain := uint8(MinGain); gain <= MaxGain; gain++ {
			c := Curve{Shape: shape, Gain: gain}
			t.Run(c.String(), func(t *testing.T) {
				a, err := NewVolumeTable(c)
				require.NoError(t, err)
				b, err := NewVolumeTable(c)
				require.NoError(t, err)
				assert.Equal(t, *a, *b)
				assert.NotSame(t, a, b)
			})
		}
	}
}

func TestNewVolumeTable_QuarterSquareEntries(t *testing.T) {
	table, err := NewVolumeTable(DefaultCurve())
	require.NoError(t, err)

	tests := []struct {
		index int
		want  uint8
	}{
		{0, 248},
		{64, 0},
		{128, 248},
		{191, 224},
		{192, 224},
		{255, 248},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table[tt.index], "index %d", tt.index)
	}
}

func TestNewVolumeTable_GainChangesTable(t *testing.T) {
	loud, err := NewVolumeTable(Curve{Shape: ShapeQuarterSquare, Gain: 5})
	require.NoError(t, err)
	assert.Equal(t, uint8(224), loud[0])
	assert.Equal(t, uint8(128), loud[192])
}

func TestNewVolumeTable_SineIsCenteredOnZero(t *testing.T) {
	table, err := NewVolumeTable(Curve{Shape: ShapeSine, Gain: DefaultGain})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), table[0])
	assert.Equal(t, uint8(0), table[128])
	assert.Equal(t, uint8(16), table[64])
	assert.Equal(t, uint8(256-16), table[192])
}

func TestCurve_Validate(t *testing.T) {
	tests := []struct {
		name    string
		curve   Curve
		wantErr bool
	}{
		{"default", DefaultCurve(), false},
		{"gain too low", Curve{Shape: ShapeQuarterSquare, Gain: 4}, true},
		{"gain too high", Curve{Shape: ShapeSine, Gain: 9}, true},
		{"unknown shape", Curve{Shape: Shape(7), Gain: 7}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.curve.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				_, genErr := NewVolumeTable(tt.curve)
				assert.Error(t, genErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("sine")
	require.NoError(t, err)
	assert.Equal(t, ShapeSine, s)

	s, err = ParseShape("linear")
	require.NoError(t, err)
	assert.Equal(t, ShapeQuarterSquare, s)

	_, err = ParseShape("log")
	assert.Error(t, err)
}

func TestRatioTables(t *testing.T) {
	ratios := RatioTables()
	for i := 0; i < Size; i++ {
		assert.Equal(t, uint8(i), ratios[0][i], "unity ratio is the identity")
	}
	assert.Equal(t, uint8(48), ratios[3][0])
	assert.Equal(t, uint8(207), ratios[3][255])
	assert.Equal(t, uint8(128), ratios[2][128])
	assert.Equal(t, uint8(16), ratios[1][0])
}
