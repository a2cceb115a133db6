package tables

import (
	"fmt"
	"math"
)

// Shape selects the reference curve a volume-scaling table is built from.
type Shape int

const (
	// ShapeQuarterSquare builds an integer quarter-square table. The scaled
	// contribution is (s-64)*v / 2^gain, exact to one step for v <= MaxCleanVolume.
	ShapeQuarterSquare Shape = iota
	// ShapeSine builds a prosthaphaeresis table: the contribution is
	// -2A*cos(2*pi*s/256)*sin(2*pi*v/256), a softer response.
	ShapeSine
)

func (s Shape) String() string {
	switch s {
	case ShapeQuarterSquare:
		return "quarter-square"
	case ShapeSine:
		return "sine"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape resolves a curve shape name.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "quarter-square", "qs", "linear":
		return ShapeQuarterSquare, nil
	case "sine", "soft":
		return ShapeSine, nil
	default:
		return 0, fmt.Errorf("unknown curve shape %q", name)
	}
}

const (
	MinGain = 5
	MaxGain = 8

	// DefaultGain keeps a single voice at full clean volume within +-32, so
	// four voices at their peak fit the 8-bit mix before it wraps.
	DefaultGain = 7

	// MaxCleanVolume is the largest volume for which the lo and hi indexes of
	// the scaler never land on the same table region. Above it the response
	// folds back, and at 128 both indexes coincide so every table yields 0.
	MaxCleanVolume = 64

	// quarterSquareSplit is the first index read as a negative offset:
	// s-v for s in [0,127] and v in [0,64] only reaches [192,255] when negative.
	quarterSquareSplit = 192
	sampleCenter       = 64
	maxSampleOffset    = 63
)

// Curve holds the parameters a volume-scaling table is generated from.
type Curve struct {
	Shape Shape
	Gain  uint8
}

// DefaultCurve returns the reference curve.
func DefaultCurve() Curve {
	return Curve{Shape: ShapeQuarterSquare, Gain: DefaultGain}
}

// Validate checks that the curve parameters can build a table.
func (c Curve) Validate() error {
	if c.Shape != ShapeQuarterSquare && c.Shape != ShapeSine {
		return fmt.Errorf("unknown curve shape %d", int(c.Shape))
	}
	if c.Gain < MinGain || c.Gain > MaxGain {
		return fmt.Errorf("curve gain %d outside [%d, %d]", c.Gain, MinGain, MaxGain)
	}
	return nil
}

func (c Curve) String() string {
	return fmt.Sprintf("%s/%d", c.Shape, c.Gain)
}

// VolumeTable is the 256-entry table the multiply-free volume scaler reads
// twice per voice per tick.
type VolumeTable [Size]uint8

// NewVolumeTable generates the table for the curve. Generation is
// deterministic: the same curve always produces the same bytes.
func NewVolumeTable(c Curve) (*VolumeTable, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	t := &VolumeTable{}
	switch c.Shape {
	case ShapeQuarterSquare:
		fillQuarterSquare(t, c.Gain)
	case ShapeSine:
		fillSine(t, c.Gain)
	}
	return t, nil
}

// fillQuarterSquare stores -round((x-64)^2 / 2^(gain+2)) mod 256, where x is
// the index read as an offset from the sample domain.
func fillQuarterSquare(t *VolumeTable, gain uint8) {
	for i := range t {
		x := i
		if i >= quarterSquareSplit {
			x -= Size
		}
		d := x - sampleCenter
		q := (d*d + 1<<(gain+1)) >> (gain + 2)
		t[i] = uint8(-q)
	}
}

// fillSine stores round(A*sin(2*pi*i/256)), with A chosen so that the peak
// contribution matches the quarter-square curve of the same gain.
func fillSine(t *VolumeTable, gain uint8) {
	amplitude := float64(maxSampleOffset*MaxCleanVolume) / float64(int(1)<<(gain+1))
	for i := range t {
		v := math.Round(amplitude * math.Sin(2*math.Pi*float64(i)/Size))
		t[i] = uint8(int(v))
	}
}

// RatioTable is one of the fixed-ratio volume tables: every
// sample is pulled toward 128 by num/den.
type RatioTable [Size]uint8

// NewRatioTable builds ((i-128)*num/den)+128 for every index.
func NewRatioTable(num, den int) *RatioTable {
	t := &RatioTable{}
	for i := range t {
		t[i] = uint8(((i-128)*num)/den + 128)
	}
	return t
}

// RatioTables returns the four stock ratios: 1, 7/8, 3/4 and 5/8.
func RatioTables() [4]*RatioTable {
	return [4]*RatioTable{
		NewRatioTable(1, 1),
		NewRatioTable(7, 8),
		NewRatioTable(3, 4),
		NewRatioTable(5, 8),
	}
}
