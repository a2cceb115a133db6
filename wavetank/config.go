package wavetank

import (
	"errors"
	"fmt"
	"time"

	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

var (
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrInvalidGain       = errors.New("invalid curve gain")
	ErrInvalidVoice      = errors.New("invalid voice")
	ErrUnknownWaveform   = errors.New("unknown waveform")
	ErrUnknownMixMode    = errors.New("unknown mix mode")
	ErrUnknownScaler     = errors.New("unknown scaler")
)

const (
	// DefaultSampleRate is the reference tick rate: a 14.31818 MHz clock
	// divided by 1024.
	DefaultSampleRate = 13983

	MinSampleRate = 8000
	MaxSampleRate = 48000
)

// ScalerKind selects the volume scaling path.
type ScalerKind string

const (
	// ScalerTable is the multiply-free two-lookup scaler.
	ScalerTable ScalerKind = "table"
	// ScalerRatio is the ratio table plus shift scaler with 17 levels.
	ScalerRatio ScalerKind = "ratio"
)

// Config holds everything needed to boot a Synth. Nothing in it persists.
type Config struct {
	SampleRate      uint32
	Curve           tables.Curve
	MixMode         synth.MixMode
	Scaler          ScalerKind
	DefaultWaveform int
	SliceDuration   time.Duration
	Limiter         timing.LimiterKind
}

func DefaultConfig() Config {
	return Config{
		SampleRate:      DefaultSampleRate,
		Curve:           tables.DefaultCurve(),
		MixMode:         synth.MixWrap,
		Scaler:          ScalerTable,
		DefaultWaveform: 0,
		SliceDuration:   timing.DefaultSliceDuration,
		Limiter:         timing.LimiterAdaptive,
	}
}

// Validate checks every field, returning an error that wraps one of the
// package sentinels where one applies.
func (c Config) Validate() error {
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: %d Hz outside [%d, %d]", ErrInvalidSampleRate, c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Curve.Gain < tables.MinGain || c.Curve.Gain > tables.MaxGain {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidGain, c.Curve.Gain, tables.MinGain, tables.MaxGain)
	}
	if err := c.Curve.Validate(); err != nil {
		return fmt.Errorf("invalid curve: %w", err)
	}
	if c.MixMode != synth.MixWrap && c.MixMode != synth.MixClamp {
		return fmt.Errorf("%w: %s", ErrUnknownMixMode, c.MixMode)
	}
	if c.Scaler != ScalerTable && c.Scaler != ScalerRatio {
		return fmt.Errorf("%w: %q", ErrUnknownScaler, c.Scaler)
	}
	if c.DefaultWaveform < 0 || c.DefaultWaveform >= tables.SlotCount {
		return fmt.Errorf("%w: slot %d", ErrUnknownWaveform, c.DefaultWaveform)
	}
	if c.SliceDuration <= 0 {
		return fmt.Errorf("invalid slice duration %v", c.SliceDuration)
	}
	if _, err := timing.ParseLimiterKind(string(c.Limiter)); err != nil {
		return err
	}
	return nil
}

// ParseScalerKind validates a scaler name.
func ParseScalerKind(name string) (ScalerKind, error) {
	switch k := ScalerKind(name); k {
	case ScalerTable, ScalerRatio:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScaler, name)
	}
}
