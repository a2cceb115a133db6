package synth

import "fmt"

// Silence is the center value of the unsigned 8-bit output.
const Silence uint8 = 128

// MixMode selects the overflow policy of the mixer.
type MixMode int

const (
	// MixWrap folds contributions with mod 256 addition. Constant cost, no
	// branches; many loud voices wrap around audibly.
	MixWrap MixMode = iota
	// MixClamp sums contributions in a wide accumulator and saturates the
	// result to [0, 255]. An explicit extension, never the default.
	MixClamp
)

func (m MixMode) String() string {
	switch m {
	case MixWrap:
		return "wrap"
	case MixClamp:
		return "clamp"
	default:
		return fmt.Sprintf("MixMode(%d)", int(m))
	}
}

// ParseMixMode resolves a mix mode name.
func ParseMixMode(name string) (MixMode, error) {
	switch name {
	case "wrap":
		return MixWrap, nil
	case "clamp":
		return MixClamp, nil
	default:
		return 0, fmt.Errorf("unknown mix mode %q", name)
	}
}

// Mix folds the contributions in ascending voice order starting from Silence.
func (m MixMode) Mix(contributions *[VoiceCount]uint8) uint8 {
	if m == MixClamp {
		return mixClamp(contributions)
	}
	return mixWrap(contributions)
}

func mixWrap(contributions *[VoiceCount]uint8) uint8 {
	mix := Silence
	for _, c := range contributions {
		mix += c
	}
	return mix
}

func mixClamp(contributions *[VoiceCount]uint8) uint8 {
	mix := int(Silence)
	for _, c := range contributions {
		mix += int(int8(c))
	}
	if mix > 0xFF {
		return 0xFF
	}
	if mix < 0 {
		return 0
	}
	return uint8(mix)
}
