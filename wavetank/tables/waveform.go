package tables

import (
	"fmt"
	"strings"
)

// Size is the number of entries in a wavetable: one full cycle per phase wrap.
const Size = 256

// SlotCount is the number of wavetable slots a synth exposes.
const SlotCount = 8

// Waveform is one cycle of a periodic waveform, unsigned and centered at 128.
// It is indexed by the high byte of a voice phase. A Waveform must not be
// modified once a voice references it.
type Waveform [Size]uint8

// Sine is the reference sine table: round(128 + 127*sin(2*pi*i/256)).
var Sine = Waveform{
	0x80, 0x83, 0x86, 0x89, 0x8C, 0x90, 0x93, 0x96, 0x99, 0x9C, 0x9F, 0xA2, 0xA5, 0xA8, 0xAB, 0xAE,
	0xB1, 0xB3, 0xB6, 0xB9, 0xBC, 0xBF, 0xC1, 0xC4, 0xC7, 0xC9, 0xCC, 0xCE, 0xD1, 0xD3, 0xD5, 0xD8,
	0xDA, 0xDC, 0xDE, 0xE0, 0xE2, 0xE4, 0xE6, 0xE8, 0xEA, 0xEB, 0xED, 0xEF, 0xF0, 0xF1, 0xF3, 0xF4,
	0xF5, 0xF6, 0xF8, 0xF9, 0xFA, 0xFA, 0xFB, 0xFC, 0xFD, 0xFD, 0xFE, 0xFE, 0xFE, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xFE, 0xFE, 0xFD, 0xFD, 0xFC, 0xFB, 0xFA, 0xFA, 0xF9, 0xF8, 0xF6,
	0xF5, 0xF4, 0xF3, 0xF1, 0xF0, 0xEF, 0xED, 0xEB, 0xEA, 0xE8, 0xE6, 0xE4, 0xE2, 0xE0, 0xDE, 0xDC,
	0xDA, 0xD8, 0xD5, 0xD3, 0xD1, 0xCE, 0xCC, 0xC9, 0xC7, 0xC4, 0xC1, 0xBF, 0xBC, 0xB9, 0xB6, 0xB3,
	0xB1, 0xAE, 0xAB, 0xA8, 0xA5, 0xA2, 0x9F, 0x9C, 0x99, 0x96, 0x93, 0x90, 0x8C, 0x89, 0x86, 0x83,
	0x80, 0x7D, 0x7A, 0x77, 0x74, 0x70, 0x6D, 0x6A, 0x67, 0x64, 0x61, 0x5E, 0x5B, 0x58, 0x55, 0x52,
	0x4F, 0x4D, 0x4A, 0x47, 0x44, 0x41, 0x3F, 0x3C, 0x39, 0x37, 0x34, 0x32, 0x2F, 0x2D, 0x2B, 0x28,
	0x26, 0x24, 0x22, 0x20, 0x1E, 0x1C, 0x1A, 0x18, 0x16, 0x15, 0x13, 0x11, 0x10, 0x0F, 0x0D, 0x0C,
	0x0B, 0x0A, 0x08, 0x07, 0x06, 0x06, 0x05, 0x04, 0x03, 0x03, 0x02, 0x02, 0x02, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x02, 0x02, 0x02, 0x03, 0x03, 0x04, 0x05, 0x06, 0x06, 0x07, 0x08, 0x0A,
	0x0B, 0x0C, 0x0D, 0x0F, 0x10, 0x11, 0x13, 0x15, 0x16, 0x18, 0x1A, 0x1C, 0x1E, 0x20, 0x22, 0x24,
	0x26, 0x28, 0x2B, 0x2D, 0x2F, 0x32, 0x34, 0x37, 0x39, 0x3C, 0x3F, 0x41, 0x44, 0x47, 0x4A, 0x4D,
	0x4F, 0x52, 0x55, 0x58, 0x5B, 0x5E, 0x61, 0x64, 0x67, 0x6A, 0x6D, 0x70, 0x74, 0x77, 0x7A, 0x7D,
}

// Square returns a 50% square wave at full swing.
func Square() *Waveform {
	return Pulse(Size / 2)
}

// Pulse returns a pulse wave that is high for the first duty entries.
func Pulse(duty int) *Waveform {
	w := &Waveform{}
	for i := range w {
		if i < duty {
			w[i] = 0xFF
		} else {
			w[i] = 0x01
		}
	}
	return w
}

// Triangle returns a symmetric triangle wave peaking in the middle of the cycle.
func Triangle() *Waveform {
	w := &Waveform{}
	for i := range w {
		if i < Size/2 {
			w[i] = uint8(2*i + 1)
		} else {
			w[i] = uint8(255 - 2*(i-Size/2))
		}
	}
	return w
}

// Saw returns a rising sawtooth.
func Saw() *Waveform {
	w := &Waveform{}
	for i := range w {
		w[i] = uint8(i)
	}
	return w
}

// Crunch returns the triangle quantized to 16 steps, the stepped sound of
// 4-bit sound chips.
func Crunch() *Waveform {
	tri := Triangle()
	w := &Waveform{}
	for i := range w {
		w[i] = (tri[i] & 0xF0) | 0x08
	}
	return w
}

// Noise returns one table of pseudo-random bytes from a 15-bit LFSR. The same
// seed always yields the same table. A zero seed is replaced by 0x7FFF.
func Noise(seed uint16) *Waveform {
	lfsr := seed & 0x7FFF
	if lfsr == 0 {
		lfsr = 0x7FFF
	}

	w := &Waveform{}
	for i := range w {
		for j := 0; j < 8; j++ {
			feedback := (lfsr & 1) ^ ((lfsr >> 1) & 1)
			lfsr = (lfsr >> 1) | (feedback << 14)
		}
		w[i] = uint8(lfsr)
	}
	return w
}

// Set holds the wavetable slots voices select from.
type Set [SlotCount]*Waveform

var slotNames = [SlotCount]string{"sine", "crunch", "square", "triangle", "saw", "pulse25", "noise", "sine2"}

// DefaultSet returns the stock slot layout.
func DefaultSet() Set {
	sine := Sine
	sine2 := Sine
	return Set{
		&sine,
		Crunch(),
		Square(),
		Triangle(),
		Saw(),
		Pulse(Size / 4),
		Noise(0x7FFF),
		&sine2,
	}
}

// SlotName returns the stock name of a slot.
func SlotName(slot int) string {
	if slot < 0 || slot >= SlotCount {
		return "--"
	}
	return slotNames[slot]
}

// SlotByName resolves a waveform name or slot number to a slot index.
func SlotByName(name string) (int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range slotNames {
		if n == name {
			return i, nil
		}
	}
	var slot int
	if _, err := fmt.Sscanf(name, "%d", &slot); err == nil && slot >= 0 && slot < SlotCount {
		return slot, nil
	}
	return 0, fmt.Errorf("unknown waveform %q", name)
}

// Slot returns the slot index of w in the set, or -1 if w is not in it.
func (s *Set) Slot(w *Waveform) int {
	for i, candidate := range s {
		if candidate == w {
			return i
		}
	}
	return -1
}
