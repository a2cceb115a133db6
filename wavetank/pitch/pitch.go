// Package pitch converts MIDI notes to phase increments for a 16-bit phase
// accumulator whose high byte indexes a 256-entry wavetable.
package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// NoteCount is the number of MIDI notes.
	NoteCount = 128

	phaseModulus = 1 << 16

	// semitoneRatioQ16 is 2^(1/12) in Q16.
	semitoneRatioQ16 = 69433
	// midi0FreqQ16 is the frequency of MIDI note 0 (8.1757989156 Hz) in Q16.
	midi0FreqQ16 = 535400
)

// Note is a MIDI note number, 0..127. Middle C (C4) is 60.
type Note uint8

const (
	C4 Note = 60
	A4 Note = 69
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteOffsets = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3, "E": 4, "F": 5, "F#": 6,
	"GB": 6, "G": 7, "G#": 8, "AB": 8, "A": 9, "A#": 10, "BB": 10, "B": 11,
}

// Octave returns the note's octave, -1..9.
func (n Note) Octave() int {
	return int(n)/12 - 1
}

func (n Note) String() string {
	if n >= NoteCount {
		return "--"
	}
	return noteNames[int(n)%12] + strconv.Itoa(n.Octave())
}

// ParseNote parses names like "C4", "F#3", "Bb2" or a plain MIDI number.
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= NoteCount {
			return 0, fmt.Errorf("note %d out of range", n)
		}
		return Note(n), nil
	}

	upper := strings.ToUpper(s)
	split := 1
	if len(upper) > 1 && (upper[1] == '#' || upper[1] == 'B') {
		split = 2
	}
	if len(upper) <= split {
		return 0, fmt.Errorf("invalid note %q", s)
	}

	offset, ok := noteOffsets[upper[:split]]
	if !ok {
		return 0, fmt.Errorf("invalid note %q", s)
	}
	octave, err := strconv.Atoi(upper[split:])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in note %q: %w", s, err)
	}

	n := (octave+1)*12 + offset
	if n < 0 || n >= NoteCount {
		return 0, fmt.Errorf("note %q out of range", s)
	}
	return Note(n), nil
}

// Table maps every MIDI note to a phase increment for one sample rate.
type Table struct {
	sampleRate uint32
	increments [NoteCount]uint16
}

// NewTable builds the increment table for the given sample rate. Frequencies
// are stepped in Q16 fixed point from MIDI note 0, one semitone ratio at a
// time, and rounded to the nearest increment. Increments that would not fit
// in 16 bits (notes far above Nyquist) saturate at 0xFFFF.
func NewTable(sampleRate uint32) *Table {
	t := &Table{sampleRate: sampleRate}
	if sampleRate == 0 {
		return t
	}

	freqQ16 := uint32(midi0FreqQ16)
	for i := range t.increments {
		t.increments[i] = hzQ16ToIncrement(uint64(freqQ16), sampleRate)
		freqQ16 = mulQ16(freqQ16, semitoneRatioQ16)
	}
	return t
}

// Increment returns the phase increment for a note.
func (t *Table) Increment(n Note) uint16 {
	return t.increments[n&(NoteCount-1)]
}

// SampleRate returns the rate the table was built for.
func (t *Table) SampleRate() uint32 {
	return t.sampleRate
}

// Increments returns a copy of the whole table.
func (t *Table) Increments() [NoteCount]uint16 {
	return t.increments
}

// Nearest returns the note whose increment is closest to inc.
func (t *Table) Nearest(inc uint16) Note {
	best := Note(0)
	bestDist := int(^uint(0) >> 1)
	for i, candidate := range t.increments {
		d := int(candidate) - int(inc)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = Note(i), d
		}
	}
	return best
}

// IncrementForHz returns round(hz * 65536 / sampleRate), saturated to 16 bits.
// Zero, negative and NaN frequencies give 0.
func IncrementForHz(hz float64, sampleRate uint32) uint16 {
	if sampleRate == 0 || !(hz > 0) {
		return 0
	}
	if hz >= float64(sampleRate) {
		return 0xFFFF
	}
	return hzQ16ToIncrement(uint64(hz*phaseModulus+0.5), sampleRate)
}

// IncrementToHz returns the output frequency an increment produces, rounded
// to the nearest hertz.
func IncrementToHz(inc uint16, sampleRate uint32) uint32 {
	return uint32((uint64(sampleRate)*uint64(inc) + phaseModulus/2) / phaseModulus)
}

func hzQ16ToIncrement(hzQ16 uint64, sampleRate uint32) uint16 {
	inc := (hzQ16 + uint64(sampleRate)/2) / uint64(sampleRate)
	if inc > 0xFFFF {
		return 0xFFFF
	}
	return uint16(inc)
}

func mulQ16(a, b uint32) uint32 {
	return uint32((uint64(a) * uint64(b)) >> 16)
}
