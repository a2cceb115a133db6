package synth

import (
	"github.com/valerio/go-wavetank/wavetank/bit"
	"github.com/valerio/go-wavetank/wavetank/tables"
)

// Scaler turns a raw waveform byte and a voice volume into a signed
// contribution, returned as a two's complement byte centered at zero.
type Scaler interface {
	Scale(sample, volume uint8) uint8
}

var (
	_ Scaler = (*TableScaler)(nil)
	_ Scaler = (*RatioScaler)(nil)
)

// TableScaler scales without multiplying: two reads from a volume-scaling
// table and one subtraction.
//
//	s  = sample >> 1
//	lo = table[(s - volume) mod 256]
//	hi = table[(s + volume) mod 256]
//	contribution = (lo - hi) mod 256
//
// The index arithmetic must wrap. Clamping or bounds checking it changes the
// output.
type TableScaler struct {
	table *tables.VolumeTable
}

func NewTableScaler(table *tables.VolumeTable) *TableScaler {
	return &TableScaler{table: table}
}

func (t *TableScaler) Scale(sample, volume uint8) uint8 {
	s := sample >> 1
	lo := t.table[bit.WrapSub(s, volume)]
	hi := t.table[bit.WrapAdd(s, volume)]
	return bit.WrapSub(lo, hi)
}

// Table returns the volume-scaling table the scaler reads.
func (t *TableScaler) Table() *tables.VolumeTable {
	return t.table
}

// RatioLevels is the number of steps of the ratio scaler, silence included.
const RatioLevels = 17

type ratioLevel struct {
	table uint8
	shift uint8
}

// RatioScaler is the alternative volume path: a fixed-ratio table pulls the
// sample toward the center, then an arithmetic shift halves it 0 to 3 times.
// Shift 4 is silence. Four ratios times four shifts plus silence give 17 levels.
type RatioScaler struct {
	tables [4]*tables.RatioTable
	levels [MaxVolume + 1]ratioLevel
}

func NewRatioScaler() *RatioScaler {
	r := &RatioScaler{tables: tables.RatioTables()}

	var steps [RatioLevels]ratioLevel
	steps[0] = ratioLevel{table: 3, shift: 4}
	for i := 1; i < RatioLevels; i++ {
		steps[i] = ratioLevel{table: uint8((i - 1) % 4), shift: uint8(3 - (i-1)/4)}
	}

	// volumes map linearly onto the levels across the clean range
	for v := range r.levels {
		level := (v + 2) / 4
		if level >= RatioLevels {
			level = RatioLevels - 1
		}
		r.levels[v] = steps[level]
	}
	return r
}

func (r *RatioScaler) Scale(sample, volume uint8) uint8 {
	lv := r.levels[volume&MaxVolume]
	if lv.shift >= 4 {
		return 0
	}
	d := bit.Signed(bit.WrapSub(r.tables[lv.table][sample], 128))
	d >>= lv.shift
	return uint8(d)
}
