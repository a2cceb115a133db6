package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-wavetank/wavetank/pitch"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

func TestVolumeTable(t *testing.T) {
	vt, err := tables.NewVolumeTable(tables.DefaultCurve())
	require.NoError(t, err)

	out := VolumeTable(tables.DefaultCurve(), vt)
	assert.Contains(t, out, "Volume table quarter-square/7")
	assert.Contains(t, out, " F8")
	assert.Contains(t, out, "Fx")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 17)
}

func TestRatioTables(t *testing.T) {
	out := RatioTables(tables.RatioTables())
	for _, name := range []string{"Ratio table 1", "Ratio table 7/8", "Ratio table 3/4", "Ratio table 5/8"} {
		assert.Contains(t, out, name)
	}
}

func TestWaveforms(t *testing.T) {
	set := tables.DefaultSet()
	out := Waveforms(&set)
	for i := 0; i < tables.SlotCount; i++ {
		assert.Contains(t, out, tables.SlotName(i))
	}
	assert.Contains(t, Waveform("square", set[2]), "Waveform square")
}

func TestNotes(t *testing.T) {
	out := Notes(pitch.NewTable(13983))
	assert.Contains(t, out, "Pitch table at 13983 Hz")
	assert.Contains(t, out, "A4")
	assert.Contains(t, out, "0x080d")
	assert.NotContains(t, out, "0x00080d")
	assert.Contains(t, out, "440")
}

func TestSummary(t *testing.T) {
	out := Summary("demo.wav", 32, timing.Stats{Ticks: 447456, Misses: 0, WorstDispatch: time.Millisecond})
	assert.Contains(t, out, "demo.wav")
	assert.Contains(t, out, "32.00s")
	assert.Contains(t, out, "447456")
}
