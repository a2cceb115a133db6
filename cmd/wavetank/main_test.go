package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"github.com/valerio/go-wavetank/wavetank"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

// parseGlobalFlags runs the app with a single command that only parses the
// global flags.
func parseGlobalFlags(args ...string) (wavetank.Config, error) {
	var cfg wavetank.Config
	app := newApp()
	app.Commands = []cli.Command{{
		Name: "config",
		Action: func(c *cli.Context) error {
			var err error
			cfg, err = configFromFlags(c)
			return err
		},
	}}
	err := app.Run(append(append([]string{"wavetank"}, args...), "config"))
	return cfg, err
}

func TestConfigFromFlags_Defaults(t *testing.T) {
	cfg, err := parseGlobalFlags()
	require.NoError(t, err)
	assert.Equal(t, wavetank.DefaultConfig(), cfg)
}

func TestConfigFromFlags_Overrides(t *testing.T) {
	cfg, err := parseGlobalFlags(
		"--sample-rate", "22050",
		"--curve", "sine",
		"--gain", "6",
		"--mix", "clamp",
		"--scaler", "ratio",
		"--waveform", "saw",
		"--limiter", "ticker",
	)
	require.NoError(t, err)

	assert.Equal(t, uint32(22050), cfg.SampleRate)
	assert.Equal(t, tables.Curve{Shape: tables.ShapeSine, Gain: 6}, cfg.Curve)
	assert.Equal(t, synth.MixClamp, cfg.MixMode)
	assert.Equal(t, wavetank.ScalerRatio, cfg.Scaler)
	assert.Equal(t, 4, cfg.DefaultWaveform)
	assert.Equal(t, timing.LimiterTicker, cfg.Limiter)
	assert.Equal(t, 10*time.Millisecond, cfg.SliceDuration)
}

func TestConfigFromFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"sample rate too low", []string{"--sample-rate", "100"}, wavetank.ErrInvalidSampleRate},
		{"gain too high", []string{"--gain", "9"}, wavetank.ErrInvalidGain},
		{"unknown mix", []string{"--mix", "fold"}, wavetank.ErrUnknownMixMode},
		{"unknown scaler", []string{"--scaler", "fast"}, wavetank.ErrUnknownScaler},
		{"unknown waveform", []string{"--waveform", "organ"}, wavetank.ErrUnknownWaveform},
		{"waveform slot out of range", []string{"--waveform", "8"}, wavetank.ErrUnknownWaveform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGlobalFlags(tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := parseGlobalFlags("--curve", "cubic")
	assert.Error(t, err)
	_, err = parseGlobalFlags("--limiter", "sometimes")
	assert.Error(t, err)
}

func renderedSamples(t *testing.T, path string) []int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(wavetank.DefaultSampleRate), dec.SampleRate)

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf.Data
}

func TestRenderDemo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.wav")
	err := newApp().Run([]string{"wavetank", "render", "--seconds", "2", "--out", path})
	require.NoError(t, err)

	samples := renderedSamples(t, path)
	assert.Len(t, samples, 2*wavetank.DefaultSampleRate)

	moving := false
	for _, s := range samples {
		if s != int(synth.Silence) {
			moving = true
			break
		}
	}
	assert.True(t, moving, "the demo starts C4 after one second")
}

func TestRenderScriptStopsWhenScriptEnds(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "a4.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
note(0, "A4")
level(0, 16)
wait(120)
`), 0o644))
	path := filepath.Join(dir, "a4.wav")

	err := newApp().Run([]string{"wavetank", "render", "--seconds", "10", "--out", path, "--script", script})
	require.NoError(t, err)

	assert.Len(t, renderedSamples(t, path), 2*wavetank.DefaultSampleRate)
}

func TestRenderReportsScriptErrors(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bad.lua")
	require.NoError(t, os.WriteFile(script, []byte(`error("boom")`), 0o644))

	err := newApp().Run([]string{"wavetank", "render", "--out", filepath.Join(dir, "bad.wav"), "--script", script})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRenderRejectsBadLength(t *testing.T) {
	err := newApp().Run([]string{"wavetank", "render", "--seconds", "0", "--out", filepath.Join(t.TempDir(), "x.wav")})
	assert.Error(t, err)
}

func TestTablesAndNotes(t *testing.T) {
	assert.NoError(t, newApp().Run([]string{"wavetank", "tables", "--waveforms"}))
	assert.NoError(t, newApp().Run([]string{"wavetank", "--scaler", "ratio", "tables"}))
	assert.NoError(t, newApp().Run([]string{"wavetank", "--sample-rate", "8000", "notes"}))
}
