package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-wavetank/wavetank"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

var globalFlags = []cli.Flag{
	cli.UintFlag{
		Name:  "sample-rate",
		Usage: "Tick rate in Hz",
		Value: wavetank.DefaultSampleRate,
	},
	cli.StringFlag{
		Name:  "curve",
		Usage: "Volume curve shape: quarter-square or sine",
		Value: tables.ShapeQuarterSquare.String(),
	},
	cli.IntFlag{
		Name:  "gain",
		Usage: fmt.Sprintf("Volume curve gain (%d-%d)", tables.MinGain, tables.MaxGain),
		Value: tables.DefaultGain,
	},
	cli.StringFlag{
		Name:  "mix",
		Usage: "Mix mode: wrap or clamp",
		Value: synth.MixWrap.String(),
	},
	cli.StringFlag{
		Name:  "scaler",
		Usage: "Volume scaler: table or ratio",
		Value: string(wavetank.ScalerTable),
	},
	cli.StringFlag{
		Name:  "waveform",
		Usage: "Waveform every voice boots with, by name or slot",
		Value: tables.SlotName(0),
	},
	cli.StringFlag{
		Name:  "limiter",
		Usage: "Realtime pacing: adaptive, ticker or none",
		Value: string(timing.LimiterAdaptive),
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	},
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		slog.Error("Error running wavetank", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "wavetank"
	app.Description = "An 8-voice 8-bit wavetable synthesizer"
	app.Usage = "wavetank [options] <command>"
	app.Version = "1.0.0"
	app.Flags = globalFlags
	app.Before = setupLogging
	app.Commands = []cli.Command{
		renderCommand,
		playCommand,
		monitorCommand,
		tablesCommand,
		notesCommand,
	}
	return app
}

func setupLogging(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// configFromFlags builds a synth configuration from the global flags.
func configFromFlags(c *cli.Context) (wavetank.Config, error) {
	cfg := wavetank.DefaultConfig()
	cfg.SampleRate = uint32(c.GlobalUint("sample-rate"))

	shape, err := tables.ParseShape(c.GlobalString("curve"))
	if err != nil {
		return cfg, err
	}
	gain := c.GlobalInt("gain")
	if gain < tables.MinGain || gain > tables.MaxGain {
		return cfg, fmt.Errorf("%w: %d outside [%d, %d]", wavetank.ErrInvalidGain, gain, tables.MinGain, tables.MaxGain)
	}
	cfg.Curve = tables.Curve{Shape: shape, Gain: uint8(gain)}

	if cfg.MixMode, err = synth.ParseMixMode(c.GlobalString("mix")); err != nil {
		return cfg, fmt.Errorf("%w: %q", wavetank.ErrUnknownMixMode, c.GlobalString("mix"))
	}
	if cfg.Scaler, err = wavetank.ParseScalerKind(c.GlobalString("scaler")); err != nil {
		return cfg, err
	}
	if cfg.DefaultWaveform, err = tables.SlotByName(c.GlobalString("waveform")); err != nil {
		return cfg, fmt.Errorf("%w: %q", wavetank.ErrUnknownWaveform, c.GlobalString("waveform"))
	}
	if cfg.Limiter, err = timing.ParseLimiterKind(c.GlobalString("limiter")); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}
