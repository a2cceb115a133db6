package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/valerio/go-wavetank/wavetank"
	"github.com/valerio/go-wavetank/wavetank/backend"
	"github.com/valerio/go-wavetank/wavetank/backend/headless"
	"github.com/valerio/go-wavetank/wavetank/backend/terminal"
	"github.com/valerio/go-wavetank/wavetank/control"
	"github.com/valerio/go-wavetank/wavetank/debug"
	"github.com/valerio/go-wavetank/wavetank/input"
	"github.com/valerio/go-wavetank/wavetank/output"
	"github.com/valerio/go-wavetank/wavetank/pitch"
	"github.com/valerio/go-wavetank/wavetank/report"
	"github.com/valerio/go-wavetank/wavetank/script"
	"github.com/valerio/go-wavetank/wavetank/sequencer"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

const (
	// audioBufferDivisor sizes the audio ring at 1/5 of a second of samples.
	audioBufferDivisor = 5
	scopeSamples       = 256
	frameDuration      = time.Second / sequencer.FramesPerSecond
)

var scriptFlag = cli.StringFlag{
	Name:  "script",
	Usage: "Lua script to play instead of the built-in demo",
}

var renderCommand = cli.Command{
	Name:  "render",
	Usage: "Render the demo or a script to a WAV file as fast as possible",
	Flags: []cli.Flag{
		cli.Float64Flag{
			Name:  "seconds",
			Usage: "Length of the render",
			Value: 32,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Path of the WAV file to write",
			Value: "wavetank.wav",
		},
		scriptFlag,
	},
	Action: runRender,
}

var playCommand = cli.Command{
	Name:  "play",
	Usage: "Play the demo or a script on the audio device in realtime",
	Flags: []cli.Flag{
		cli.Float64Flag{
			Name:  "seconds",
			Usage: "Stop after this many seconds (0 = when the program ends)",
		},
		scriptFlag,
	},
	Action: runPlay,
}

var monitorCommand = cli.Command{
	Name:  "monitor",
	Usage: "Open the terminal monitor with realtime audio",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "demo",
			Usage: "Play the built-in demo while monitoring",
		},
		scriptFlag,
	},
	Action: runMonitor,
}

var tablesCommand = cli.Command{
	Name:  "tables",
	Usage: "Print the volume-scaling tables and the waveform slots",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "waveforms",
			Usage: "Also dump every waveform table",
		},
	},
	Action: runTables,
}

var notesCommand = cli.Command{
	Name:   "notes",
	Usage:  "Print the pitch table for the configured sample rate",
	Action: runNotes,
}

// program is the foreground sequence a command plays: a Lua script when a
// path is given, the built-in demo otherwise.
type program struct {
	sequencer.Sequence
	script *script.Script
}

func loadProgram(path string, syn *wavetank.Synth) (*program, error) {
	if path == "" {
		slog.Info("Playing built-in demo")
		return &program{Sequence: sequencer.NewDemo(syn, synth.VoiceCount)}, nil
	}

	s, err := script.Load(path, syn)
	if err != nil {
		return nil, err
	}
	slog.Info("Playing script", "path", path)
	return &program{Sequence: s, script: s}, nil
}

// Close releases the script, returning the error that ended it.
func (p *program) Close() error {
	if p == nil || p.script == nil {
		return nil
	}
	err := p.script.Err()
	p.script.Close()
	return err
}

func runBackend(ctx context.Context, b backend.Backend, config backend.BackendConfig, src backend.FrameSource, manager *input.Manager, limiter timing.Limiter) error {
	if err := b.Init(config); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()
	return backend.Loop(ctx, b, src, manager, limiter)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runRender(c *cli.Context) error {
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}
	seconds := c.Float64("seconds")
	if seconds <= 0 {
		return errors.New("render requires --seconds with a positive value")
	}
	path := c.String("out")

	rec, err := output.CreateWav(path, int(cfg.SampleRate))
	if err != nil {
		return err
	}
	syn, err := wavetank.New(cfg, rec)
	if err != nil {
		return errors.Join(err, rec.Close())
	}
	prog, err := loadProgram(c.String("script"), syn)
	if err != nil {
		return errors.Join(err, rec.Close())
	}

	ctx, stop := signalContext()
	defer stop()

	clock := timing.NewFrameClock(cfg.SampleRate, sequencer.FramesPerSecond)
	src := backend.FrameFunc(func() (*debug.Snapshot, error) {
		prog.Tick()
		if prog.Done() {
			return nil, backend.ErrDone
		}
		syn.RunTicks(clock.Next())
		return syn.Snapshot(nil), nil
	})

	frames := int(seconds * sequencer.FramesPerSecond)
	err = runBackend(ctx, headless.New(frames), backend.BackendConfig{Title: "wavetank render"}, src, nil, nil)
	if err := errors.Join(err, prog.Close(), rec.Close()); err != nil {
		return err
	}

	length := float64(rec.Len()) / float64(cfg.SampleRate)
	fmt.Println(report.Summary(path, length, syn.Stats()))
	return nil
}

func runPlay(c *cli.Context) error {
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}

	ring := output.NewRing(int(cfg.SampleRate) / audioBufferDivisor)
	syn, err := wavetank.New(cfg, ring)
	if err != nil {
		return err
	}
	player, err := output.NewPlayer(int(cfg.SampleRate), ring)
	if err != nil {
		return fmt.Errorf("opening audio output: %w", err)
	}
	defer closePlayer(player)

	prog, err := loadProgram(c.String("script"), syn)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- syn.Run(ctx) }()
	player.Start()

	frames := math.MaxInt
	if seconds := c.Float64("seconds"); seconds > 0 {
		frames = int(seconds * sequencer.FramesPerSecond)
	}
	limiter := timing.NewTickerLimiter(frameDuration)
	defer limiter.Stop()

	src := backend.FrameFunc(func() (*debug.Snapshot, error) {
		prog.Tick()
		if prog.Done() {
			return nil, backend.ErrDone
		}
		return syn.Snapshot(nil), nil
	})
	err = runBackend(ctx, headless.New(frames), backend.BackendConfig{Title: "wavetank play"}, src, nil, limiter)

	cancel()
	runErr := <-done
	stats := syn.Stats()
	dropped, underruns := ring.Stats()
	slog.Info("Playback finished", "ticks", stats.Ticks, "misses", stats.Misses,
		"overruns", stats.Overruns, "dropped", dropped, "underruns", underruns)
	return errors.Join(err, prog.Close(), runErr)
}

func runMonitor(c *cli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("monitor needs an interactive terminal")
	}
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}

	audio := output.NewRing(int(cfg.SampleRate) / audioBufferDivisor)
	scope := output.NewRing(scopeSamples)
	syn, err := wavetank.New(cfg, audio, scope)
	if err != nil {
		return err
	}

	if player, err := output.NewPlayer(int(cfg.SampleRate), audio); err != nil {
		slog.Warn("Audio output unavailable, monitoring without sound", "error", err)
	} else {
		player.Start()
		defer closePlayer(player)
	}

	var prog *program
	if c.Bool("demo") || c.String("script") != "" {
		if prog, err = loadProgram(c.String("script"), syn); err != nil {
			return err
		}
	}

	manager := input.NewManager()
	ctrl := control.New(syn)
	ctrl.Bind(manager)

	ctx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- syn.Run(ctx) }()

	limiter := timing.NewTickerLimiter(frameDuration)
	defer limiter.Stop()

	src := backend.FrameFunc(func() (*debug.Snapshot, error) {
		if prog != nil && !prog.Done() {
			prog.Tick()
		}
		snap := syn.Snapshot(scope.Samples(scope.Len()))
		snap.Selected = ctrl.Selected()
		return snap, nil
	})
	err = runBackend(ctx, terminal.New(), backend.BackendConfig{Title: "wavetank", ShowScope: true}, src, manager, limiter)

	cancel()
	return errors.Join(err, prog.Close(), <-done)
}

func closePlayer(p *output.Player) {
	if err := p.Close(); err != nil {
		slog.Error("Failed to close audio output", "error", err)
	}
}

func runTables(c *cli.Context) error {
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}

	syn, err := wavetank.New(cfg)
	if err != nil {
		return err
	}
	if vt := syn.VolumeTable(); vt != nil {
		fmt.Println(report.VolumeTable(cfg.Curve, vt))
	} else {
		fmt.Println(report.RatioTables(tables.RatioTables()))
	}

	set := syn.Waveforms()
	fmt.Println(report.Waveforms(set))
	if c.Bool("waveforms") {
		for i, w := range set {
			fmt.Println(report.Waveform(tables.SlotName(i), w))
		}
	}
	return nil
}

func runNotes(c *cli.Context) error {
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}
	fmt.Println(report.Notes(pitch.NewTable(cfg.SampleRate)))
	return nil
}
