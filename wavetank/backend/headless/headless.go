package headless

import (
	"log/slog"
	"os"

	"github.com/valerio/go-wavetank/wavetank/backend"
	"github.com/valerio/go-wavetank/wavetank/debug"
	"github.com/valerio/go-wavetank/wavetank/input/action"
	"github.com/valerio/go-wavetank/wavetank/input/event"
)

// progressInterval is how many frames pass between progress logs.
const progressInterval = 60

// Backend implements the Backend interface for batch rendering and tests
type Backend struct {
	config     backend.BackendConfig
	frameCount int
	maxFrames  int
	last       *debug.Snapshot
}

func New(maxFrames int) *Backend {
	return &Backend{
		maxFrames: maxFrames,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	// Set up debug logging for headless mode
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode", "title", config.Title, "frames", h.maxFrames)
	return nil
}

// Update counts the frame and asks to quit once maxFrames have passed
func (h *Backend) Update(snapshot *debug.Snapshot) ([]backend.InputEvent, error) {
	h.frameCount++
	h.last = snapshot

	if h.frameCount%progressInterval == 0 {
		attrs := []any{"completed", h.frameCount, "total", h.maxFrames}
		if snapshot != nil {
			attrs = append(attrs, "ticks", snapshot.Scheduler.Ticks, "output", snapshot.Output)
		}
		slog.Info("Frame progress", attrs...)
	}

	if h.frameCount >= h.maxFrames {
		slog.Info("Headless execution completed", "frames", h.frameCount)
		return []backend.InputEvent{{Action: action.SynthQuit, Type: event.Press}}, nil
	}
	return nil, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns how many frames have been processed.
func (h *Backend) Frames() int {
	return h.frameCount
}

// Last returns the most recent snapshot seen.
func (h *Backend) Last() *debug.Snapshot {
	return h.last
}
