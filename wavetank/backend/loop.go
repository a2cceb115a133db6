package backend

import (
	"context"
	"errors"
	"log/slog"

	"github.com/valerio/go-wavetank/wavetank/debug"
	"github.com/valerio/go-wavetank/wavetank/input"
	"github.com/valerio/go-wavetank/wavetank/input/action"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

// ErrDone is returned by a FrameSource that has nothing more to play.
var ErrDone = errors.New("done")

// FrameSource advances the synth by one frame of foreground work and reports
// the resulting state.
type FrameSource interface {
	Frame() (*debug.Snapshot, error)
}

// FrameFunc adapts a function to FrameSource.
type FrameFunc func() (*debug.Snapshot, error)

func (f FrameFunc) Frame() (*debug.Snapshot, error) {
	return f()
}

// Loop drives the backend once per frame until ctx is done, the source
// returns ErrDone, or a quit action arrives. Other actions are passed to
// manager, which may be nil.
func Loop(ctx context.Context, b Backend, src FrameSource, manager *input.Manager, limiter timing.Limiter) error {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}
	limiter.Reset()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		snap, err := src.Frame()
		if errors.Is(err, ErrDone) {
			slog.Debug("Frame source finished", "frames", frame)
			return nil
		}
		if err != nil {
			return err
		}

		events, err := b.Update(snap)
		if err != nil {
			return err
		}
		for _, evt := range events {
			if evt.Action == action.SynthQuit {
				slog.Info("Quit requested", "frames", frame+1)
				return nil
			}
			if manager != nil {
				manager.Trigger(evt.Action, evt.Type)
			}
		}

		limiter.WaitForNextSlice()
	}
}
