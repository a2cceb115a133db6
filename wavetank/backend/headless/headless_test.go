package headless_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-wavetank/wavetank/backend"
	"github.com/valerio/go-wavetank/wavetank/backend/headless"
	"github.com/valerio/go-wavetank/wavetank/debug"
	"github.com/valerio/go-wavetank/wavetank/input"
	"github.com/valerio/go-wavetank/wavetank/input/action"
	"github.com/valerio/go-wavetank/wavetank/input/event"
)

var _ backend.Backend = (*headless.Backend)(nil)

func TestHeadlessBackend(t *testing.T) {
	h := headless.New(3)
	require.NoError(t, h.Init(backend.BackendConfig{Title: "Test"}))

	snap := &debug.Snapshot{Output: 0x86}
	for i := 0; i < 3; i++ {
		events, err := h.Update(snap)
		require.NoError(t, err)

		if i < 2 {
			// Should not quit before reaching max frames
			assert.Empty(t, events)
		} else {
			// Should send quit event on last frame
			require.Len(t, events, 1)
			assert.Equal(t, action.SynthQuit, events[0].Action)
			assert.Equal(t, event.Press, events[0].Type)
		}
	}
	assert.Equal(t, 3, h.Frames())
	assert.Same(t, snap, h.Last())
	assert.NoError(t, h.Cleanup())
}

func TestLoopStopsOnQuit(t *testing.T) {
	h := headless.New(5)
	require.NoError(t, h.Init(backend.BackendConfig{}))

	frames := 0
	src := backend.FrameFunc(func() (*debug.Snapshot, error) {
		frames++
		return &debug.Snapshot{}, nil
	})
	require.NoError(t, backend.Loop(context.Background(), h, src, input.NewManager(), nil))
	assert.Equal(t, 5, frames)
}

func TestLoopStopsWhenSourceIsDone(t *testing.T) {
	h := headless.New(100)
	require.NoError(t, h.Init(backend.BackendConfig{}))

	frames := 0
	src := backend.FrameFunc(func() (*debug.Snapshot, error) {
		if frames == 10 {
			return nil, backend.ErrDone
		}
		frames++
		return &debug.Snapshot{}, nil
	})
	require.NoError(t, backend.Loop(context.Background(), h, src, nil, nil))
	assert.Equal(t, 10, h.Frames())
}

func TestLoopStopsOnCancel(t *testing.T) {
	h := headless.New(100)
	require.NoError(t, h.Init(backend.BackendConfig{}))

	ctx, cancel := context.WithCancel(context.Background())
	src := backend.FrameFunc(func() (*debug.Snapshot, error) {
		if h.Frames() == 4 {
			cancel()
		}
		return &debug.Snapshot{}, nil
	})
	require.NoError(t, backend.Loop(ctx, h, src, nil, nil))
	assert.Equal(t, 5, h.Frames())
}
