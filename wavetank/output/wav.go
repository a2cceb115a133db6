package output

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth = 8
	wavChannels = 1
	wavPCM      = 1
	wavChunk    = 4096
)

// WavRecorder captures latched samples into an 8-bit mono WAV stream. Samples
// are encoded in chunks; the header is finalized by Close.
type WavRecorder struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	closer io.Closer
	count  int
	err    error
}

// NewWavRecorder encodes to w, which must stay open until Close.
func NewWavRecorder(w io.WriteSeeker, sampleRate int) *WavRecorder {
	return &WavRecorder{
		enc: wav.NewEncoder(w, sampleRate, wavBitDepth, wavChannels, wavPCM),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: wavChannels,
				SampleRate:  sampleRate,
			},
			Data:           make([]int, 0, wavChunk),
			SourceBitDepth: wavBitDepth,
		},
	}
}

// CreateWav creates the file at path and records into it. Close also closes
// the file.
func CreateWav(path string, sampleRate int) (*WavRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}
	r := NewWavRecorder(f, sampleRate)
	r.closer = f
	return r, nil
}

func (r *WavRecorder) Latch(sample uint8) {
	r.buf.Data = append(r.buf.Data, int(sample))
	r.count++
	if len(r.buf.Data) == wavChunk {
		r.flush()
	}
}

// Len returns the number of samples recorded so far.
func (r *WavRecorder) Len() int {
	return r.count
}

func (r *WavRecorder) flush() {
	if len(r.buf.Data) == 0 {
		return
	}
	if r.err == nil {
		if err := r.enc.Write(r.buf); err != nil {
			r.err = fmt.Errorf("writing wav samples: %w", err)
		}
	}
	r.buf.Data = r.buf.Data[:0]
}

// Close writes the pending samples and the final header. It returns the first
// error seen while recording.
func (r *WavRecorder) Close() error {
	r.flush()
	if err := r.enc.Close(); err != nil && r.err == nil {
		r.err = fmt.Errorf("closing wav encoder: %w", err)
	}
	if r.closer != nil {
		if err := r.closer.Close(); err != nil && r.err == nil {
			r.err = err
		}
		r.closer = nil
	}
	return r.err
}
