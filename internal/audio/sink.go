package audio

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// Format describes the PCM stream a sink is configured for.
// Samples are signed little-endian and interleaved.
type Format struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	Periods       int
	BufferLatency time.Duration
}

// FrameSize returns the number of bytes in one interleaved frame
func (f Format) FrameSize() int {
	return f.Channels * f.BitsPerSample / 8
}

// BufferBytes returns the device buffer size implied by BufferLatency
func (f Format) BufferBytes() int {
	frames := int(f.BufferLatency.Seconds() * float64(f.SampleRate))
	if frames <= 0 {
		frames = 1
	}
	return frames * f.FrameSize()
}

func (f Format) validate() error {
	if f.Channels <= 0 || f.SampleRate <= 0 || f.FrameSize() <= 0 {
		return fmt.Errorf("%w: unsupported format %+v", playerrors.ErrDevice, f)
	}
	return nil
}

// toS16 narrows little-endian samples width bytes wide to 16 bits by keeping
// the two most significant bytes of each sample. A trailing partial sample
// is dropped. The result reuses dst.
func toS16(dst, src []byte, width int) []byte {
	n := len(src) / width
	dst = dst[:0]
	for i := 0; i < n; i++ {
		sample := src[i*width : (i+1)*width]
		dst = append(dst, sample[width-2], sample[width-1])
	}
	return dst
}

// Sink is an audio output the playback engine writes periods to.
type Sink interface {
	// Configure prepares the sink for the given stream format.
	Configure(f Format) error
	// Write blocks until frames frames from buf were accepted and returns
	// the number of frames written.
	Write(buf []byte, frames int) (int, error)
	// Recover tries to bring the sink back after a failed Write.
	Recover(err error) error
	// Drain blocks until buffered audio has been played.
	Drain() error
	Close() error
}

// Opener opens a sink by device name.
type Opener func(device string) (Sink, error)

// Open resolves a device name to a sink:
//
//	default, oto   the system audio device
//	null           discard all audio
//	raw:<path>     append raw PCM bytes to a file
//	wav:<path>     record a wave file
func Open(device string) (Sink, error) {
	kind, arg, _ := strings.Cut(device, ":")
	switch kind {
	case "", "default", "oto":
		return newOtoSink(), nil
	case "null":
		return &nullSink{}, nil
	case "raw":
		if arg == "" {
			break
		}
		f, err := os.OpenFile(arg, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, playerrors.NewPlayerError("open", device, fmt.Errorf("%w: %w", playerrors.ErrDevice, err))
		}
		return newRawSink(f), nil
	case "wav":
		if arg == "" {
			break
		}
		return newWavSink(arg), nil
	}
	return nil, playerrors.NewPlayerError("open", device, fmt.Errorf("%w: unknown device", playerrors.ErrDevice))
}

// nullSink accepts and drops everything.
type nullSink struct {
	format  Format
	frames  int
	drained bool
}

func (s *nullSink) Configure(f Format) error {
	if err := f.validate(); err != nil {
		return err
	}
	s.format = f
	return nil
}

func (s *nullSink) Write(buf []byte, frames int) (int, error) {
	s.frames += frames
	return frames, nil
}

func (s *nullSink) Recover(err error) error { return nil }
func (s *nullSink) Drain() error            { s.drained = true; return nil }
func (s *nullSink) Close() error            { return nil }

// rawSink writes interleaved PCM bytes unchanged.
type rawSink struct {
	w         io.WriteCloser
	frameSize int
}

func newRawSink(w io.WriteCloser) *rawSink {
	return &rawSink{w: w}
}

func (s *rawSink) Configure(f Format) error {
	if err := f.validate(); err != nil {
		return err
	}
	s.frameSize = f.FrameSize()
	return nil
}

func (s *rawSink) Write(buf []byte, frames int) (int, error) {
	if s.frameSize == 0 {
		return 0, fmt.Errorf("%w: write before configure", playerrors.ErrDevice)
	}
	n, err := s.w.Write(buf[:frames*s.frameSize])
	return n / s.frameSize, err
}

// Recover has nothing to reset for a file; the failing write is reported again.
func (s *rawSink) Recover(err error) error { return err }
func (s *rawSink) Drain() error            { return nil }
func (s *rawSink) Close() error            { return s.w.Close() }
