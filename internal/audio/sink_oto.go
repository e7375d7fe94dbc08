package audio

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/oto"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// otoSink plays through the system audio device. oto allows a single
// context per process, so the context lives from Configure to Close.
// 24 and 32 bit streams are narrowed to 16 bits before they reach the device.
type otoSink struct {
	ctx    *oto.Context
	player *oto.Player
	format Format

	// sampleBytes is the width of an incoming sample, deviceBytes the width
	// the context was opened with.
	sampleBytes int
	deviceBytes int
	scratch     []byte

	// queuedUntil is when the audio written so far is expected to finish playing.
	queuedUntil time.Time
}

func newOtoSink() *otoSink {
	return &otoSink{}
}

// deviceSampleBytes returns the sample width oto is opened with for a
// stream of the given bit depth.
func deviceSampleBytes(bits int) (int, error) {
	switch bits {
	case 8:
		return 1, nil
	case 16, 24, 32:
		return 2, nil
	}
	return 0, fmt.Errorf("%w: %d bits per sample", playerrors.ErrInvalidFormat, bits)
}

func (s *otoSink) Configure(f Format) error {
	if err := f.validate(); err != nil {
		return err
	}
	deviceBytes, err := deviceSampleBytes(f.BitsPerSample)
	if err != nil {
		return err
	}

	device := f
	device.BitsPerSample = deviceBytes * 8
	ctx, err := oto.NewContext(f.SampleRate, f.Channels, deviceBytes, device.BufferBytes())
	if err != nil {
		return fmt.Errorf("%w: %w", playerrors.ErrDevice, err)
	}
	s.ctx = ctx
	s.player = ctx.NewPlayer()
	s.format = f
	s.sampleBytes = f.BitsPerSample / 8
	s.deviceBytes = deviceBytes
	s.queuedUntil = time.Time{}
	return nil
}

func (s *otoSink) Write(buf []byte, frames int) (int, error) {
	if s.player == nil {
		return 0, fmt.Errorf("%w: write before configure", playerrors.ErrDevice)
	}
	out := buf[:frames*s.format.FrameSize()]
	if s.sampleBytes > s.deviceBytes {
		s.scratch = toS16(s.scratch, out, s.sampleBytes)
		out = s.scratch
	}
	n, err := s.player.Write(out)
	written := n / (s.format.Channels * s.deviceBytes)

	now := time.Now()
	if s.queuedUntil.Before(now) {
		s.queuedUntil = now
	}
	s.queuedUntil = s.queuedUntil.Add(time.Duration(written) * time.Second / time.Duration(s.format.SampleRate))
	return written, err
}

// Recover replaces the player; the context and its format are kept.
func (s *otoSink) Recover(err error) error {
	if s.ctx == nil {
		return fmt.Errorf("%w: recover before configure", playerrors.ErrDevice)
	}
	if s.player != nil {
		s.player.Close()
	}
	s.player = s.ctx.NewPlayer()
	s.queuedUntil = time.Time{}
	return nil
}

// Drain waits for the audio already handed to the device to be played.
func (s *otoSink) Drain() error {
	if wait := time.Until(s.queuedUntil); wait > 0 {
		time.Sleep(wait)
	}
	return nil
}

func (s *otoSink) Close() error {
	var err error
	if s.player != nil {
		err = s.player.Close()
		s.player = nil
	}
	if s.ctx != nil {
		if cerr := s.ctx.Close(); err == nil {
			err = cerr
		}
		s.ctx = nil
	}
	return err
}
