package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

const wavFormatPCM = 1

// wavSink records what the engine plays into a wave file.
type wavSink struct {
	path   string
	file   *os.File
	enc    *wav.Encoder
	format Format
	buf    *goaudio.IntBuffer
}

func newWavSink(path string) *wavSink {
	return &wavSink{path: path}
}

func (s *wavSink) Configure(f Format) error {
	if err := f.validate(); err != nil {
		return err
	}
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", playerrors.ErrDevice, err)
	}
	s.file = file
	s.format = f
	s.enc = wav.NewEncoder(file, f.SampleRate, f.BitsPerSample, f.Channels, wavFormatPCM)
	s.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		SourceBitDepth: f.BitsPerSample,
	}
	return nil
}

func (s *wavSink) Write(buf []byte, frames int) (int, error) {
	if s.enc == nil {
		return 0, fmt.Errorf("%w: write before configure", playerrors.ErrDevice)
	}
	pcm := buf[:frames*s.format.FrameSize()]
	s.buf.Data = pcmToInts(s.buf.Data[:0], pcm, s.format.BitsPerSample)
	if err := s.enc.Write(s.buf); err != nil {
		return 0, err
	}
	return frames, nil
}

func (s *wavSink) Recover(err error) error { return err }
func (s *wavSink) Drain() error            { return nil }

// Close finalizes the wave header and closes the file.
func (s *wavSink) Close() error {
	if s.enc == nil {
		return nil
	}
	err := s.enc.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.enc = nil
	return err
}

// pcmToInts converts little-endian PCM samples to ints. 8-bit samples are
// unsigned, wider ones signed.
func pcmToInts(dst []int, pcm []byte, bits int) []int {
	width := bits / 8
	for i := 0; i+width <= len(pcm); i += width {
		b := pcm[i : i+width]
		var v int
		switch width {
		case 1:
			v = int(b[0])
		case 2:
			v = int(int16(uint16(b[0]) | uint16(b[1])<<8))
		case 3:
			v = int(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8)
		case 4:
			v = int(int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24))
		}
		dst = append(dst, v)
	}
	return dst
}
