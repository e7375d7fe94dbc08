package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// Canonical WAV header layout. Only the fixed 44-byte header is supported;
// PCM data starts right after it.
const (
	HeaderSize = 44

	offsetChannels      = 22
	offsetSampleRate    = 24
	offsetBitsPerSample = 34
	offsetDataSize      = 40
)

// Extension is the only file extension Load accepts.
const Extension = ".wav"

// WaveFile is a decoded wave file. It is immutable once loaded and owns its PCM data.
type WaveFile struct {
	path          string
	channels      int
	sampleRate    int
	bitsPerSample int
	frameSize     int
	data          []byte
}

// IsSupported checks if a file has the wave extension
func IsSupported(filePath string) bool {
	return filepath.Ext(filePath) == Extension
}

// Load reads and decodes the wave file at path.
func Load(path string) (*WaveFile, error) {
	if !IsSupported(path) {
		return nil, playerrors.NewPlayerError("load", path,
			fmt.Errorf("%w: extension %q", playerrors.ErrInvalidFormat, filepath.Ext(path)))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, playerrors.NewPlayerError("load", path, fmt.Errorf("%w: %w", playerrors.ErrNotFound, err))
	}

	wave, err := Decode(path, raw)
	if err != nil {
		return nil, playerrors.NewPlayerError("load", path, err)
	}
	return wave, nil
}

// Decode parses raw file bytes. The returned WaveFile holds its own copy of the data chunk.
func Decode(path string, raw []byte) (*WaveFile, error) {
	if len(raw) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header",
			playerrors.ErrInvalidFormat, len(raw), HeaderSize)
	}

	order := binary.ByteOrder(binary.LittleEndian)
	channels := int(headerField(raw, offsetChannels, 2, order))
	sampleRate := int(headerField(raw, offsetSampleRate, 4, order))
	bitsPerSample := int(headerField(raw, offsetBitsPerSample, 2, order))
	dataSize := int64(int32(headerField(raw, offsetDataSize, 4, order)))

	switch {
	case channels == 0:
		return nil, fmt.Errorf("%w: zero channels", playerrors.ErrInvalidFormat)
	case sampleRate == 0:
		return nil, fmt.Errorf("%w: zero sample rate", playerrors.ErrInvalidFormat)
	case !validBitDepth(bitsPerSample):
		return nil, fmt.Errorf("%w: %d bits per sample", playerrors.ErrInvalidFormat, bitsPerSample)
	case dataSize <= 0:
		return nil, fmt.Errorf("%w: data chunk size %d", playerrors.ErrInvalidFormat, dataSize)
	case dataSize > int64(len(raw)-HeaderSize):
		return nil, fmt.Errorf("%w: data chunk size %d exceeds remaining %d bytes",
			playerrors.ErrInvalidFormat, dataSize, len(raw)-HeaderSize)
	}

	return &WaveFile{
		path:          path,
		channels:      channels,
		sampleRate:    sampleRate,
		bitsPerSample: bitsPerSample,
		frameSize:     channels * bitsPerSample / 8,
		data:          bytes.Clone(raw[HeaderSize : HeaderSize+int(dataSize)]),
	}, nil
}

// ErrFieldWidth is returned by FieldValue for widths other than 2 or 4 bytes.
var ErrFieldWidth = errors.New("header field must be 2 or 4 bytes")

// FieldValue folds a 2 or 4 byte header field into an integer using order.
func FieldValue(b []byte, order binary.ByteOrder) (uint32, error) {
	switch len(b) {
	case 2:
		return uint32(order.Uint16(b)), nil
	case 4:
		return order.Uint32(b), nil
	default:
		return 0, ErrFieldWidth
	}
}

func headerField(raw []byte, offset, width int, order binary.ByteOrder) uint32 {
	v, _ := FieldValue(raw[offset:offset+width], order)
	return v
}

func validBitDepth(bits int) bool {
	switch bits {
	case 8, 16, 24, 32:
		return true
	}
	return false
}

// SampleWindow returns frameCount frames starting at frameIndex. The slice is
// truncated at the end of the data and is empty once frameIndex reaches it.
// The returned slice aliases the wave's buffer and must not be modified.
func (w *WaveFile) SampleWindow(frameIndex, frameCount int) []byte {
	if frameIndex < 0 || frameCount <= 0 || frameIndex > len(w.data)/w.frameSize {
		return nil
	}
	start := frameIndex * w.frameSize
	if start >= len(w.data) {
		return nil
	}
	remaining := len(w.data) - start
	n := remaining
	if frameCount <= remaining/w.frameSize {
		n = frameCount * w.frameSize
	}
	return w.data[start : start+n : start+n]
}

// Path returns the file path the wave was loaded from
func (w *WaveFile) Path() string { return w.path }

// Name returns the final path segment
func (w *WaveFile) Name() string { return filepath.Base(w.path) }

func (w *WaveFile) Channels() int      { return w.channels }
func (w *WaveFile) SampleRate() int    { return w.sampleRate }
func (w *WaveFile) BitsPerSample() int { return w.bitsPerSample }
func (w *WaveFile) FrameSize() int     { return w.frameSize }

// DataSize returns the length of the PCM data in bytes
func (w *WaveFile) DataSize() int { return len(w.data) }

// Frames returns the number of complete frames in the data
func (w *WaveFile) Frames() int { return len(w.data) / w.frameSize }

// Duration returns the playing time of the complete frames
func (w *WaveFile) Duration() time.Duration {
	return time.Duration(w.Frames()) * time.Second / time.Duration(w.sampleRate)
}
