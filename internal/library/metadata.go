package library

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/wav"
	"github.com/jscyril/wavejukebox/api"
)

// MetadataReader extracts format information from wave files
type MetadataReader struct{}

// NewMetadataReader creates a new metadata reader
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Read probes a wave file. Files the decoder does not recognise are
// returned with Valid unset rather than as an error, so they still show up
// in listings.
func (r *MetadataReader) Read(filePath string) (api.FileInfo, error) {
	info := api.FileInfo{
		Path: filePath,
		Name: filepath.Base(filePath),
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return info, nil
	}

	info.Channels = int(dec.NumChans)
	info.SampleRate = int(dec.SampleRate)
	info.BitDepth = int(dec.BitDepth)
	if d, err := dec.Duration(); err == nil && d > 0 {
		info.Duration = d
	} else if st, err := file.Stat(); err == nil {
		info.Duration = estimateDuration(st.Size(), info)
	}
	info.Valid = true
	return info, nil
}

// estimateDuration assumes the canonical 44-byte header.
func estimateDuration(size int64, info api.FileInfo) time.Duration {
	bytesPerSec := int64(info.SampleRate * info.Channels * info.BitDepth / 8)
	if bytesPerSec <= 0 || size <= 44 {
		return 0
	}
	return time.Duration((size - 44) * int64(time.Second) / bytesPerSec)
}
