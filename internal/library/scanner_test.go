package library

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// createWAVFile writes a canonical PCM wave file with dataLen zero bytes.
func createWAVFile(t *testing.T, path string, channels, sampleRate, bits, dataLen int) {
	t.Helper()
	buf := new(bytes.Buffer)
	blockAlign := channels * bits / 8

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bits))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanner_Collect(t *testing.T) {
	root := t.TempDir()
	createWAVFile(t, filepath.Join(root, "b.wav"), 1, 8000, 16, 16000)
	createWAVFile(t, filepath.Join(root, "nested", "deep", "a.wav"), 2, 44100, 16, 1764)
	createWAVFile(t, filepath.Join(root, "nested", "b.wav"), 1, 8000, 8, 80)
	os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(root, "upper.WAV"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(root, "junk.wav"), []byte("not a wave"), 0644)

	files, errs := NewScanner(2).Collect(context.Background(), root, "*.wav")
	if len(errs) != 0 {
		t.Fatalf("Collect() errors = %v", errs)
	}

	wantPaths := []string{
		filepath.Join(root, "nested", "deep", "a.wav"),
		filepath.Join(root, "b.wav"),
		filepath.Join(root, "nested", "b.wav"),
		filepath.Join(root, "junk.wav"),
	}
	if len(files) != len(wantPaths) {
		t.Fatalf("Collect() found %d files: %+v", len(files), files)
	}
	// Sorted by name, ties by path.
	wantNames := []string{"a.wav", "b.wav", "b.wav", "junk.wav"}
	for i, f := range files {
		if f.Name != wantNames[i] || f.Path != wantPaths[i] {
			t.Errorf("files[%d] = %q at %q, want %q at %q", i, f.Name, f.Path, wantNames[i], wantPaths[i])
		}
	}

	first := files[1]
	if !first.Valid || first.Channels != 1 || first.SampleRate != 8000 || first.BitDepth != 16 {
		t.Errorf("b.wav info = %+v", first)
	}
	if first.Duration < 990*time.Millisecond || first.Duration > 1010*time.Millisecond {
		t.Errorf("b.wav duration = %v, want about 1s", first.Duration)
	}
	if files[3].Valid {
		t.Error("junk.wav should be listed but not valid")
	}
}

func TestScanner_CustomPattern(t *testing.T) {
	root := t.TempDir()
	createWAVFile(t, filepath.Join(root, "take1.wav"), 1, 8000, 16, 16)
	createWAVFile(t, filepath.Join(root, "take22.wav"), 1, 8000, 16, 16)

	files, _ := NewScanner(0).Collect(context.Background(), root, "take?.wav")
	if len(files) != 1 || files[0].Name != "take1.wav" {
		t.Errorf("Collect(take?.wav) = %+v", files)
	}
}

func TestScanner_MissingRoot(t *testing.T) {
	files, errs := NewScanner(1).Collect(context.Background(), filepath.Join(t.TempDir(), "nope"), "")
	if len(files) != 0 {
		t.Errorf("files = %+v, want none", files)
	}
	if len(errs) == 0 {
		t.Fatal("expected a scan error for a missing root")
	}
	var se *playerrors.ScanError
	if !errors.As(errs[0], &se) {
		t.Errorf("error %v is not a ScanError", errs[0])
	}
}

func TestScanner_Cancelled(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"a.wav", "b.wav", "c.wav"} {
		createWAVFile(t, filepath.Join(root, n), 1, 8000, 16, 16)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, _ := NewScanner(1).Collect(ctx, root, "*.wav")
	if len(files) > 3 {
		t.Errorf("cancelled scan returned %d files", len(files))
	}
}
