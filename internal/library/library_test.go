package library

import (
	"errors"
	"testing"

	"github.com/jscyril/wavejukebox/api"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	if _, err := c.Get(1); !errors.Is(err, playerrors.ErrIndexOutOfRange) {
		t.Errorf("Get(1) on empty catalog error = %v", err)
	}

	files := []api.FileInfo{{Name: "a.wav", Path: "/m/a.wav"}, {Name: "b.wav", Path: "/m/b.wav"}}
	c.Replace("/m", "*.wav", files)
	files[0].Name = "changed"

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	got, err := c.Get(1)
	if err != nil || got.Name != "a.wav" {
		t.Errorf("Get(1) = %+v, %v; want a.wav", got, err)
	}
	for _, id := range []int{0, 3, -1} {
		if _, err := c.Get(id); !errors.Is(err, playerrors.ErrIndexOutOfRange) {
			t.Errorf("Get(%d) error = %v, want ErrIndexOutOfRange", id, err)
		}
	}
	if root, pattern := c.Root(); root != "/m" || pattern != "*.wav" {
		t.Errorf("Root() = %q, %q", root, pattern)
	}
	if c.LastScanned().IsZero() {
		t.Error("LastScanned() not set")
	}
	if len(c.All()) != 2 {
		t.Errorf("All() = %v", c.All())
	}
}
