package playlist

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

type track string

func (t track) Name() string { return string(t) }

func newFilled(t *testing.T, names ...string) *Playlist[track] {
	t.Helper()
	p := New[track]()
	for i, n := range names {
		if got := p.Add(track(n)); got != i {
			t.Fatalf("Add(%s) = %d, want %d", n, got, i)
		}
	}
	return p
}

func assertOrder(t *testing.T, p *Playlist[track], want ...string) {
	t.Helper()
	got := p.All()
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if string(got[i]) != want[i] {
			t.Fatalf("All() = %v, want %v", got, want)
		}
	}
	if err := p.Check(); err != nil {
		t.Fatalf("Check() = %v", err)
	}
}

func TestFIFOOrder(t *testing.T) {
	p := newFilled(t, "w1.wav", "w2.wav", "w3.wav")

	first, ok := p.First()
	if !ok || first != "w1.wav" {
		t.Fatalf("First() = %q, %v; want w1.wav", first, ok)
	}

	removed, err := p.Remove(0)
	if err != nil {
		t.Fatalf("Remove(0) error = %v", err)
	}
	if removed != "w1.wav" {
		t.Errorf("Remove(0) = %q, want w1.wav", removed)
	}

	first, _ = p.First()
	if first != "w2.wav" {
		t.Errorf("First() after Remove(0) = %q, want w2.wav", first)
	}
	assertOrder(t, p, "w2.wav", "w3.wav")
}

func TestSingleEntrySelfLinked(t *testing.T) {
	p := newFilled(t, "only.wav")

	h := p.head
	if p.entries[h].next != h || p.entries[h].prev != h {
		t.Errorf("single entry links = (%d, %d), want self %d", p.entries[h].prev, p.entries[h].next, h)
	}

	if _, err := p.Remove(0); err != nil {
		t.Fatalf("Remove(0) error = %v", err)
	}
	if p.Len() != 0 || p.head != noEntry {
		t.Errorf("Len() = %d head = %d, want empty", p.Len(), p.head)
	}
	if _, ok := p.First(); ok {
		t.Error("First() on empty playlist should report false")
	}
	assertOrder(t, p)
}

func TestRemoveMiddleAndTail(t *testing.T) {
	p := newFilled(t, "a.wav", "b.wav", "c.wav", "d.wav")

	if v, _ := p.Remove(2); v != "c.wav" {
		t.Errorf("Remove(2) = %q, want c.wav", v)
	}
	assertOrder(t, p, "a.wav", "b.wav", "d.wav")

	if v, _ := p.Remove(2); v != "d.wav" {
		t.Errorf("Remove(2) = %q, want d.wav", v)
	}
	assertOrder(t, p, "a.wav", "b.wav")

	p.Add("e.wav")
	assertOrder(t, p, "a.wav", "b.wav", "e.wav")
}

func TestRemoveOutOfRange(t *testing.T) {
	p := newFilled(t, "a.wav", "b.wav")

	for _, idx := range []int{2, 3, -1} {
		if _, err := p.Remove(idx); !errors.Is(err, playerrors.ErrIndexOutOfRange) {
			t.Errorf("Remove(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	assertOrder(t, p, "a.wav", "b.wav")

	empty := New[track]()
	if _, err := empty.Remove(0); !errors.Is(err, playerrors.ErrIndexOutOfRange) {
		t.Errorf("Remove(0) on empty error = %v, want ErrIndexOutOfRange", err)
	}
	assertOrder(t, empty)
}

func TestWipe(t *testing.T) {
	p := newFilled(t, "a.wav", "b.wav", "c.wav")

	if n := p.Wipe(); n != 3 {
		t.Errorf("Wipe() = %d, want 3", n)
	}
	assertOrder(t, p)
	if n := p.Wipe(); n != 0 {
		t.Errorf("Wipe() on empty = %d, want 0", n)
	}

	p.Add("z.wav")
	assertOrder(t, p, "z.wav")
}

func TestFindByFilename(t *testing.T) {
	p := newFilled(t, "a.wav", "b.wav", "c.wav")

	idx, err := p.FindByFilename("c.wav")
	if err != nil || idx != 2 {
		t.Errorf("FindByFilename(c.wav) = %d, %v; want 2", idx, err)
	}
	if _, err := p.FindByFilename("x.wav"); !errors.Is(err, playerrors.ErrNotFound) {
		t.Errorf("FindByFilename(x.wav) error = %v, want ErrNotFound", err)
	}
}

func TestAt(t *testing.T) {
	p := newFilled(t, "a.wav", "b.wav", "c.wav", "d.wav", "e.wav")

	for i, want := range []string{"a.wav", "b.wav", "c.wav", "d.wav", "e.wav"} {
		got, err := p.At(i)
		if err != nil || string(got) != want {
			t.Errorf("At(%d) = %q, %v; want %q", i, got, err, want)
		}
	}
	if _, err := p.At(5); !errors.Is(err, playerrors.ErrIndexOutOfRange) {
		t.Errorf("At(5) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestReleasedSlotsAreReused(t *testing.T) {
	p := newFilled(t, "a.wav", "b.wav")
	p.Remove(0)

	p.Add("c.wav")
	if len(p.entries) != 2 {
		t.Errorf("arena grew to %d entries, want the freed slot reused", len(p.entries))
	}
	assertOrder(t, p, "b.wav", "c.wav")
}

// TestRingInvariantRandomized mirrors every operation on a plain slice and
// checks the ring after each step.
func TestRingInvariantRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := New[track]()
	var model []string

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(10); {
		case op < 5:
			name := fmt.Sprintf("t%d.wav", step)
			p.Add(track(name))
			model = append(model, name)
		case op < 9:
			idx := rng.Intn(len(model) + 1)
			v, err := p.Remove(idx)
			if idx >= len(model) {
				if !errors.Is(err, playerrors.ErrIndexOutOfRange) {
					t.Fatalf("step %d: Remove(%d) error = %v", step, idx, err)
				}
				continue
			}
			if err != nil || string(v) != model[idx] {
				t.Fatalf("step %d: Remove(%d) = %q, %v; want %q", step, idx, v, err, model[idx])
			}
			model = append(model[:idx], model[idx+1:]...)
		default:
			p.Wipe()
			model = nil
		}

		if p.Len() != len(model) {
			t.Fatalf("step %d: Len() = %d, want %d", step, p.Len(), len(model))
		}
		if err := p.Check(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}
