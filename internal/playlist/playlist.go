// Package playlist implements the play queue: a circular doubly linked
// sequence kept in an arena and addressed by integer handles.
package playlist

import (
	"fmt"
	"sync"

	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// Named is anything with a file name the playlist can search by.
type Named interface {
	Name() string
}

const noEntry = -1

type entry[T Named] struct {
	value T
	prev  int
	next  int
	live  bool
}

// Playlist is a FIFO play queue. It owns the values added to it until they
// are removed. Add is O(1); Remove, At and FindByFilename are O(n).
type Playlist[T Named] struct {
	entries []entry[T]
	free    []int
	head    int
	size    int
	mu      sync.Mutex
}

// New creates an empty playlist
func New[T Named]() *Playlist[T] {
	return &Playlist[T]{head: noEntry}
}

// Add appends value at the tail, just before head, and returns its 0-based position.
func (p *Playlist[T]) Add(value T) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := p.alloc(value)
	if p.size == 0 {
		p.entries[h].prev = h
		p.entries[h].next = h
		p.head = h
	} else {
		tail := p.entries[p.head].prev
		p.entries[h].prev = tail
		p.entries[h].next = p.head
		p.entries[tail].next = h
		p.entries[p.head].prev = h
	}
	p.size++
	return p.size - 1
}

// Remove unlinks the entry at index and hands its value back to the caller.
func (p *Playlist[T]) Remove(index int) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero T
	if index < 0 || index >= p.size {
		return zero, fmt.Errorf("%w: %d (size %d)", playerrors.ErrIndexOutOfRange, index, p.size)
	}

	h := p.handle(index)
	e := p.entries[h]
	if p.size == 1 {
		p.head = noEntry
	} else {
		p.entries[e.prev].next = e.next
		p.entries[e.next].prev = e.prev
		if index == 0 {
			p.head = e.next
		}
	}
	p.size--
	p.release(h)
	return e.value, nil
}

// Wipe removes every entry and returns how many there were.
func (p *Playlist[T]) Wipe() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.size
	p.entries = nil
	p.free = nil
	p.head = noEntry
	p.size = 0
	return n
}

// First returns the head value without removing it
func (p *Playlist[T]) First() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.size == 0 {
		var zero T
		return zero, false
	}
	return p.entries[p.head].value, true
}

// At returns the value at a 0-based FIFO position
func (p *Playlist[T]) At(index int) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= p.size {
		var zero T
		return zero, fmt.Errorf("%w: %d (size %d)", playerrors.ErrIndexOutOfRange, index, p.size)
	}
	return p.entries[p.handle(index)].value, nil
}

// FindByFilename returns the position of the first entry whose name matches.
func (p *Playlist[T]) FindByFilename(name string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := p.head
	for i := 0; i < p.size; i++ {
		if p.entries[h].value.Name() == name {
			return i, nil
		}
		h = p.entries[h].next
	}
	return -1, fmt.Errorf("%w: %s is not in the playlist", playerrors.ErrNotFound, name)
}

// Len returns the number of entries
func (p *Playlist[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// All returns the values in play order
func (p *Playlist[T]) All() []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	values := make([]T, 0, p.size)
	h := p.head
	for i := 0; i < p.size; i++ {
		values = append(values, p.entries[h].value)
		h = p.entries[h].next
	}
	return values
}

// Check verifies the ring: n steps forward and backward from head return to
// head, and prev/next agree for every adjacent pair.
func (p *Playlist[T]) Check() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.size == 0 {
		if p.head != noEntry {
			return fmt.Errorf("empty playlist has head %d", p.head)
		}
		return nil
	}

	h := p.head
	for i := 0; i < p.size; i++ {
		e := p.entries[h]
		if !e.live {
			return fmt.Errorf("position %d links to released entry %d", i, h)
		}
		if p.entries[e.next].prev != h {
			return fmt.Errorf("entry %d: next.prev = %d", h, p.entries[e.next].prev)
		}
		h = e.next
	}
	if h != p.head {
		return fmt.Errorf("forward walk of %d steps ended at %d, not head %d", p.size, h, p.head)
	}

	for i := 0; i < p.size; i++ {
		h = p.entries[h].prev
	}
	if h != p.head {
		return fmt.Errorf("backward walk of %d steps ended at %d, not head %d", p.size, h, p.head)
	}
	return nil
}

// handle walks from head to the entry at index, taking the shorter direction.
func (p *Playlist[T]) handle(index int) int {
	h := p.head
	if index <= p.size/2 {
		for i := 0; i < index; i++ {
			h = p.entries[h].next
		}
		return h
	}
	for i := p.size; i > index; i-- {
		h = p.entries[h].prev
	}
	return h
}

func (p *Playlist[T]) alloc(value T) int {
	e := entry[T]{value: value, prev: noEntry, next: noEntry, live: true}
	if n := len(p.free); n > 0 {
		h := p.free[n-1]
		p.free = p.free[:n-1]
		p.entries[h] = e
		return h
	}
	p.entries = append(p.entries, e)
	return len(p.entries) - 1
}

// release drops the arena's reference to the value so it can be collected.
func (p *Playlist[T]) release(h int) {
	p.entries[h] = entry[T]{prev: noEntry, next: noEntry}
	p.free = append(p.free, h)
}
