// Package terminal owns the process-wide terminal mode. A Session switches the
// input tty between cooperative (line-buffered) and raw delivery and reads
// single keystrokes from it.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/x/term"
	"golang.org/x/sys/unix"
)

// ErrRawHeld is returned when another Session already holds raw mode.
var ErrRawHeld = errors.New("terminal: raw mode is held by another session")

// holder is the Session currently in raw mode, if any.
var holder atomic.Pointer[Session]

// Session is the single owner of the terminal mode for one input file.
// When the input is not a tty (pipes, tests) raw mode is a no-op and keys
// are decoded from the byte stream as they arrive.
type Session struct {
	in    *os.File
	fd    uintptr
	tty   bool
	keys  *byteReader
	saved *term.State
	raw   bool
	mu    sync.Mutex
}

// NewSession creates a session reading from in.
func NewSession(in *os.File) *Session {
	fd := in.Fd()
	s := &Session{
		in:  in,
		fd:  fd,
		tty: term.IsTerminal(fd),
	}
	s.keys = &byteReader{r: in, ready: s.Ready}
	return s
}

// IsTerminal reports whether the input is an interactive tty
func (s *Session) IsTerminal() bool { return s.tty }

// IsRaw reports whether the session currently holds raw mode
func (s *Session) IsRaw() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// EnterRaw saves the current mode and switches the tty to raw delivery.
// Calling it while already raw is a no-op.
func (s *Session) EnterRaw() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raw || !s.tty {
		return nil
	}
	if !holder.CompareAndSwap(nil, s) {
		return ErrRawHeld
	}

	state, err := term.MakeRaw(s.fd)
	if err != nil {
		holder.Store(nil)
		return fmt.Errorf("enter raw mode: %w", err)
	}
	s.saved = state
	s.raw = true
	return nil
}

// Restore returns the tty to the mode saved by EnterRaw. It is safe to call
// on every exit path, including from a signal handler goroutine.
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.raw {
		return nil
	}
	err := term.Restore(s.fd, s.saved)
	s.raw = false
	s.saved = nil
	holder.CompareAndSwap(s, nil)
	if err != nil {
		return fmt.Errorf("restore terminal mode: %w", err)
	}
	return nil
}

// Ready reports, without blocking, whether input is waiting to be read.
func (s *Session) Ready() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("poll input: %w", err)
		}
		return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0, nil
	}
}

// ReadKey blocks until one logical key has been read.
func (s *Session) ReadKey() (Key, error) {
	return DecodeKey(s.keys)
}

// byteReader reads the input one byte at a time so nothing is buffered
// behind the poll in Ready.
type byteReader struct {
	r     io.Reader
	ready func() (bool, error)
	buf   [1]byte
}

// Pending reports whether a byte can be read without blocking. A poll
// error counts as nothing pending.
func (b *byteReader) Pending() bool {
	ok, err := b.ready()
	return err == nil && ok
}

func (b *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		return 0, err
	}
	return b.buf[0], nil
}
