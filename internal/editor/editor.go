// Package editor reads command lines from a raw terminal with in-line
// editing and history browsing.
package editor

import (
	"errors"
	"fmt"
	"io"

	"github.com/jscyril/wavejukebox/internal/terminal"
)

// DefaultMaxInput bounds the length of an input line in runes.
const DefaultMaxInput = 100

// ExitLine is returned for the interrupt key and at end of input.
const ExitLine = "exit"

// KeySource is the terminal an editor reads from.
type KeySource interface {
	EnterRaw() error
	Restore() error
	ReadKey() (terminal.Key, error)
}

// Editor holds the state of the line being typed.
type Editor struct {
	keys     KeySource
	out      io.Writer
	history  *History
	maxInput int

	buf    []rune
	cursor int
	// browse is the history index shown in buf; history.Len() when not browsing.
	browse int
}

// New creates an editor. history may be shared with other components.
func New(keys KeySource, out io.Writer, history *History, maxInput int) *Editor {
	if history == nil {
		history = NewHistory(DefaultHistorySize)
	}
	if maxInput <= 0 {
		maxInput = DefaultMaxInput
	}
	e := &Editor{
		keys:     keys,
		out:      out,
		history:  history,
		maxInput: maxInput,
	}
	e.Reset()
	return e
}

// History returns the editor's history log
func (e *Editor) History() *History { return e.history }

// Buffer returns the current input
func (e *Editor) Buffer() string { return string(e.buf) }

// Cursor returns the cursor offset in runes
func (e *Editor) Cursor() int { return e.cursor }

// Reset empties the buffer and stops history browsing.
func (e *Editor) Reset() {
	e.buf = e.buf[:0]
	e.cursor = 0
	e.browse = e.history.Len()
}

// ReadLine puts the terminal in raw mode, reads keys until a line is
// accepted and restores the terminal before returning.
// End of input reads as ExitLine.
func (e *Editor) ReadLine(prompt string) (string, error) {
	if err := e.keys.EnterRaw(); err != nil {
		return "", err
	}
	defer e.keys.Restore()

	e.Reset()
	e.render(prompt)
	for {
		key, err := e.keys.ReadKey()
		if errors.Is(err, io.EOF) {
			fmt.Fprint(e.out, "\r\n")
			return ExitLine, nil
		}
		if err != nil {
			return "", err
		}

		if line, done := e.Apply(key); done {
			fmt.Fprint(e.out, "\r\n")
			return line, nil
		}
		e.render(prompt)
	}
}

// Apply feeds one key to the editor. It returns the accepted line and
// true when the key completes one.
func (e *Editor) Apply(key terminal.Key) (string, bool) {
	switch key.Kind {
	case terminal.KeyRune:
		e.insert(key.Rune)
	case terminal.KeyBackspace:
		if e.cursor > 0 {
			e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
			e.cursor--
		}
	case terminal.KeyDelete:
		if e.cursor < len(e.buf) {
			e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
		}
	case terminal.KeyLeft:
		if e.cursor > 0 {
			e.cursor--
		}
	case terminal.KeyRight:
		if e.cursor < len(e.buf) {
			e.cursor++
		}
	case terminal.KeyUp:
		if e.browse > 0 {
			e.browse--
			e.load(e.browse)
		}
	case terminal.KeyDown:
		if e.browse < e.history.Len() {
			e.browse++
			e.load(e.browse)
		}
	case terminal.KeyEnter:
		return e.accept()
	case terminal.KeyInterrupt:
		e.Reset()
		return ExitLine, true
	}
	return "", false
}

func (e *Editor) insert(r rune) {
	if len(e.buf) >= e.maxInput {
		return
	}
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = r
	e.cursor++
}

// load replaces the buffer with history entry i, or empties it past the newest.
func (e *Editor) load(i int) {
	line, _ := e.history.At(i)
	e.buf = append(e.buf[:0], []rune(line)...)
	if len(e.buf) > e.maxInput {
		e.buf = e.buf[:e.maxInput]
	}
	e.cursor = len(e.buf)
}

// accept returns the buffer unless it is empty or has a space at either end.
// A rejected buffer is cleared for re-entry.
func (e *Editor) accept() (string, bool) {
	n := len(e.buf)
	if n == 0 || e.buf[0] == ' ' || e.buf[n-1] == ' ' {
		e.Reset()
		return "", false
	}
	line := string(e.buf)
	e.history.Add(line)
	e.Reset()
	return line, true
}

func (e *Editor) render(prompt string) {
	fmt.Fprintf(e.out, "\r\x1b[2K%s %s", prompt, string(e.buf))
	if back := len(e.buf) - e.cursor; back > 0 {
		fmt.Fprintf(e.out, "\x1b[%dD", back)
	}
}
