package terminal

import (
	"io"
	"unicode/utf8"
)

// KeyKind classifies a logical keystroke.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyInterrupt
	KeyUnknown
)

func (k KeyKind) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyRight:
		return "right"
	case KeyLeft:
		return "left"
	case KeyInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}

// Key is one logical keystroke: a plain character or a decoded escape sequence.
type Key struct {
	Kind KeyKind
	Rune rune // set for KeyRune
}

// Rune returns a plain character key
func Rune(r rune) Key { return Key{Kind: KeyRune, Rune: r} }

const (
	keyCtrlC      = 0x03
	keyBS         = 0x08
	keyLF         = '\n'
	keyCR         = '\r'
	keyEscape     = 0x1b
	keyDEL        = 0x7f
	escIntroducer = '['
)

// maxSequence bounds the bytes consumed for one escape sequence.
const maxSequence = 16

// PendingReader is a ByteReader that can report, without blocking, whether
// another byte is already waiting.
type PendingReader interface {
	io.ByteReader
	Pending() bool
}

// DecodeKey reads one logical key from r. Arrow and delete keys arrive as
// ESC '[' code; delete carries a trailing '~' which is consumed. Other
// control sequences are consumed up to their final byte and reported as
// KeyUnknown.
//
// If r is a PendingReader, the bytes after ESC are only read while they are
// already pending, so a lone ESC never blocks waiting for a sequence.
func DecodeKey(r io.ByteReader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch {
	case b == keyEscape:
		return decodeEscape(r)
	case b == keyCR || b == keyLF:
		return Key{Kind: KeyEnter}, nil
	case b == keyDEL || b == keyBS:
		return Key{Kind: KeyBackspace}, nil
	case b == keyCtrlC:
		return Key{Kind: KeyInterrupt}, nil
	case b < 0x20:
		return Key{Kind: KeyUnknown}, nil
	case b < utf8.RuneSelf:
		return Rune(rune(b)), nil
	}
	return decodeUTF8(b, r)
}

// pending reports whether reading the next byte of a sequence would not block.
func pending(r io.ByteReader) bool {
	p, ok := r.(PendingReader)
	return !ok || p.Pending()
}

func decodeEscape(r io.ByteReader) (Key, error) {
	if !pending(r) {
		return Key{Kind: KeyUnknown}, nil
	}
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	if b != escIntroducer {
		// Not a sequence, the byte after ESC is delivered as a plain key.
		if b >= 0x20 && b < utf8.RuneSelf {
			return Rune(rune(b)), nil
		}
		return Key{Kind: KeyUnknown}, nil
	}

	// CSI: parameter and intermediate bytes (0x20-0x3F) up to a final byte (0x40-0x7E).
	var params []byte
	for len(params) < maxSequence {
		if !pending(r) {
			return Key{Kind: KeyUnknown}, nil
		}
		c, err := r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		switch {
		case c >= 0x40 && c <= 0x7e:
			return csiKey(string(params), c), nil
		case c >= 0x20 && c <= 0x3f:
			params = append(params, c)
		default:
			return Key{Kind: KeyUnknown}, nil
		}
	}
	return Key{Kind: KeyUnknown}, nil
}

func csiKey(params string, final byte) Key {
	if params == "" {
		switch final {
		case 'A':
			return Key{Kind: KeyUp}
		case 'B':
			return Key{Kind: KeyDown}
		case 'C':
			return Key{Kind: KeyRight}
		case 'D':
			return Key{Kind: KeyLeft}
		}
	}
	if params == "3" && final == '~' {
		return Key{Kind: KeyDelete}
	}
	return Key{Kind: KeyUnknown}
}

func decodeUTF8(lead byte, r io.ByteReader) (Key, error) {
	buf := []byte{lead}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		b, err := r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		buf = append(buf, b)
	}
	ch, _ := utf8.DecodeRune(buf)
	if ch == utf8.RuneError {
		return Key{Kind: KeyUnknown}, nil
	}
	return Rune(ch), nil
}
