// buffer.go: sliding byte window over a source stream
//
// Buffer gives the scanner byte-addressable access to its input. For seekable
// sources (files, byte readers) it keeps a bounded window and re-seeks on
// demand; for non-seekable streams it pulls bytes forward-only and keeps the
// whole stream resident, doubling the buffer when it fills, because such
// streams cannot rewind past data already discarded.
//
// UTF8Buffer reinterprets the same window as a sequence of Unicode code
// points. The scanner activates it only after detecting a UTF-8 byte order
// mark at the very start of the input.
package proofscript

import (
	"fmt"
	"io"
	"strings"
)

// EOF is the sentinel Read and Peek return at end of input. It lies outside
// the byte range [0,255] and outside every valid code point the decoder can
// assemble from it.
const EOF = 256

const (
	minBufferLength = 1024
	maxBufferLength = minBufferLength * 64
)

// window is the character-source contract the scanner consumes. Buffer
// implements it at byte granularity, UTF8Buffer at code-point granularity.
type window interface {
	Read() int
	Peek() int
	GetString(beg, end int) string
	Pos() int
	SetPos(value int) error
	Close() error
}

// Buffer is a sliding window over an underlying byte source.
type Buffer struct {
	buf      []byte
	bufStart int // absolute position of buf[0]
	bufLen   int // bytes valid in buf
	fileLen  int // total known stream length; grows for non-seekable sources
	pos      int // cursor within buf
	stream   io.Reader
	seeker   io.Seeker // non-nil when the stream can rewind
	owned    bool      // close the stream on Close
}

// NewBuffer wraps r. When owned is true, Close releases r; callers that
// supply their own stream keep ownership by passing false.
func NewBuffer(r io.Reader, owned bool) *Buffer {
	b := &Buffer{stream: r, owned: owned}
	if sk, ok := r.(io.Seeker); ok {
		if end, err := sk.Seek(0, io.SeekEnd); err == nil {
			b.seeker = sk
			b.fileLen = int(end)
		}
	}
	size := minBufferLength
	if b.fileLen > 0 {
		size = b.fileLen
		if size > maxBufferLength {
			size = maxBufferLength
		}
	}
	b.buf = make([]byte, size)
	if b.fileLen > 0 {
		b.SetPos(0) // always valid here
	} else {
		b.pos = 0
	}
	return b
}

// Read returns the next byte, or EOF at end of input. Non-seekable sources
// are pulled on demand.
func (b *Buffer) Read() int {
	if b.pos < b.bufLen {
		c := b.buf[b.pos]
		b.pos++
		return int(c)
	}
	if b.Pos() < b.fileLen {
		b.SetPos(b.Pos()) // shift the window; position is in range
		c := b.buf[b.pos]
		b.pos++
		return int(c)
	}
	if b.seeker == nil && b.readChunk() > 0 {
		c := b.buf[b.pos]
		b.pos++
		return int(c)
	}
	return EOF
}

// Peek returns the next byte without advancing.
func (b *Buffer) Peek() int {
	cur := b.Pos()
	c := b.Read()
	b.SetPos(cur) // cur is always in range
	return c
}

// GetString materializes the bytes in [beg, end) as text. The cursor is
// restored afterwards.
func (b *Buffer) GetString(beg, end int) string {
	cur := b.Pos()
	if err := b.SetPos(beg); err != nil {
		return ""
	}
	var sb strings.Builder
	for b.Pos() < end {
		c := b.Read()
		if c == EOF {
			break
		}
		sb.WriteByte(byte(c))
	}
	b.SetPos(cur)
	return sb.String()
}

// Pos returns the absolute position of the cursor.
func (b *Buffer) Pos() int { return b.bufStart + b.pos }

// SetPos moves the cursor to an absolute position. For non-seekable sources
// the stream is pulled forward until the position is resident. A position
// outside [0, knownLength] is unrecoverable.
func (b *Buffer) SetPos(value int) error {
	if value >= b.fileLen && b.seeker == nil {
		for value >= b.fileLen && b.readChunk() > 0 {
		}
	}
	if value < 0 || value > b.fileLen {
		return &FatalError{Msg: fmt.Sprintf("buffer position %d out of range [0, %d]", value, b.fileLen)}
	}
	switch {
	case value >= b.bufStart && value < b.bufStart+b.bufLen:
		b.pos = value - b.bufStart
	case b.seeker != nil:
		if _, err := b.seeker.Seek(int64(value), io.SeekStart); err != nil {
			return &FatalError{Msg: fmt.Sprintf("cannot seek to position %d: %v", value, err)}
		}
		b.bufStart = value
		n, _ := b.stream.Read(b.buf)
		b.bufLen = n
		b.pos = 0
	default:
		// grown-to-end non-seekable stream: park at end of input
		b.pos = b.fileLen - b.bufStart
	}
	return nil
}

// Close releases the underlying stream unless the caller owns it.
func (b *Buffer) Close() error {
	if !b.owned {
		return nil
	}
	if c, ok := b.stream.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// readChunk pulls more bytes from a non-seekable stream, doubling the buffer
// when it is full. Everything read stays resident so earlier positions remain
// addressable.
func (b *Buffer) readChunk() int {
	if len(b.buf)-b.bufLen == 0 {
		grown := make([]byte, len(b.buf)*2)
		copy(grown, b.buf)
		b.buf = grown
	}
	n, _ := b.stream.Read(b.buf[b.bufLen:])
	if n > 0 {
		b.bufLen += n
		b.fileLen = b.bufLen
	}
	return n
}

// UTF8Buffer decodes the byte window as UTF-8, collapsing multi-byte
// sequences into single code points. It takes ownership of the wrapped
// Buffer; callers use one or the other, never both.
type UTF8Buffer struct {
	*Buffer
}

func NewUTF8Buffer(b *Buffer) *UTF8Buffer { return &UTF8Buffer{Buffer: b} }

// Read assembles exactly one code point. Bytes that are neither ASCII nor a
// valid lead byte are skipped as resynchronization points rather than
// reported; see the package notes on lenient decoding.
func (u *UTF8Buffer) Read() int {
	ch := u.Buffer.Read()
	for ch >= 128 && ch&0xC0 != 0xC0 && ch != EOF {
		ch = u.Buffer.Read()
	}
	switch {
	case ch < 128 || ch == EOF:
		// ASCII or end of input passes through
	case ch&0xF0 == 0xF0:
		c1 := ch & 0x07
		c2 := u.Buffer.Read() & 0x3F
		c3 := u.Buffer.Read() & 0x3F
		c4 := u.Buffer.Read() & 0x3F
		ch = ((((c1<<6)|c2)<<6)|c3)<<6 | c4
	case ch&0xE0 == 0xE0:
		c1 := ch & 0x0F
		c2 := u.Buffer.Read() & 0x3F
		c3 := u.Buffer.Read() & 0x3F
		ch = ((c1<<6)|c2)<<6 | c3
	case ch&0xC0 == 0xC0:
		c1 := ch & 0x1F
		c2 := u.Buffer.Read() & 0x3F
		ch = (c1 << 6) | c2
	}
	return ch
}

// Peek returns the next code point without advancing.
func (u *UTF8Buffer) Peek() int {
	cur := u.Buffer.Pos()
	ch := u.Read()
	u.Buffer.SetPos(cur)
	return ch
}

// GetString materializes [beg, end) as decoded text.
func (u *UTF8Buffer) GetString(beg, end int) string {
	cur := u.Buffer.Pos()
	if err := u.Buffer.SetPos(beg); err != nil {
		return ""
	}
	var sb strings.Builder
	for u.Buffer.Pos() < end {
		ch := u.Read()
		if ch == EOF {
			break
		}
		sb.WriteRune(rune(ch))
	}
	u.Buffer.SetPos(cur)
	return sb.String()
}
