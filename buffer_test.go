// buffer_test.go
package proofscript

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// streamOnly hides the Seek method of a reader so tests can exercise the
// forward-only growth path.
type streamOnly struct{ r io.Reader }

func (s streamOnly) Read(p []byte) (int, error) { return s.r.Read(p) }

func readAll(b window) string {
	var sb strings.Builder
	for {
		c := b.Read()
		if c == EOF {
			return sb.String()
		}
		sb.WriteRune(rune(c))
	}
}

func Test_Buffer_Read_Seekable(t *testing.T) {
	b := NewBuffer(bytes.NewReader([]byte("abc")), false)
	if got := readAll(b); got != "abc" {
		t.Fatalf("read %q", got)
	}
	if c := b.Read(); c != EOF {
		t.Fatalf("reading past the end must keep returning EOF, got %d", c)
	}
}

func Test_Buffer_Peek_DoesNotAdvance(t *testing.T) {
	b := NewBuffer(bytes.NewReader([]byte("xy")), false)
	if p := b.Peek(); p != 'x' {
		t.Fatalf("peek %d", p)
	}
	if b.Pos() != 0 {
		t.Fatalf("peek moved the cursor to %d", b.Pos())
	}
	if c := b.Read(); c != 'x' {
		t.Fatalf("read after peek %d", c)
	}
}

func Test_Buffer_GetString_RestoresCursor(t *testing.T) {
	b := NewBuffer(bytes.NewReader([]byte("method m()")), false)
	b.Read() // advance somewhere
	cur := b.Pos()
	if got := b.GetString(0, 6); got != "method" {
		t.Fatalf("GetString %q", got)
	}
	if b.Pos() != cur {
		t.Fatalf("GetString moved the cursor: %d != %d", b.Pos(), cur)
	}
	if got := b.GetString(7, 10); got != "m()" {
		t.Fatalf("GetString tail %q", got)
	}
}

func Test_Buffer_SetPos_OutOfRange(t *testing.T) {
	b := NewBuffer(bytes.NewReader([]byte("abc")), false)
	if err := b.SetPos(-1); err == nil {
		t.Fatalf("negative position must fail")
	}
	err := b.SetPos(4)
	if err == nil {
		t.Fatalf("position past known length must fail")
	}
	if _, ok := err.(*FatalError); !ok {
		t.Fatalf("want *FatalError, got %T", err)
	}
	if err := b.SetPos(3); err != nil { // == knownLength is the EOF position
		t.Fatalf("position at known length is valid: %v", err)
	}
}

func Test_Buffer_Seekable_Window_Rewind(t *testing.T) {
	// larger than the maximum window so reads force re-seeks
	src := strings.Repeat("0123456789", 8000)
	b := NewBuffer(bytes.NewReader([]byte(src)), false)
	if err := b.SetPos(maxBufferLength + 17); err != nil {
		t.Fatalf("SetPos: %v", err)
	}
	if c := b.Read(); c != int(src[maxBufferLength+17]) {
		t.Fatalf("read %c after far seek", c)
	}
	if err := b.SetPos(3); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if c := b.Read(); c != '3' {
		t.Fatalf("read %c after rewind, want 3", c)
	}
	if got := b.GetString(len(src)-4, len(src)); got != "6789" {
		t.Fatalf("GetString at tail: %q", got)
	}
}

func Test_Buffer_NonSeekable_GrowsAndStaysResident(t *testing.T) {
	src := strings.Repeat("z", 5*minBufferLength)
	b := NewBuffer(streamOnly{strings.NewReader(src)}, false)
	for i := 0; i < len(src); i++ {
		if c := b.Read(); c != 'z' {
			t.Fatalf("byte %d: got %d", i, c)
		}
	}
	if c := b.Read(); c != EOF {
		t.Fatalf("want EOF, got %d", c)
	}
	// earlier data must still be addressable
	if err := b.SetPos(1); err != nil {
		t.Fatalf("rewind into resident data: %v", err)
	}
	if c := b.Read(); c != 'z' {
		t.Fatalf("resident read: %d", c)
	}
	if got := b.GetString(0, 3); got != "zzz" {
		t.Fatalf("GetString on grown buffer: %q", got)
	}
}

func Test_Buffer_NonSeekable_SetPos_PullsForward(t *testing.T) {
	src := strings.Repeat("a", 2000) + "b"
	b := NewBuffer(streamOnly{strings.NewReader(src)}, false)
	if err := b.SetPos(2000); err != nil {
		t.Fatalf("forward pull: %v", err)
	}
	if c := b.Read(); c != 'b' {
		t.Fatalf("got %d, want b", c)
	}
}

func Test_Buffer_Close_RespectsOwnership(t *testing.T) {
	cc := &closeCounter{}
	owned := NewBuffer(cc, true)
	if err := owned.Close(); err != nil || cc.n != 1 {
		t.Fatalf("owned stream must be closed once: n=%d err=%v", cc.n, err)
	}
	cc2 := &closeCounter{}
	loaned := NewBuffer(cc2, false)
	if err := loaned.Close(); err != nil || cc2.n != 0 {
		t.Fatalf("caller-supplied stream must stay open: n=%d err=%v", cc2.n, err)
	}
}

type closeCounter struct{ n int }

func (c *closeCounter) Read(p []byte) (int, error) { return 0, io.EOF }
func (c *closeCounter) Close() error               { c.n++; return nil }

func Test_UTF8Buffer_Decodes_CodePoints(t *testing.T) {
	// 1-, 2-, 3- and 4-byte sequences
	src := "aé∀\U0001D11E"
	u := NewUTF8Buffer(NewBuffer(bytes.NewReader([]byte(src)), false))
	want := []int{'a', 0xE9, 0x2200, 0x1D11E, EOF}
	for i, w := range want {
		if c := u.Read(); c != w {
			t.Fatalf("code point %d: got %#x want %#x", i, c, w)
		}
	}
}

func Test_UTF8Buffer_SkipsStrayContinuationBytes(t *testing.T) {
	u := NewUTF8Buffer(NewBuffer(bytes.NewReader([]byte{'a', 0x80, 0xBF, 'b'}), false))
	if c := u.Read(); c != 'a' {
		t.Fatalf("got %d", c)
	}
	if c := u.Read(); c != 'b' {
		t.Fatalf("stray continuation bytes must be skipped, got %#x", c)
	}
	if c := u.Read(); c != EOF {
		t.Fatalf("want EOF, got %d", c)
	}
}

func Test_UTF8Buffer_Peek_And_GetString(t *testing.T) {
	u := NewUTF8Buffer(NewBuffer(bytes.NewReader([]byte("∀x")), false))
	if p := u.Peek(); p != 0x2200 {
		t.Fatalf("peek %#x", p)
	}
	if u.Pos() != 0 {
		t.Fatalf("peek advanced to %d", u.Pos())
	}
	if got := u.GetString(0, 4); got != "∀x" {
		t.Fatalf("GetString %q", got)
	}
	if c := u.Read(); c != 0x2200 {
		t.Fatalf("read after GetString: %#x", c)
	}
}
