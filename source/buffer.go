package source

import (
	"bufio"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Buffer is a re-readable character source. Characters are pulled from the
// underlying reader on demand and retained, so any earlier offset can be
// returned to. Speculative reads use a stack of checkpoints.
type Buffer struct {
	name   string
	reader io.RuneReader
	data   []byte
	pos    int
	eof    bool
	err    error
	lines  []int // byte offsets of line starts
	marks  []int
	last   int // width of the last rune returned by Next, -1 if none
}

// NewBuffer creates a buffer reading lazily from r.
func NewBuffer(name string, r io.Reader) *Buffer {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &Buffer{
		name:   name,
		reader: rr,
		lines:  []int{0},
		last:   -1,
	}
}

// FromString creates a buffer over an in-memory string.
func FromString(name, text string) *Buffer {
	return NewBuffer(name, strings.NewReader(text))
}

// Name returns the source name given at construction.
func (b *Buffer) Name() string {
	return b.name
}

// Err returns the first non-EOF error returned by the underlying reader.
func (b *Buffer) Err() error {
	return b.err
}

// fill reads one more rune into the buffer. It reports false at end of input.
func (b *Buffer) fill() bool {
	if b.eof {
		return false
	}
	r, _, err := b.reader.ReadRune()
	if err != nil {
		if err != io.EOF {
			b.err = err
		}
		b.eof = true
		return false
	}
	b.data = utf8.AppendRune(b.data, r)
	if r == '\n' {
		b.lines = append(b.lines, len(b.data))
	}
	return true
}

// Next returns the rune at the cursor and advances past it.
func (b *Buffer) Next() (rune, bool) {
	if b.pos >= len(b.data) && !b.fill() {
		b.last = -1
		return 0, false
	}
	r, w := utf8.DecodeRune(b.data[b.pos:])
	b.pos += w
	b.last = w
	return r, true
}

// Peek returns the rune at the cursor without advancing.
func (b *Buffer) Peek() (rune, bool) {
	if b.pos >= len(b.data) && !b.fill() {
		return 0, false
	}
	r, _ := utf8.DecodeRune(b.data[b.pos:])
	return r, true
}

// Unread pushes back the rune returned by the most recent Next.
// Only a single rune can be pushed back.
func (b *Buffer) Unread() bool {
	if b.last < 0 {
		return false
	}
	b.pos -= b.last
	b.last = -1
	return true
}

// AtEOF reports whether the cursor is at the end of the input.
func (b *Buffer) AtEOF() bool {
	_, ok := b.Peek()
	return !ok
}

// Offset returns the cursor's byte offset.
func (b *Buffer) Offset() int {
	return b.pos
}

// Seek moves the cursor to an offset that has already been read.
func (b *Buffer) Seek(offset int) {
	if offset < 0 {
		offset = 0
	}
	for offset > len(b.data) && b.fill() {
	}
	if offset > len(b.data) {
		offset = len(b.data)
	}
	b.pos = offset
	b.last = -1
}

// Mark pushes a checkpoint at the current offset, entering a speculative region.
func (b *Buffer) Mark() {
	b.marks = append(b.marks, b.pos)
}

// Restore abandons the innermost speculative region, making everything read
// since its Mark readable again.
func (b *Buffer) Restore() {
	n := len(b.marks)
	if n == 0 {
		return
	}
	b.pos = b.marks[n-1]
	b.marks = b.marks[:n-1]
	b.last = -1
}

// Commit discards the innermost checkpoint and keeps the cursor where it is.
// Characters read ahead stay buffered for the enclosing region.
func (b *Buffer) Commit() {
	if n := len(b.marks); n > 0 {
		b.marks = b.marks[:n-1]
	}
}

// Depth returns the number of open checkpoints.
func (b *Buffer) Depth() int {
	return len(b.marks)
}

// HasPrefix reports whether the input at the cursor starts with s.
// The cursor does not move.
func (b *Buffer) HasPrefix(s string) bool {
	b.Mark()
	defer b.Restore()
	for _, want := range s {
		got, ok := b.Next()
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Slice returns the text between two offsets that have already been read.
func (b *Buffer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.data) {
		end = len(b.data)
	}
	if start >= end {
		return ""
	}
	return string(b.data[start:end])
}

// Rest reads the remaining input without moving the cursor.
func (b *Buffer) Rest() string {
	for b.fill() {
	}
	return b.Slice(b.pos, len(b.data))
}

// Location returns the location of a byte offset that has already been read.
func (b *Buffer) Location(offset int) Location {
	if offset > len(b.data) {
		offset = len(b.data)
	}
	line := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	start := b.lines[line]
	return Location{
		Source: b.name,
		Offset: offset,
		Line:   line + 1,
		Column: utf8.RuneCount(b.data[start:offset]) + 1,
	}
}

// Here returns the location of the cursor.
func (b *Buffer) Here() Location {
	return b.Location(b.pos)
}
