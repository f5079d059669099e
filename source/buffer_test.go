package source

import (
	"strings"
	"testing"
)

func readAll(b *Buffer) string {
	var sb strings.Builder
	for {
		r, ok := b.Next()
		if !ok {
			return sb.String()
		}
		sb.WriteRune(r)
	}
}

func TestBufferCheckpoints(t *testing.T) {
	b := FromString("test", "abcdef")

	b.Next()
	b.Mark()
	b.Next()
	b.Next()
	b.Mark()
	b.Next()
	if got := b.Offset(); got != 4 {
		t.Fatalf("offset = %d, want 4", got)
	}
	b.Restore()
	if got := b.Offset(); got != 3 {
		t.Errorf("after inner restore offset = %d, want 3", got)
	}
	b.Restore()
	if got := b.Offset(); got != 1 {
		t.Errorf("after outer restore offset = %d, want 1", got)
	}
	if got := readAll(b); got != "bcdef" {
		t.Errorf("rest = %q, want %q", got, "bcdef")
	}
}

func TestBufferCommitKeepsPosition(t *testing.T) {
	b := FromString("", "xyz")
	b.Mark()
	b.Next()
	b.Mark()
	b.Next()
	b.Commit()
	if b.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", b.Depth())
	}
	if got := b.Offset(); got != 2 {
		t.Errorf("offset after commit = %d, want 2", got)
	}
	b.Restore()
	if got := b.Offset(); got != 0 {
		t.Errorf("offset after restore = %d, want 0", got)
	}
}

func TestBufferUnreadSingleRune(t *testing.T) {
	b := FromString("", "héllo")
	b.Next()
	r, _ := b.Next()
	if r != 'é' {
		t.Fatalf("got %q, want é", r)
	}
	if !b.Unread() {
		t.Fatal("unread failed")
	}
	if b.Unread() {
		t.Error("second unread should fail")
	}
	if r, _ := b.Next(); r != 'é' {
		t.Errorf("after unread got %q, want é", r)
	}
}

func TestBufferHasPrefix(t *testing.T) {
	b := FromString("", "hi there")
	if !b.HasPrefix("hi") {
		t.Error("expected prefix hi")
	}
	if b.HasPrefix("hello") {
		t.Error("unexpected prefix hello")
	}
	if b.Offset() != 0 {
		t.Errorf("lookahead moved cursor to %d", b.Offset())
	}
}

func TestBufferLocation(t *testing.T) {
	b := FromString("f.txt", "ab\ncdé\nx")
	readAll(b)

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
	}
	for _, tt := range tests {
		loc := b.Location(tt.offset)
		if loc.Line != tt.line || loc.Column != tt.column {
			t.Errorf("Location(%d) = %d:%d, want %d:%d", tt.offset, loc.Line, loc.Column, tt.line, tt.column)
		}
	}
	if got := b.Location(3).String(); got != "f.txt:2:1" {
		t.Errorf("String() = %q", got)
	}
}

func TestBufferSeekAndSlice(t *testing.T) {
	b := FromString("", "one two")
	b.Seek(4)
	if got := b.Rest(); got != "two" {
		t.Errorf("Rest() = %q, want two", got)
	}
	if got := b.Slice(0, 3); got != "one" {
		t.Errorf("Slice(0,3) = %q", got)
	}
	if !b.HasPrefix("two") {
		t.Error("expected prefix two after seek")
	}
}
