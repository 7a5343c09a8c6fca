package stream

import (
	"strings"
	"testing"
)

func TestPeekAdvance(t *testing.T) {
	s, err := New(strings.NewReader("ab"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, sentinel := s.Peek()
	if sentinel != 0 || r != 'a' {
		t.Fatalf("Peek() = %q, %v, want 'a', 0", r, sentinel)
	}
	s.Advance()
	r, sentinel = s.Peek()
	if sentinel != 0 || r != 'b' {
		t.Fatalf("Peek() = %q, %v, want 'b', 0", r, sentinel)
	}
	s.Advance()
	_, sentinel = s.Peek()
	if sentinel != EOF {
		t.Fatalf("Peek() sentinel = %v, want EOF", sentinel)
	}
}

func TestFeederOOD(t *testing.T) {
	s := NewFeeder()
	_, sentinel := s.Peek()
	if sentinel != OOD {
		t.Fatalf("Peek() on empty feeder = %v, want OOD", sentinel)
	}
	s.Feed([]byte("x"))
	r, sentinel := s.Peek()
	if sentinel != 0 || r != 'x' {
		t.Fatalf("Peek() after Feed = %q, %v, want 'x', 0", r, sentinel)
	}
	s.Advance()
	_, sentinel = s.Peek()
	if sentinel != OOD {
		t.Fatalf("Peek() after consuming fed bytes = %v, want OOD (feeder not closed)", sentinel)
	}
	s.CloseFeed()
	_, sentinel = s.Peek()
	if sentinel != EOF {
		t.Fatalf("Peek() after CloseFeed = %v, want EOF", sentinel)
	}
}

func TestLowercase(t *testing.T) {
	s := NewFromBytes([]byte("ABC"))
	s.Peek()
	s.Lowercase()
	if s.Bytes()[0] != 'a' {
		t.Errorf("Lowercase did not fold byte 0, got %q", s.Bytes()[0])
	}
}

func TestSubscribeFiresImmediatelyAndOnRelocation(t *testing.T) {
	s := NewFromBytes([]byte("abc"))
	var seen [][]byte
	s.Subscribe(func(b []byte) { seen = append(seen, append([]byte{}, b...)) })
	if len(seen) != 1 {
		t.Fatalf("expected Subscribe to fire immediately, got %d calls", len(seen))
	}

	s.Peek()
	s.ReplaceRange(0, 1, 'X')
	if len(seen) != 2 {
		t.Fatalf("expected ReplaceRange to notify subscribers, got %d calls", len(seen))
	}
	if got := string(seen[1]); got != "Xbc" {
		t.Errorf("relocated buffer = %q, want %q", got, "Xbc")
	}
}

func TestUnsubscribe(t *testing.T) {
	s := NewFromBytes([]byte("abc"))
	calls := 0
	sub := s.Subscribe(func([]byte) { calls++ })
	sub.Unsubscribe()
	s.Peek()
	s.ReplaceRange(0, 1, 'X')
	if calls != 1 {
		t.Errorf("expected no further notifications after Unsubscribe, got %d calls", calls)
	}
}

func TestRewindPastStartPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Rewind past the start of the buffer to panic")
		}
	}()
	s := NewFromBytes([]byte("abc"))
	s.Rewind(1)
}

func TestCompareRangeCI(t *testing.T) {
	s := NewFromBytes([]byte("DivDIV"))
	if !s.CompareRangeCI(0, 3, 3) {
		t.Error("expected 'Div' and 'DIV' to compare equal case-insensitively")
	}
}

func TestCompareRangeASCII(t *testing.T) {
	s := NewFromBytes([]byte("DOCTYPE"))
	if !s.CompareRangeASCII(0, 7, "doctype") {
		t.Error("expected CompareRangeASCII to match case-insensitively")
	}
	if s.CompareRangeASCII(0, 7, "wrong!!") {
		t.Error("did not expect a mismatched literal to compare equal")
	}
}

func TestPushBack(t *testing.T) {
	s := NewFromBytes([]byte("bc"))
	s.PushBack('a')
	r, _ := s.Peek()
	if r != 'a' {
		t.Fatalf("Peek() after PushBack = %q, want 'a'", r)
	}
	s.Advance()
	r, _ = s.Peek()
	if r != 'b' {
		t.Errorf("Peek() after consuming pushed-back rune = %q, want 'b'", r)
	}
}
