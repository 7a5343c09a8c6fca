package entity

import "testing"

func feed(c *Cursor, s string) Step {
	var last Step
	for i := 0; i < len(s); i++ {
		last = c.Next(s[i])
		if last == StepDead {
			return last
		}
	}
	return last
}

func TestCursorMatchesAmp(t *testing.T) {
	c := NewCursor()
	feed(c, "amp;")
	if !c.HasMatch() {
		t.Fatal("expected a match for amp;")
	}
	if got := c.Codepoints(); len(got) != 1 || got[0] != '&' {
		t.Errorf("Codepoints() = %v, want ['&']", got)
	}
	if !c.EndsWithSemicolon() {
		t.Error("expected EndsWithSemicolon to be true")
	}
}

func TestCursorMatchesAmpWithoutSemicolon(t *testing.T) {
	c := NewCursor()
	c.Next('a')
	c.Next('m')
	c.Next('p')
	if !c.HasMatch() {
		t.Fatal("expected amp (no semicolon) to match")
	}
	if c.MatchLength() != 3 {
		t.Errorf("MatchLength() = %d, want 3", c.MatchLength())
	}
}

func TestCursorGreedyLongestMatch(t *testing.T) {
	// "&ampx" -> matches "amp" (len 3), not "ampx".
	c := NewCursor()
	c.Next('a')
	c.Next('m')
	c.Next('p')
	step := c.Next('x')
	if step != StepDead {
		t.Fatalf("expected 'x' to dead-end the amp prefix, got %v", step)
	}
	if c.MatchLength() != 3 {
		t.Errorf("MatchLength() = %d, want 3 (longest valid match before the dead end)", c.MatchLength())
	}
}

func TestCursorNoMatch(t *testing.T) {
	c := NewCursor()
	step := c.Next('z')
	if step != StepDead {
		t.Fatalf("expected an unknown entity prefix to dead-end immediately, got %v", step)
	}
	if c.HasMatch() {
		t.Error("did not expect a match for an unknown prefix")
	}
}

func TestDecodeNumericBasic(t *testing.T) {
	if got := DecodeNumeric(65); got != 'A' {
		t.Errorf("DecodeNumeric(65) = %q, want 'A'", got)
	}
}

func TestDecodeNumericZeroIsReplacementChar(t *testing.T) {
	if got := DecodeNumeric(0); got != '�' {
		t.Errorf("DecodeNumeric(0) = %q, want U+FFFD", got)
	}
}

func TestDecodeNumericOutOfRangeIsReplacementChar(t *testing.T) {
	if got := DecodeNumeric(0x110000); got != '�' {
		t.Errorf("DecodeNumeric(0x110000) = %q, want U+FFFD", got)
	}
}

func TestDecodeNumericSurrogateIsReplacementChar(t *testing.T) {
	if got := DecodeNumeric(0xD800); got != '�' {
		t.Errorf("DecodeNumeric(0xD800) = %q, want U+FFFD", got)
	}
}

func TestDecodeNumericWindows1252Remap(t *testing.T) {
	// 0x80 is the Euro sign under the Windows-1252 compatibility remap.
	if got := DecodeNumeric(0x80); got != '€' {
		t.Errorf("DecodeNumeric(0x80) = %q, want €", got)
	}
}

func TestDecodeNumericPassthrough(t *testing.T) {
	if got := DecodeNumeric(0x1F600); got != '\U0001F600' {
		t.Errorf("DecodeNumeric(0x1F600) = %q, want unchanged", got)
	}
}
