package domtree

import (
	"testing"

	"github.com/lukehoban/htmlcore/token"
)

func TestAppendChildDetachesFromPreviousParent(t *testing.T) {
	a := NewElement(token.HTML, token.Div, "div")
	b := NewElement(token.HTML, token.SpanElem, "span")
	child := NewText("hi")

	a.AppendChild(child)
	if len(a.Children) != 1 {
		t.Fatalf("expected 1 child of a, got %d", len(a.Children))
	}

	b.AppendChild(child)
	if len(a.Children) != 0 {
		t.Errorf("expected child to be detached from a, still has %d children", len(a.Children))
	}
	if len(b.Children) != 1 || child.Parent != b {
		t.Errorf("expected child to be attached to b")
	}
}

func TestInsertBefore(t *testing.T) {
	parent := NewElement(token.HTML, token.Div, "div")
	first := NewText("first")
	third := NewText("third")
	parent.AppendChild(first)
	parent.AppendChild(third)

	second := NewText("second")
	parent.InsertBefore(second, third)

	if len(parent.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(parent.Children))
	}
	got := []string{parent.Children[0].Data, parent.Children[1].Data, parent.Children[2].Data}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInsertBeforeNilAppends(t *testing.T) {
	parent := NewElement(token.HTML, token.Div, "div")
	parent.AppendChild(NewText("a"))
	parent.InsertBefore(NewText("b"), nil)
	if len(parent.Children) != 2 || parent.Children[1].Data != "b" {
		t.Errorf("expected nil before to append, got %+v", parent.Children)
	}
}

func TestSetAttributeFirstWriteWins(t *testing.T) {
	n := NewElement(token.HTML, token.Div, "div")
	n.SetAttribute("id", "first")
	n.SetAttribute("id", "second")
	if got := n.GetAttribute("id"); got != "first" {
		t.Errorf("GetAttribute(id) = %q, want %q (first write wins)", got, "first")
	}
}

func TestClasses(t *testing.T) {
	n := NewElement(token.HTML, token.Div, "div")
	n.SetAttribute("class", "a  b\tc")
	got := n.Classes()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Classes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Classes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTextContent(t *testing.T) {
	root := NewElement(token.HTML, token.Div, "div")
	root.AppendChild(NewText("a"))
	span := NewElement(token.HTML, token.SpanElem, "span")
	span.AppendChild(NewText("b"))
	root.AppendChild(span)
	root.AppendChild(NewText("c"))

	if got := root.TextContent(); got != "abc" {
		t.Errorf("TextContent() = %q, want %q", got, "abc")
	}
}

func TestRemoveChild(t *testing.T) {
	parent := NewElement(token.HTML, token.Div, "div")
	child := NewText("x")
	parent.AppendChild(child)
	parent.RemoveChild(child)
	if len(parent.Children) != 0 {
		t.Errorf("expected no children after RemoveChild, got %d", len(parent.Children))
	}
	if child.Parent != nil {
		t.Error("expected child.Parent to be nil after RemoveChild")
	}
}
