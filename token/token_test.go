package token

import "testing"

func TestLookupHTML(t *testing.T) {
	cases := []struct {
		name string
		want ElementType
	}{
		{"div", Div},
		{"table", Table},
		{"p", P},
		{"nonexistent-element", Unknown},
		{"", Unknown},
	}
	for _, c := range cases {
		if got := LookupHTML(c.name); got != c.want {
			t.Errorf("LookupHTML(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLookupSVG(t *testing.T) {
	if got := LookupSVG("foreignObject"); got != SVGForeignObject {
		t.Errorf("LookupSVG(foreignObject) = %v, want SVGForeignObject", got)
	}
	if got := LookupSVG("svg"); got != SVGElem {
		t.Errorf("LookupSVG(svg) = %v, want SVGElem", got)
	}
	if got := LookupSVG("rect"); got != Unknown {
		t.Errorf("LookupSVG(rect) = %v, want Unknown", got)
	}
}

func TestIsSpecial(t *testing.T) {
	if !IsSpecial(Div) {
		t.Error("expected div to be special")
	}
	if !IsSpecial(Table) {
		t.Error("expected table to be special")
	}
	if IsSpecial(A) {
		t.Error("did not expect a to be special (it's a formatting element)")
	}
	if IsSpecial(Unknown) {
		t.Error("did not expect Unknown to be special")
	}
}

func TestIsImpliedEndTag(t *testing.T) {
	for _, el := range []ElementType{Dd, Dt, Li, Option, Optgroup, P, Rb, Rp, Rt, Rtc} {
		if !IsImpliedEndTag(el) {
			t.Errorf("expected %v to have an implied end tag", el)
		}
	}
	for _, el := range []ElementType{Div, Table, A, Body} {
		if IsImpliedEndTag(el) {
			t.Errorf("did not expect %v to have an implied end tag", el)
		}
	}
}

func TestIsScoping(t *testing.T) {
	for _, el := range []ElementType{HTMLElem, Table, Td, Th, Caption, Applet, Button, Marquee, Object} {
		if !IsScoping(el) {
			t.Errorf("expected %v to be a scoping element", el)
		}
	}
	if IsScoping(Div) {
		t.Error("did not expect div to be a scoping element")
	}
}

func TestIsMathMLTextIntegrationPoint(t *testing.T) {
	for _, el := range []ElementType{Mi, Mo, Mn, Ms, Mtext} {
		if !IsMathMLTextIntegrationPoint(el) {
			t.Errorf("expected %v to be a MathML text integration point", el)
		}
	}
	if IsMathMLTextIntegrationPoint(AnnotationXML) {
		t.Error("annotation-xml is an HTML integration point under conditions, not unconditionally a text integration point")
	}
}

func TestNamespaceString(t *testing.T) {
	cases := map[Namespace]string{HTML: "html", MathML: "mathml", SVG: "svg"}
	for ns, want := range cases {
		if got := ns.String(); got != want {
			t.Errorf("Namespace(%d).String() = %q, want %q", ns, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Character: "Character", StartTag: "StartTag", EndTag: "EndTag",
		Comment: "Comment", Doctype: "Doctype", EOF: "EOF",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
