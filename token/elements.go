package token

// elementNames maps a lowercased tag name to its ElementType. Names
// not present map to Unknown, which the tree builder treats generically.
var elementNames = map[string]ElementType{
	"html": HTMLElem, "head": Head, "body": Body, "frameset": Frameset,

	"applet": Applet, "caption": Caption, "table": Table, "td": Td,
	"th": Th, "button": Button, "marquee": Marquee, "object": Object,

	"li": Li, "dd": Dd, "dt": Dt, "ol": Ol, "ul": Ul, "tr": Tr,
	"tbody": Tbody, "thead": Thead, "tfoot": Tfoot, "col": Col,
	"colgroup": Colgroup, "select": Select, "option": Option,
	"optgroup": Optgroup, "form": Form,

	"p": P, "br": Br, "img": Img, "hr": Hr, "pre": Pre, "listing": Listing,
	"plaintext": Plaintext, "textarea": Textarea, "script": Script,
	"style": Style, "title": Title, "noscript": Noscript, "base": Base,
	"basefont": BaseFont, "bgsound": Bgsound, "link": Link, "meta": Meta,
	"noframes": NoFrames, "noembed": Noembed, "embed": Embed, "iframe": Iframe, "param": Param,
	"area": Area, "source": Source, "track": Track, "wbr": Wbr, "xmp": Xmp,
	"h1": H1, "h2": H2, "h3": H3, "h4": H4, "h5": H5, "h6": H6,
	"dl": Dl, "div": Div, "center": Center, "blockquote": Blockquote,
	"menu": Menu, "fieldset": Fieldset, "address": Address,
	"article": Article, "aside": Aside, "details": Details,
	"figcaption": Figcaption, "figure": Figure, "footer": Footer,
	"header": Header, "hgroup": Hgroup, "main": Main, "nav": Nav,
	"section": Section, "summary": Summary, "dir": Dir, "input": Input,
	"template": Template, "dialog": Dialog, "frame": Frame, "keygen": Keygen,

	"a": A, "b": B, "big": Big, "code": Code, "em": Em, "font": Font,
	"i": I, "nobr": Nobr, "s": S, "small": Small, "strike": Strike,
	"strong": Strong, "sub": Sub, "sup": Sup, "u": U, "tt": Tt, "var": Var,
	"ruby": Ruby, "rb": Rb, "rp": Rp, "rt": Rt, "rtc": Rtc, "span": SpanElem,

	"mi": Mi, "mo": Mo, "mn": Mn, "ms": Ms, "mtext": Mtext,
	"annotation-xml": AnnotationXML, "malignmark": MAlignMark, "mglyph": MGlyph,

	"svg": SVGElem, "foreignobject": SVGForeignObject, "desc": SVGDesc,
}

// LookupHTML returns the ElementType for a lowercased tag name in the
// HTML namespace, or Unknown if the name has no special meaning to the
// tree builder.
func LookupHTML(name string) ElementType {
	if t, ok := elementNames[name]; ok {
		return t
	}
	return Unknown
}

// LookupSVG resolves SVG-namespace names that the tree builder needs
// to distinguish (integration points); everything else is Unknown.
func LookupSVG(name string) ElementType {
	switch name {
	case "svg":
		return SVGElem
	case "foreignObject", "foreignobject":
		return SVGForeignObject
	case "desc":
		return SVGDesc
	case "title":
		return SVGTitle
	case "script":
		return SVGScript
	default:
		return Unknown
	}
}
