// ast.go — AST node set for the surplus preprocessor, plus the identity-copy
// traversal that transforms are layered on.
//
// OVERVIEW
// --------
// The AST is a closed set of tagged variants. A parsed program is a
// CodeTopLevel: an ordered list of segments, each either a CodeText (a verbatim
// slice of base-language source, with the Loc where it began) or an Element
// (a markup literal). Element property values and inline inserts hold an
// EmbeddedCode, which is again a list of the same segment union, so elements
// may nest inside code inside elements to any depth.
//
// **The node list:**
//
//	CodeTopLevel  { Segments }
//	CodeText      { Text, Loc }
//	EmbeddedCode  { Segments }
//	Element       { Tag, Dialect, Properties, Content, Loc }
//	StaticProperty  { Name, Value }      // Value is the ready-to-emit literal
//	DynamicProperty { Name, Code, Loc }
//	StyleProperty   { Code }             // JSX only, may repeat
//	Mixin           { Code, Loc }        // may repeat; order-significant
//	Text    { Text }
//	Comment { Text }
//	Insert  { Code, Loc }
//
// Nodes are created by the parser, rewritten (never mutated in place) by the
// transforms in transform.go, read by the code generator, then discarded.
//
// Traversal model
// ---------------
// Copier is an open record of per-variant copy functions. The zero behavior,
// built by newCopier, is a structural identity copy. A transform overrides one
// or more fields, delegating everything else to the function it wrapped.
// Every recursive call goes through the *composed* receiver passed as the
// first argument, so an inner layer's recursion still re-enters the outer
// layers for child nodes.
package surplus

// Loc identifies a position in the original source. Line and Col are
// zero-based; Pos is the byte offset.
type Loc struct {
	Line int
	Col  int
	Pos  int
}

// Segment is a CodeText or an Element.
type Segment interface{ segment() }

// Property is a StaticProperty, DynamicProperty, StyleProperty or Mixin.
type Property interface{ property() }

// Child is an Element, Text, Comment or Insert.
type Child interface{ child() }

type CodeTopLevel struct {
	Segments []Segment
}

type CodeText struct {
	Text string
	Loc  Loc
}

type EmbeddedCode struct {
	Segments []Segment
}

// ElemDialect discriminates how an Element is lowered.
type ElemDialect int

const (
	ElemHTML ElemDialect = iota
	ElemComponent
	// ElemSvgInferred is reserved in the dialect set; derivation currently
	// only yields ElemHTML and ElemComponent, and the generator treats any
	// non-component element alike.
	ElemSvgInferred
)

type Element struct {
	Tag        string
	Dialect    ElemDialect
	Properties []Property
	Content    []Child
	Loc        Loc
}

// StaticProperty holds a property whose value was a quoted string literal in
// the source. Value is the re-encoded single-quoted literal (see codeStr),
// emitted as-is by the generator.
type StaticProperty struct {
	Name  string
	Value string
}

type DynamicProperty struct {
	Name string
	Code *EmbeddedCode
	Loc  Loc
}

// StyleProperty is the JSX dialect's dynamic style= property. Unlike other
// named properties it may repeat, and duplicate-removal ignores it.
type StyleProperty struct {
	Code *EmbeddedCode
}

// Mixin is a property-position expression whose value is a bag of properties
// spread onto the element at runtime.
type Mixin struct {
	Code *EmbeddedCode
	Loc  Loc
}

type Text struct {
	Text string
}

type Comment struct {
	Text string
}

// Insert is a child-position embedded expression whose runtime value is
// inserted between two text-node anchors.
type Insert struct {
	Code *EmbeddedCode
	Loc  Loc
}

func (*CodeText) segment() {}
func (*Element) segment()  {}

func (*StaticProperty) property()  {}
func (*DynamicProperty) property() {}
func (*StyleProperty) property()   {}
func (*Mixin) property()           {}

func (*Element) child() {}
func (*Text) child()    {}
func (*Comment) child() {}
func (*Insert) child()  {}

// elemDialect derives the dialect from the tag: an uppercase first letter
// means a component, anything else is plain markup.
func elemDialect(tag string) ElemDialect {
	if tag != "" && tag[0] >= 'A' && tag[0] <= 'Z' {
		return ElemComponent
	}
	return ElemHTML
}

// ─────────────────────────── identity-copy traversal ────────────────────────

// Copier is an open record of per-variant copy functions. Overriding a field
// and delegating to the previous value layers a rewrite on top of the
// identity copy; Compose folds a list of such overlays.
type Copier struct {
	CodeTopLevel    func(tx *Copier, n *CodeTopLevel) *CodeTopLevel
	EmbeddedCode    func(tx *Copier, n *EmbeddedCode) *EmbeddedCode
	Segment         func(tx *Copier, n Segment) Segment
	CodeText        func(tx *Copier, n *CodeText) *CodeText
	Element         func(tx *Copier, n *Element) *Element
	Property        func(tx *Copier, n Property) Property
	StaticProperty  func(tx *Copier, n *StaticProperty) *StaticProperty
	DynamicProperty func(tx *Copier, n *DynamicProperty) *DynamicProperty
	StyleProperty   func(tx *Copier, n *StyleProperty) *StyleProperty
	Mixin           func(tx *Copier, n *Mixin) *Mixin
	Child           func(tx *Copier, n Child) Child
	Text            func(tx *Copier, n *Text) *Text
	Comment         func(tx *Copier, n *Comment) *Comment
	Insert          func(tx *Copier, n *Insert) *Insert
}

// Overlay takes the copier built so far and returns a version with some
// behaviors replaced.
type Overlay func(Copier) Copier

// Compose folds overlays onto the identity copy in reverse order, so the
// first-listed overlay runs outermost on each node.
func Compose(overlays ...Overlay) *Copier {
	tx := newCopier()
	for i := len(overlays) - 1; i >= 0; i-- {
		tx = overlays[i](tx)
	}
	return &tx
}

// newCopier builds the identity copy. Unchanged subtrees are still copied
// shallowly; transforms rely on never mutating a node they received.
func newCopier() Copier {
	return Copier{
		CodeTopLevel: func(tx *Copier, n *CodeTopLevel) *CodeTopLevel {
			return &CodeTopLevel{Segments: copySegments(tx, n.Segments)}
		},
		EmbeddedCode: func(tx *Copier, n *EmbeddedCode) *EmbeddedCode {
			return &EmbeddedCode{Segments: copySegments(tx, n.Segments)}
		},
		Segment: func(tx *Copier, n Segment) Segment {
			switch n := n.(type) {
			case *CodeText:
				return tx.CodeText(tx, n)
			case *Element:
				return tx.Element(tx, n)
			}
			return n
		},
		CodeText: func(tx *Copier, n *CodeText) *CodeText {
			return &CodeText{Text: n.Text, Loc: n.Loc}
		},
		Element: func(tx *Copier, n *Element) *Element {
			var props []Property
			if n.Properties != nil {
				props = make([]Property, len(n.Properties))
				for i, p := range n.Properties {
					props[i] = tx.Property(tx, p)
				}
			}
			var content []Child
			if n.Content != nil {
				content = make([]Child, len(n.Content))
				for i, c := range n.Content {
					content[i] = tx.Child(tx, c)
				}
			}
			return &Element{Tag: n.Tag, Dialect: n.Dialect, Properties: props, Content: content, Loc: n.Loc}
		},
		Property: func(tx *Copier, n Property) Property {
			switch n := n.(type) {
			case *StaticProperty:
				return tx.StaticProperty(tx, n)
			case *DynamicProperty:
				return tx.DynamicProperty(tx, n)
			case *StyleProperty:
				return tx.StyleProperty(tx, n)
			case *Mixin:
				return tx.Mixin(tx, n)
			}
			return n
		},
		StaticProperty: func(tx *Copier, n *StaticProperty) *StaticProperty {
			return &StaticProperty{Name: n.Name, Value: n.Value}
		},
		DynamicProperty: func(tx *Copier, n *DynamicProperty) *DynamicProperty {
			return &DynamicProperty{Name: n.Name, Code: tx.EmbeddedCode(tx, n.Code), Loc: n.Loc}
		},
		StyleProperty: func(tx *Copier, n *StyleProperty) *StyleProperty {
			return &StyleProperty{Code: tx.EmbeddedCode(tx, n.Code)}
		},
		Mixin: func(tx *Copier, n *Mixin) *Mixin {
			return &Mixin{Code: tx.EmbeddedCode(tx, n.Code), Loc: n.Loc}
		},
		Child: func(tx *Copier, n Child) Child {
			switch n := n.(type) {
			case *Element:
				return tx.Element(tx, n)
			case *Text:
				return tx.Text(tx, n)
			case *Comment:
				return tx.Comment(tx, n)
			case *Insert:
				return tx.Insert(tx, n)
			}
			return n
		},
		Text:    func(tx *Copier, n *Text) *Text { return &Text{Text: n.Text} },
		Comment: func(tx *Copier, n *Comment) *Comment { return &Comment{Text: n.Text} },
		Insert: func(tx *Copier, n *Insert) *Insert {
			return &Insert{Code: tx.EmbeddedCode(tx, n.Code), Loc: n.Loc}
		},
	}
}

func copySegments(tx *Copier, segs []Segment) []Segment {
	if segs == nil {
		return nil
	}
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = tx.Segment(tx, s)
	}
	return out
}
