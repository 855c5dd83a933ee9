// codegen.go — emits base-language source plus Surplus runtime calls from the
// normalized AST.
//
// OVERVIEW
// --------
// Code text passes through verbatim (optionally annotated with location
// marks, see sourcemap.go). Each element is lowered to one of three forms:
//
//  1. A component (uppercase tag) becomes a subcomponent invocation. Its
//     properties are grouped — consecutive named properties merge into one
//     object literal, each mixin stands alone — and the compiled children
//     array is attached as the `children` key of the first object group.
//     A single object group with no mixins collapses to a direct call:
//     `Name({ ... })`; anything else becomes
//     `Surplus.subcomponent(Name, [group, group, ...])`.
//
//  2. A markup element with no properties and no content is the static leaf
//     case: a bare `Surplus.createRootElement("tag")`.
//
//  3. Any other markup element becomes an immediately-invoked function that
//     declares an identifier per element and insert, builds the tree with
//     createRootElement / createElement / createTextNode / createComment,
//     assigns properties, spreads mixins, and returns the root. Each insert
//     gets a text-node anchor and a `Surplus.S(function (range) { ... })`
//     computation; when the element is dynamic (it has a mixin, or some
//     dynamic property looks reactive) all of its property statements are
//     collected into a single `Surplus.S(...)` wrapper instead of being
//     emitted inline.
//
// Whether a dynamic property "looks reactive" is a heuristic, not a
// semantic guarantee: an expression with no '(' at all, or one that is just
// a function head (`function ...`, `(a, b) => ...`, `x => ...`), is taken as
// signal-free; anything else re-runs inside the computation.
//
// Identifiers follow a path scheme: the root is `__`; a child at index n
// under parent p with tag t is `p + "_" + t + (n+1)`, with repeated leading
// underscores collapsed so `__` + `div1` joins to `__div1`.
//
// Generated blocks use \r\n line endings and indent by 4 spaces relative to
// the indentation of the line the element started on, inferred from the
// trailing whitespace of the code generated so far.
package surplus

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rxTrailingIndent = regexp.MustCompile(`\n([ \t]*)$`)
	rxFunctionHead   = regexp.MustCompile(`^function\s|^\([^)]*\)\s*=>|^[A-Za-z_$][A-Za-z0-9_$]*\s*=>`)
	rxIDUnsafe       = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// compile emits the output (with location marks when sourcemaps are on) for
// a parsed and transformed program.
func compile(ctl *CodeTopLevel, opts *Options) string {
	c := &codegen{jsx: opts.jsx(), marks: opts.Sourcemap != ""}
	return c.segments(ctl.Segments)
}

type codegen struct {
	jsx   bool
	marks bool
}

func (c *codegen) segments(segs []Segment) string {
	out := ""
	for _, s := range segs {
		switch s := s.(type) {
		case *CodeText:
			out += c.markedCode(s)
		case *Element:
			out += c.element(s, indentOf(out))
		}
	}
	return out
}

func (c *codegen) embedded(code *EmbeddedCode) string {
	return c.segments(code.Segments)
}

// markedCode emits a code segment, prefixing each line with its location
// mark when sourcemaps are on. Continuation lines map to column 0 of their
// own source line.
func (c *codegen) markedCode(ct *CodeText) string {
	if !c.marks {
		return ct.Text
	}
	lines := strings.Split(ct.Text, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = locationMark(ct.Loc.Line, ct.Loc.Col) + lines[i]
		} else {
			lines[i] = locationMark(ct.Loc.Line+i, 0) + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (c *codegen) element(n *Element, indent string) string {
	if n.Dialect == ElemComponent {
		return c.subComponent(n, indent)
	}
	if len(n.Properties) == 0 && len(n.Content) == 0 {
		return `Surplus.createRootElement("` + n.Tag + `")`
	}
	return c.domExpression(n, indent)
}

// ─────────────────────────── subcomponents ──────────────────────────────────

type propGroup struct {
	mixin bool
	expr  string   // mixin expression
	pairs []string // "name: value" pairs for an object group
}

func (c *codegen) subComponent(n *Element, indent string) string {
	var groups []propGroup
	addPair := func(pair string) {
		if len(groups) == 0 || groups[len(groups)-1].mixin {
			groups = append(groups, propGroup{})
		}
		g := &groups[len(groups)-1]
		g.pairs = append(g.pairs, pair)
	}
	for _, p := range n.Properties {
		switch p := p.(type) {
		case *StaticProperty:
			addPair(p.Name + ": " + p.Value)
		case *DynamicProperty:
			addPair(p.Name + ": " + c.embedded(p.Code))
		case *StyleProperty:
			addPair("style: " + c.embedded(p.Code))
		case *Mixin:
			groups = append(groups, propGroup{mixin: true, expr: c.embedded(p.Code)})
		}
	}

	var kids []string
	for _, ch := range n.Content {
		switch ch := ch.(type) {
		case *Element:
			kids = append(kids, c.element(ch, indent))
		case *Text:
			kids = append(kids, codeStr(strings.TrimSpace(ch.Text)))
		case *Insert:
			kids = append(kids, c.embedded(ch.Code))
		case *Comment:
			// no expression form in a children array
		}
	}
	children := "[" + strings.Join(kids, ", ") + "]"

	if len(groups) == 0 || groups[0].mixin {
		groups = append([]propGroup{{}}, groups...)
	}
	groups[0].pairs = append(groups[0].pairs, "children: "+children)

	if len(groups) == 1 {
		return n.Tag + "(" + groupStr(groups[0]) + ")"
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = groupStr(g)
	}
	return "Surplus.subcomponent(" + n.Tag + ", [" + strings.Join(parts, ", ") + "])"
}

func groupStr(g propGroup) string {
	if g.mixin {
		return g.expr
	}
	return "{ " + strings.Join(g.pairs, ", ") + " }"
}

// ─────────────────────────── DOM expressions ────────────────────────────────

func (c *codegen) domExpression(top *Element, indent string) string {
	b := &domBuilder{c: c}
	b.element(top, "", 0)
	nli := "\r\n" + indent + "    "
	return "(function () {" + nli +
		"var " + strings.Join(b.ids, ", ") + ";" + nli +
		strings.Join(b.stmts, nli) + nli +
		"return __;" +
		"\r\n" + indent + "})()"
}

type domBuilder struct {
	c     *codegen
	ids   []string
	stmts []string
}

func (b *domBuilder) declare(id string) { b.ids = append(b.ids, id) }
func (b *domBuilder) stmt(s string)     { b.stmts = append(b.stmts, s) }

func (b *domBuilder) element(n *Element, parent string, index int) {
	id := childID(parent, n.Tag, index)
	b.declare(id)
	if parent == "" {
		b.stmt(id + " = Surplus.createRootElement(" + codeStr(n.Tag) + ");")
	} else {
		b.stmt(id + " = Surplus.createElement(" + codeStr(n.Tag) + ", " + parent + ");")
	}

	stmts, dynamic, stateVar := b.properties(n, id)
	if dynamic && len(stmts) > 0 {
		b.stmt(computation(stmts, stateVar, ""))
	} else {
		for _, s := range stmts {
			b.stmt(s)
		}
	}

	for i, ch := range n.Content {
		switch ch := ch.(type) {
		case *Element:
			if ch.Dialect == ElemComponent {
				// component in markup position: anchor a text node and
				// insert the subcomponent's value there
				b.insertExpr(id, i, b.c.subComponent(ch, ""))
			} else {
				b.element(ch, id, i)
			}
		case *Comment:
			b.stmt("Surplus.createComment(" + codeStr(ch.Text) + ", " + id + ");")
		case *Text:
			b.stmt("Surplus.createTextNode(" + codeStr(ch.Text) + ", " + id + ");")
		case *Insert:
			b.insertExpr(id, i, b.c.embedded(ch.Code))
		}
	}
}

// insertExpr allocates a text-node anchor under parent and binds a reactive
// computation that inserts the expression's value at it.
func (b *domBuilder) insertExpr(parent string, index int, expr string) {
	id := childID(parent, "insert", index)
	b.declare(id)
	b.stmt(id + " = Surplus.createTextNode('', " + parent + ");")
	b.stmt("Surplus.S(function (range) { Surplus.insert(range, " + expr + "); }, { start: " + id + ", end: " + id + " });")
}

// properties compiles the property statements for one element and reports
// whether they must run inside a reactive computation. stateVar is "__state"
// when a mixin threads spread state through re-runs.
func (b *domBuilder) properties(n *Element, id string) (stmts []string, dynamic bool, stateVar string) {
	lastMixin := -1
	for i, p := range n.Properties {
		if _, ok := p.(*Mixin); ok {
			lastMixin = i
		}
	}
	dynamic = lastMixin >= 0
	finalMixin := lastMixin == len(n.Properties)-1

	for i, p := range n.Properties {
		switch p := p.(type) {
		case *StaticProperty:
			stmts = append(stmts, id+"."+b.c.propName(p.Name)+" = "+p.Value+";")
		case *DynamicProperty:
			expr := b.c.embedded(p.Code)
			if p.Name == "ref" {
				stmts = append(stmts, expr+" = "+id+";")
			} else {
				stmts = append(stmts, id+"."+b.c.propName(p.Name)+" = "+expr+";")
				if !noApparentSignals(expr) {
					dynamic = true
				}
			}
		case *StyleProperty:
			expr := b.c.embedded(p.Code)
			stmts = append(stmts, id+".style = "+expr+";")
			if !noApparentSignals(expr) {
				dynamic = true
			}
		case *Mixin:
			expr := b.c.embedded(p.Code)
			if i != lastMixin {
				mid := childID(id, "mixin", i)
				b.declare(mid)
				stmts = append(stmts, mid+" = Surplus.spread("+expr+", "+id+", "+mid+");")
				continue
			}
			stateVar = "__state"
			if finalMixin {
				stmts = append(stmts, "Surplus.spread("+expr+", "+id+", __state);")
			} else {
				stmts = append(stmts, "__state = Surplus.spread("+expr+", "+id+", __state);")
			}
		}
	}
	return stmts, dynamic, stateVar
}

// computation renders one Surplus.S wrapper. With a state variable the last
// statement becomes the computation's return value, feeding the next run.
func computation(stmts []string, stateVar, seed string) string {
	if stateVar != "" {
		stmts = append(stmts[:len(stmts)-1:len(stmts)-1], "return "+stmts[len(stmts)-1])
	}
	head := "Surplus.S(function (" + stateVar + ") { "
	tail := " })"
	if seed != "" {
		tail = " }, " + seed + ")"
	}
	return head + strings.Join(stmts, " ") + tail + ";"
}

// ─────────────────────────── helpers ────────────────────────────────────────

// noApparentSignals reports that an expression cannot re-run: it either
// contains no call at all or is a lone function head.
func noApparentSignals(code string) bool {
	return !strings.Contains(code, "(") || rxFunctionHead.MatchString(code)
}

// childID builds the declared identifier for a child node, collapsing the
// joining underscore into a parent that already ends with one.
func childID(parent, tag string, index int) string {
	if parent == "" {
		return "__"
	}
	base := rxIDUnsafe.ReplaceAllString(tag, "") + strconv.Itoa(index+1)
	if strings.HasSuffix(parent, "_") {
		return parent + base
	}
	return parent + "_" + base
}

// propName maps JSX attribute spellings to their DOM property names.
func (c *codegen) propName(name string) string {
	if c.jsx {
		switch name {
		case "class":
			return "className"
		case "for":
			return "htmlFor"
		}
	}
	return name
}

// codeStr encodes text as a single-quoted code literal: backslash and quote
// escaped, newlines as line continuations.
func codeStr(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString("\\\n")
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// indentOf infers the current indentation from the trailing whitespace of
// previously generated code.
func indentOf(prev string) string {
	if m := rxTrailingIndent.FindStringSubmatch(prev); m != nil {
		return m[1]
	}
	return ""
}
