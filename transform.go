// transform.go — AST normalization passes between the parser and the code
// generator.
//
// Each pass is an Overlay on the identity copy (ast.go): it replaces the
// behavior for one node kind and delegates everything else. Compose folds the
// passes in reverse order so the first-listed pass runs outermost on each
// node; every pass rewrites the element it was handed and then hands the
// result down the chain, so later passes see earlier passes' output.
//
// All passes rewrite at the Element level (text children are rewritten
// through their parent element) so that a parent-sensitive rule like the
// <pre> exemption has the context it needs, and so that text promotion sees
// text that earlier passes have already cleaned up.
package surplus

import (
	"regexp"
	"strings"
)

var (
	rxWhitespaceOnly = regexp.MustCompile(`^\s*$`)
	rxWhitespaceRun  = regexp.MustCompile(`\s\s+`)
	rxCamelEvent     = regexp.MustCompile(`^on[A-Z]`)
)

// transform runs the normalization pipeline for the given dialect.
func transform(ctl *CodeTopLevel, jsx bool) *CodeTopLevel {
	var tx *Copier
	if jsx {
		tx = Compose(
			removeWhitespaceOnlyTextNodes,
			translateJSXPropertyNames,
			promoteTextOnlyContents,
			removeDuplicateProperties,
		)
	} else {
		tx = Compose(
			removeWhitespaceWithNewlineTextNodes,
			collapseExtraWhitespaceInText,
			translateHTMLEntitiesInText,
			promoteTextOnlyContents,
			removeDuplicateProperties,
		)
	}
	return tx.CodeTopLevel(tx, ctl)
}

// removeWhitespaceWithNewlineTextNodes drops text children that are nothing
// but whitespace containing a newline — the indentation runs between markup
// lines — except inside <pre>, where layout is content. Native dialect.
func removeWhitespaceWithNewlineTextNodes(inner Copier) Copier {
	prev := inner.Element
	inner.Element = func(tx *Copier, n *Element) *Element {
		if n.Tag != "pre" {
			n = filterContent(n, func(c Child) bool {
				t, ok := c.(*Text)
				return !(ok && rxWhitespaceOnly.MatchString(t.Text) && strings.Contains(t.Text, "\n"))
			})
		}
		return prev(tx, n)
	}
	return inner
}

// removeWhitespaceOnlyTextNodes is the JSX analogue: any whitespace-only
// text child goes.
func removeWhitespaceOnlyTextNodes(inner Copier) Copier {
	prev := inner.Element
	inner.Element = func(tx *Copier, n *Element) *Element {
		n = filterContent(n, func(c Child) bool {
			t, ok := c.(*Text)
			return !(ok && rxWhitespaceOnly.MatchString(t.Text))
		})
		return prev(tx, n)
	}
	return inner
}

// collapseExtraWhitespaceInText squeezes whitespace runs in text children to
// a single space, except inside <pre>. Native dialect.
func collapseExtraWhitespaceInText(inner Copier) Copier {
	prev := inner.Element
	inner.Element = func(tx *Copier, n *Element) *Element {
		if n.Tag != "pre" {
			n = mapText(n, func(s string) string {
				return rxWhitespaceRun.ReplaceAllString(s, " ")
			})
		}
		return prev(tx, n)
	}
	return inner
}

// translateHTMLEntitiesInText decodes numeric and named entities in text
// children. Unknown named entities pass through verbatim. Native dialect
// only; the JSX pipeline deliberately leaves entities untouched.
func translateHTMLEntitiesInText(inner Copier) Copier {
	prev := inner.Element
	inner.Element = func(tx *Copier, n *Element) *Element {
		n = mapText(n, translateEntities)
		return prev(tx, n)
	}
	return inner
}

// translateJSXPropertyNames lowercases camel-cased event properties on
// markup elements (onClick -> onclick), with onDoubleClick mapping to the
// DOM's ondblclick. Dynamic properties only; components keep their names.
func translateJSXPropertyNames(inner Copier) Copier {
	prev := inner.Element
	inner.Element = func(tx *Copier, n *Element) *Element {
		if n.Dialect != ElemComponent {
			props := make([]Property, len(n.Properties))
			changed := false
			for i, p := range n.Properties {
				if dp, ok := p.(*DynamicProperty); ok && rxCamelEvent.MatchString(dp.Name) {
					name := "ondblclick"
					if dp.Name != "onDoubleClick" {
						name = strings.ToLower(dp.Name)
					}
					props[i] = &DynamicProperty{Name: name, Code: dp.Code, Loc: dp.Loc}
					changed = true
				} else {
					props[i] = p
				}
			}
			if changed {
				n = withProperties(n, props)
			}
		}
		return prev(tx, n)
	}
	return inner
}

// promoteTextOnlyContents turns a markup element whose only content is a
// single text child into an empty element with an equivalent textContent
// property. Elements carrying dynamic properties or mixins keep their text
// child, since their property statements may re-run and textContent would
// clobber the node's children.
func promoteTextOnlyContents(inner Copier) Copier {
	prev := inner.Element
	inner.Element = func(tx *Copier, n *Element) *Element {
		if n.Dialect != ElemComponent && len(n.Content) == 1 && allStatic(n.Properties) {
			if t, ok := n.Content[0].(*Text); ok {
				props := make([]Property, len(n.Properties), len(n.Properties)+1)
				copy(props, n.Properties)
				props = append(props, &StaticProperty{Name: "textContent", Value: codeStr(t.Text)})
				n = &Element{Tag: n.Tag, Dialect: n.Dialect, Properties: props, Content: nil, Loc: n.Loc}
			}
		}
		return prev(tx, n)
	}
	return inner
}

// removeDuplicateProperties keeps the last occurrence of each property name.
// Mixins and style properties may repeat and are ignored for uniqueness.
func removeDuplicateProperties(inner Copier) Copier {
	prev := inner.Element
	inner.Element = func(tx *Copier, n *Element) *Element {
		last := map[string]int{}
		for i, p := range n.Properties {
			if name, ok := propertyName(p); ok {
				last[name] = i
			}
		}
		if len(last) < countNamed(n.Properties) {
			var props []Property
			for i, p := range n.Properties {
				name, ok := propertyName(p)
				if !ok || last[name] == i {
					props = append(props, p)
				}
			}
			n = withProperties(n, props)
		}
		return prev(tx, n)
	}
	return inner
}

// ─────────────────────────── helpers ────────────────────────────────────────

func filterContent(n *Element, keep func(Child) bool) *Element {
	var content []Child
	changed := false
	for _, c := range n.Content {
		if keep(c) {
			content = append(content, c)
		} else {
			changed = true
		}
	}
	if !changed {
		return n
	}
	return &Element{Tag: n.Tag, Dialect: n.Dialect, Properties: n.Properties, Content: content, Loc: n.Loc}
}

func mapText(n *Element, f func(string) string) *Element {
	var content []Child
	changed := false
	for _, c := range n.Content {
		if t, ok := c.(*Text); ok {
			if mapped := f(t.Text); mapped != t.Text {
				content = append(content, &Text{Text: mapped})
				changed = true
				continue
			}
		}
		content = append(content, c)
	}
	if !changed {
		return n
	}
	return &Element{Tag: n.Tag, Dialect: n.Dialect, Properties: n.Properties, Content: content, Loc: n.Loc}
}

func withProperties(n *Element, props []Property) *Element {
	return &Element{Tag: n.Tag, Dialect: n.Dialect, Properties: props, Content: n.Content, Loc: n.Loc}
}

func allStatic(props []Property) bool {
	for _, p := range props {
		if _, ok := p.(*StaticProperty); !ok {
			return false
		}
	}
	return true
}

// propertyName reports the uniqueness key for a property; mixins and style
// properties have none.
func propertyName(p Property) (string, bool) {
	switch p := p.(type) {
	case *StaticProperty:
		return p.Name, true
	case *DynamicProperty:
		return p.Name, true
	}
	return "", false
}

func countNamed(props []Property) int {
	c := 0
	for _, p := range props {
		if _, ok := propertyName(p); ok {
			c++
		}
	}
	return c
}
