// transform_test.go
package surplus

import (
	"reflect"
	"testing"
)

func mustTransform(t *testing.T, src string, jsx bool) *CodeTopLevel {
	t.Helper()
	return transform(mustParse(t, src, jsx), jsx)
}

func staticByName(t *testing.T, el *Element, name string) *StaticProperty {
	t.Helper()
	for _, p := range el.Properties {
		if sp, ok := p.(*StaticProperty); ok && sp.Name == name {
			return sp
		}
	}
	t.Fatalf("no static property %q in %+v", name, el.Properties)
	return nil
}

func Test_Transform_Removes_Newline_Whitespace_Text(t *testing.T) {
	src := "let v = <div>\n    <span>a</span>\n</div>;"
	el := onlyElement(t, mustTransform(t, src, false))
	if len(el.Content) != 1 {
		t.Fatalf("indentation runs must be removed, content: %#v", el.Content)
	}
	if _, ok := el.Content[0].(*Element); !ok {
		t.Fatalf("want the span to survive, got %#v", el.Content[0])
	}
}

func Test_Transform_Pre_Keeps_Whitespace(t *testing.T) {
	src := "let v = <pre>a<i></i>\n</pre>;"
	el := onlyElement(t, mustTransform(t, src, false))
	if len(el.Content) != 3 {
		t.Fatalf("pre content must be untouched, got %d children: %#v", len(el.Content), el.Content)
	}
	if txt, ok := el.Content[2].(*Text); !ok || txt.Text != "\n" {
		t.Fatalf("trailing newline must survive in pre: %#v", el.Content[2])
	}
}

func Test_Transform_JSX_Removes_Any_Whitespace_Only_Text(t *testing.T) {
	src := "let v = <div> <span>a</span> </div>;"
	el := onlyElement(t, mustTransform(t, src, true))
	if len(el.Content) != 1 {
		t.Fatalf("whitespace-only text must be removed in JSX, content: %#v", el.Content)
	}
}

func Test_Transform_Collapses_Whitespace_And_Promotes(t *testing.T) {
	src := "let v = <div>a   b\n\n c</div>;"
	el := onlyElement(t, mustTransform(t, src, false))
	if len(el.Content) != 0 {
		t.Fatalf("text-only content must be promoted, content: %#v", el.Content)
	}
	if sp := staticByName(t, el, "textContent"); sp.Value != "'a b c'" {
		t.Fatalf("collapsed text mismatch: %q", sp.Value)
	}
}

func Test_Transform_Entities(t *testing.T) {
	cases := map[string]string{
		"&amp;":            "&",
		"&#65;":            "A",
		"&#x41;":           "A",
		"&copy;&hellip;":   "©…",
		"&bogus;":          "&bogus;", // unknown names pass through
		"a &lt; b &gt; c":  "a < b > c",
		"no entities here": "no entities here",
	}
	for in, want := range cases {
		if got := translateEntities(in); got != want {
			t.Fatalf("translateEntities(%q) = %q, want %q", in, got, want)
		}
	}
}

func Test_Transform_Entities_Native_Only(t *testing.T) {
	native := onlyElement(t, mustTransform(t, `let v = <div>&amp;&#65;</div>;`, false))
	if sp := staticByName(t, native, "textContent"); sp.Value != "'&A'" {
		t.Fatalf("native entity translation mismatch: %q", sp.Value)
	}

	jsx := onlyElement(t, mustTransform(t, `let v = <div>&amp;&#65;</div>;`, true))
	if sp := staticByName(t, jsx, "textContent"); sp.Value != "'&amp;&#65;'" {
		t.Fatalf("JSX must leave entities verbatim: %q", sp.Value)
	}
}

func Test_Transform_JSX_Event_Names(t *testing.T) {
	src := `let v = <div onClick={f} onDoubleClick={g} ref={r}/>;`
	el := onlyElement(t, mustTransform(t, src, true))
	names := []string{}
	for _, p := range el.Properties {
		names = append(names, p.(*DynamicProperty).Name)
	}
	want := []string{"onclick", "ondblclick", "ref"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("property names mismatch: %v, want %v", names, want)
	}
}

func Test_Transform_Component_Property_Names_Untouched(t *testing.T) {
	el := onlyElement(t, mustTransform(t, `let v = <Foo onClick={f}/>;`, true))
	if dp := el.Properties[0].(*DynamicProperty); dp.Name != "onClick" {
		t.Fatalf("component property renamed: %q", dp.Name)
	}
}

func Test_Transform_No_Promotion_With_Dynamic_Properties(t *testing.T) {
	el := onlyElement(t, mustTransform(t, `let v = <div onClick={f}>hi</div>;`, true))
	if len(el.Content) != 1 {
		t.Fatalf("text must stay a child next to dynamic properties: %#v", el.Content)
	}
	for _, p := range el.Properties {
		if sp, ok := p.(*StaticProperty); ok && sp.Name == "textContent" {
			t.Fatalf("unexpected textContent promotion: %#v", sp)
		}
	}
}

func Test_Transform_Duplicate_Properties_Last_Wins(t *testing.T) {
	src := `let v = <div a="1" {...m} a="2" b="x"/>;`
	el := onlyElement(t, mustTransform(t, src, true))
	if len(el.Properties) != 3 {
		t.Fatalf("want mixin + 2 named properties, got %#v", el.Properties)
	}
	if _, ok := el.Properties[0].(*Mixin); !ok {
		t.Fatalf("mixin must survive dedup: %#v", el.Properties[0])
	}
	if sp := staticByName(t, el, "a"); sp.Value != "'2'" {
		t.Fatalf("last duplicate must win: %q", sp.Value)
	}
}

func Test_Transform_Style_May_Repeat(t *testing.T) {
	el := onlyElement(t, mustTransform(t, `let v = <div style={s1} style={s2}/>;`, true))
	styles := 0
	for _, p := range el.Properties {
		if _, ok := p.(*StyleProperty); ok {
			styles++
		}
	}
	if styles != 2 {
		t.Fatalf("style properties must repeat, got %d", styles)
	}
}

func Test_Transform_Property_Names_Unique_After_Pipeline(t *testing.T) {
	srcs := []struct {
		src string
		jsx bool
	}{
		{`let v = <div a="1" a="2" onClick={f} onclick={g} style={s} style={s2}/>;`, true},
		{`let v = <div id=a id=b class="x">text</div>;`, false},
	}
	for _, tc := range srcs {
		el := onlyElement(t, mustTransform(t, tc.src, tc.jsx))
		seen := map[string]bool{}
		for _, p := range el.Properties {
			name, ok := propertyName(p)
			if !ok {
				continue
			}
			if seen[name] {
				t.Fatalf("duplicate property %q after transform\nsource:\n%s", name, tc.src)
			}
			seen[name] = true
		}
	}
}

func Test_Transform_Is_Idempotent(t *testing.T) {
	srcs := []struct {
		src string
		jsx bool
	}{
		{"let v = <div>\n  a   b\n  <span>c</span>\n</div>;", false},
		{`let v = <div a="1" a="2" onClick={f}>{x} y </div>;`, true},
		{`let v = <div>&amp;&#65;</div>;`, false},
		{"let v = <pre>  keep\n  this  </pre>;", false},
	}
	for _, tc := range srcs {
		once := mustTransform(t, tc.src, tc.jsx)
		twice := transform(once, tc.jsx)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("transform is not idempotent\nsource:\n%s\nonce:  %#v\ntwice: %#v", tc.src, once, twice)
		}
	}
}
