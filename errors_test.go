// errors_test.go
package surplus

import (
	"errors"
	"strings"
	"testing"
)

func Test_WrapErrorWithSource_Renders_Caret_Snippet(t *testing.T) {
	src := "let a = 1;\nlet b = <div></span>;\nlet c = 3;"
	_, err := Preprocess(src, DefaultOptions())
	if err == nil {
		t.Fatalf("expected parse error")
	}
	msg := WrapErrorWithSource(err, src).Error()

	for _, want := range []string{
		"PARSE ERROR at 2:9: mismatched open and close tags",
		"   1 | let a = 1;",
		"   2 | let b = <div></span>;",
		"   3 | let c = 3;",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("snippet missing %q:\n%s", want, msg)
		}
	}
	// caret sits under the 1-based column 9
	if !strings.Contains(msg, "     | "+strings.Repeat(" ", 8)+"^") {
		t.Fatalf("caret misplaced:\n%s", msg)
	}
}

func Test_WrapErrorWithSource_Caret_Mirrors_Tabs(t *testing.T) {
	src := "\tlet b = <div></span>;"
	_, err := Preprocess(src, DefaultOptions())
	if err == nil {
		t.Fatalf("expected parse error")
	}
	msg := WrapErrorWithSource(err, src).Error()
	// the element starts at column 10 (tab + "let b = "); the pad keeps the
	// tab so the caret stays under the '<' however wide the tab renders
	if !strings.Contains(msg, "     | \t"+strings.Repeat(" ", 8)+"^") {
		t.Fatalf("caret must reuse the line's tabs:\n%s", msg)
	}
}

func Test_WrapErrorWithSource_Passes_Other_Errors_Through(t *testing.T) {
	sentinel := errors.New("boom")
	if got := WrapErrorWithSource(sentinel, "src"); got != sentinel {
		t.Fatalf("non-parse errors must pass through, got %v", got)
	}
}

func Test_WrapErrorWithName_Includes_Source_Name(t *testing.T) {
	src := `let x = "unterminated`
	_, err := Preprocess(src, DefaultOptions())
	if err == nil {
		t.Fatalf("expected parse error")
	}
	msg := WrapErrorWithName(err, "view.jsx", src).Error()
	if !strings.Contains(msg, "PARSE ERROR in view.jsx at ") {
		t.Fatalf("header missing name:\n%s", msg)
	}
}
