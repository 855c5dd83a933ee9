// errors.go: user-facing error wrapping and caret-snippet rendering
//
// What this file does
// -------------------
// This module turns the parser's diagnostic into a readable, Python-style
// error snippet with a caret pointing at the offending column. The primary
// entry point is `WrapErrorWithSource`, which recognizes `*ParseError`
// (from parser.go), formats it, and returns a new `error` whose message is a
// multi-line snippet:
//
//	PARSE ERROR at 3:12: mismatched open and close tags
//
//	   2 | let title = "x";
//	   3 | let view = <div></span>;
//	     |            ^
//	   4 | export view;
//
// The snippet shows a window of one line on each side of the error, numbers
// the lines, and places a caret under the offending column. The renderer
// consumes the parser's 0-based Loc coordinates directly; the 1-based
// numbers exist only in the printed gutter and header. Caret padding mirrors
// any tabs in the source line so the caret stays aligned however wide the
// terminal renders them.
//
// Failures are parse-time only and fatal: the whole preprocess call aborts
// and surfaces a single *ParseError. The tokenizer, transforms, and code
// generator cover every AST shape the parser can emit and produce no errors
// of their own.
//
// Behavior guarantees
// -------------------
//   - If `err` is a `*ParseError`, the returned error's message is a fully
//     formatted, plain-text snippet (no ANSI colors).
//   - If `err` is anything else, it is returned unchanged.
//   - Out-of-range coordinates are clamped so the caret can always be
//     rendered.
package surplus

import (
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// ParseError is the single diagnostic the pipeline can produce. Line and Col
// are 0-based; Excerpt is a short slice of the source starting at the error
// offset.
type ParseError struct {
	Msg     string
	Line    int
	Col     int
	Excerpt string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s near %q", e.Line+1, e.Col+1, e.Msg, e.Excerpt)
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes *ParseError and leaves other
// errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name in the header
// ("PARSE ERROR in <name> at ...").
func WrapErrorWithName(err error, srcName string, src string) error {
	if e, ok := err.(*ParseError); ok {
		return fmt.Errorf("%s", renderSnippet(src, srcName, e))
	}
	return err
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: snippet rendering
   =========================== */

// renderSnippet draws the window of lines around e's position with a caret
// under the error column. e carries 0-based coordinates; clamping keeps the
// window inside the source.
func renderSnippet(src, name string, e *ParseError) string {
	lines := strings.Split(src, "\n")
	line := clamp(e.Line, 0, len(lines)-1)
	col := clamp(e.Col, 0, len(lines[line]))

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "PARSE ERROR in %s at %d:%d: %s\n\n", name, line+1, col+1, e.Msg)
	} else {
		fmt.Fprintf(&b, "PARSE ERROR at %d:%d: %s\n\n", line+1, col+1, e.Msg)
	}

	lo := clamp(line-1, 0, len(lines)-1)
	hi := clamp(line+1, 0, len(lines)-1)
	for i := lo; i <= hi; i++ {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, lines[i])
		if i == line {
			fmt.Fprintf(&b, "     | %s^\n", caretPad(lines[i], col))
		}
	}
	return b.String()
}

// caretPad builds the whitespace run that positions the caret, keeping any
// tabs from the source line so the caret lines up under tabbed indentation.
func caretPad(lineTxt string, col int) string {
	pad := make([]byte, col)
	for i := range pad {
		if i < len(lineTxt) && lineTxt[i] == '\t' {
			pad[i] = '\t'
		} else {
			pad[i] = ' '
		}
	}
	return string(pad)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
