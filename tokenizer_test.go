// tokenizer_test.go
package surplus

import (
	"reflect"
	"strings"
	"testing"
)

func wantTokens(t *testing.T, src string, want []string) {
	t.Helper()
	got := tokenize(src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokenize(%q)\n got: %q\nwant: %q", src, got, want)
	}
}

func Test_Tokenizer_Punctuation_And_Text(t *testing.T) {
	wantTokens(t, `let x = <div class="a">hi</div>;`, []string{
		"let x ", "=", " ", "<", "div class", "=", `"`, "a", `"`, ">", "hi", "</", "div", ">", ";",
	})
}

func Test_Tokenizer_Tag_Openers_Need_A_Name(t *testing.T) {
	// '<' and '</' are only tokens when a name character follows
	wantTokens(t, "a < b", []string{"a < b"})
	wantTokens(t, "a <b", []string{"a ", "<", "b"})
	wantTokens(t, "a </ b", []string{"a </ b"})
	wantTokens(t, "x</i", []string{"x", "</", "i"})
}

func Test_Tokenizer_Comment_Markers(t *testing.T) {
	wantTokens(t, "//x\n/*y*/", []string{"//", "x", "\n", "/*", "y", "*/"})
	wantTokens(t, "<!--c-->", []string{"<!--", "c", "-->"})
}

func Test_Tokenizer_JSX_Spread_Is_One_Token(t *testing.T) {
	wantTokens(t, "{...m}", []string{"{...", "m", "}"})
	wantTokens(t, "{..m}", []string{"{", "..m", "}"})
}

func Test_Tokenizer_Self_Close_Vs_Division(t *testing.T) {
	wantTokens(t, "<br/>", []string{"<", "br", "/>"})
	wantTokens(t, "a/b", []string{"a/b"})
}

func Test_Tokenizer_Roundtrip(t *testing.T) {
	srcs := []string{
		"",
		"plain code, no markup at all;\nsecond line",
		`let v = <div a="1" onClick={() => go()}>text {x} more</div>;`,
		"let v = <ul>@items</ul>\n// trailing comment",
		"odd bits: -- -> */ /* { } ... \\",
	}
	for _, src := range srcs {
		if got := strings.Join(tokenize(src), ""); got != src {
			t.Fatalf("tokens do not reassemble the input\n got: %q\nwant: %q", got, src)
		}
	}
}
