// tokenizer.go — lexical slicing of the two-language input.
//
// The tokenizer is a context-free filter: it cuts the input into a flat
// stream of string tokens without deciding what anything means. '<' as
// less-than versus tag opener is the parser's problem, resolved by lookahead
// and mode. Every token is the longest match starting at the current offset:
//
//	<!--  -->          markup comment markers
//	</    <            tag openers (only when followed by a name character)
//	/>    >            tag closers
//	//    /*  */       code comment markers
//	{...               JSX spread opener
//	@ = ( ) [ ] { } " '  and newline — single-character punctuation
//	anything else      a maximal opaque text run
//
// Dedicated punctuation tokens exist so the parser can match with plain
// string equality. Concatenating the stream reproduces the input byte for
// byte.
package surplus

import "strings"

// tokenize slices src into the flat token stream.
func tokenize(src string) []string {
	var toks []string
	start := 0 // start of the pending text run
	i := 0
	for i < len(src) {
		tok := matchToken(src, i)
		if tok == "" {
			i++
			continue
		}
		if i > start {
			toks = append(toks, src[start:i])
		}
		toks = append(toks, tok)
		i += len(tok)
		start = i
	}
	if len(src) > start {
		toks = append(toks, src[start:])
	}
	return toks
}

// matchToken returns the token starting at src[i], or "" when i continues a
// text run.
func matchToken(src string, i int) string {
	switch src[i] {
	case '<':
		switch {
		case strings.HasPrefix(src[i:], "<!--"):
			return "<!--"
		case strings.HasPrefix(src[i:], "</") && startsName(src, i+2):
			return "</"
		case startsName(src, i+1):
			return "<"
		}
	case '-':
		if strings.HasPrefix(src[i:], "-->") {
			return "-->"
		}
	case '/':
		switch {
		case strings.HasPrefix(src[i:], "//"):
			return "//"
		case strings.HasPrefix(src[i:], "/*"):
			return "/*"
		case strings.HasPrefix(src[i:], "/>"):
			return "/>"
		}
	case '*':
		if strings.HasPrefix(src[i:], "*/") {
			return "*/"
		}
	case '{':
		if strings.HasPrefix(src[i:], "{...") {
			return "{..."
		}
		return "{"
	case '>', '@', '=', '(', ')', '[', ']', '}', '"', '\'', '\n':
		return src[i : i+1]
	}
	return ""
}

func startsName(src string, i int) bool {
	if i >= len(src) {
		return false
	}
	c := src[i]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
