// sourcemap.go — location marks, mark extraction, and VLQ mapping emission.
//
// OVERVIEW
// --------
// During generation every code chunk may be prefixed with a location mark:
// the characters U+0000, the source line, a comma, the source column, and a
// closing U+0000. After generation, extractMap scans the output for marks
// and newlines in order. Each mark found at generated offset O on generated
// line L yields one mapping segment; the generated column is O minus the
// line start minus the bytes of marks already removed from that line. Marks
// are removed entirely from the final output.
//
// A segment encodes (generated column delta)(source index = 0)(source line
// delta)(source column delta). Segments on a line are comma-separated, lines
// semicolon-separated, and the generated column delta resets at each line.
//
// VLQ encoding
// ------------
// The encoding here is a base-32 variant, not the conventional Base64 VLQ:
// the value is sign-encoded to unsigned (sign bit in the LSB), split into
// base-32 digits emitted least-significant first, and each digit maps to the
// continuation alphabet `g..z0..9+/` except the most significant, which maps
// to the final alphabet `A..Za..f`. This deviation is deliberate and is
// reproduced bit-for-bit rather than "corrected" to the standard encoding.
package surplus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// SourceMap is the version-3 artifact emitted alongside (or inside) the
// generated source.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

var rxLocMark = regexp.MustCompile("^\u0000(\\d+),(\\d+)\u0000")

func locationMark(line, col int) string {
	return "\u0000" + strconv.Itoa(line) + "," + strconv.Itoa(col) + "\u0000"
}

// extractMap strips every location mark from marked and returns the clean
// source plus the finished map for it.
func extractMap(marked, original string, opts *Options) (string, *SourceMap) {
	var out strings.Builder
	out.Grow(len(marked))

	var mappingLines []string
	var curLine []string
	lineStart := 0 // offset in marked of the current generated line
	marksLen := 0  // bytes of marks seen since lineStart
	prevGenCol := 0
	prevSrcLine, prevSrcCol := 0, 0

	i := 0
	for i < len(marked) {
		ch := marked[i]
		if ch == '\n' {
			out.WriteByte('\n')
			mappingLines = append(mappingLines, strings.Join(curLine, ","))
			curLine = nil
			prevGenCol = 0
			i++
			lineStart = i
			marksLen = 0
			continue
		}
		if ch == 0 {
			if m := rxLocMark.FindStringSubmatch(marked[i:]); m != nil {
				srcLine, _ := strconv.Atoi(m[1])
				srcCol, _ := strconv.Atoi(m[2])
				genCol := i - lineStart - marksLen
				curLine = append(curLine,
					vlq64(genCol-prevGenCol)+"A"+vlq64(srcLine-prevSrcLine)+vlq64(srcCol-prevSrcCol))
				prevGenCol = genCol
				prevSrcLine, prevSrcCol = srcLine, srcCol
				marksLen += len(m[0])
				i += len(m[0])
				continue
			}
		}
		out.WriteByte(ch)
		i++
	}
	mappingLines = append(mappingLines, strings.Join(curLine, ","))

	return out.String(), &SourceMap{
		Version:        3,
		File:           opts.Targetfile,
		Sources:        []string{opts.Sourcefile},
		SourcesContent: []string{original},
		Names:          []string{},
		Mappings:       strings.Join(mappingLines, ";"),
	}
}

// JSON renders the map as the JSON document consumers load from disk.
func (m *SourceMap) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// appendMap inlines the map as a data-URL comment on the stripped source.
func appendMap(src string, m *SourceMap) string {
	data, err := json.Marshal(m)
	if err != nil {
		// the map is plain strings and ints; Marshal cannot fail on it
		return src
	}
	return src + "\n//# sourceMappingURL=data:application/json," + encodeURIComponent(string(data))
}

const (
	vlqFinalDigits        = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdef"
	vlqContinuationDigits = "ghijklmnopqrstuvwxyz0123456789+/"
)

// vlq64 encodes one signed value in the custom base-32 scheme described in
// the file comment.
func vlq64(n int) string {
	u := uint32(n) << 1
	if n < 0 {
		u = uint32(-n)<<1 | 1
	}
	var buf []byte
	for {
		d := u & 31
		u >>= 5
		if u == 0 {
			buf = append(buf, vlqFinalDigits[d])
			return string(buf)
		}
		buf = append(buf, vlqContinuationDigits[d])
	}
}

// encodeURIComponent matches the escaping browsers expect in a data URL:
// alphanumerics and -_.!~*'() pass through, everything else is %XX.
func encodeURIComponent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
