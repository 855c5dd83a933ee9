// entities.go — HTML entity translation for text nodes.
//
// Translation covers decimal (&#65;) and hex (&#x41;) character references
// plus the fixed named table below. Unknown named entities pass through
// verbatim; they are not errors.
package surplus

import (
	"regexp"
	"strconv"
)

var rxEntity = regexp.MustCompile(`&(#\d+|#x[0-9a-f]+|[a-zA-Z][a-zA-Z0-9]*);`)

func translateEntities(text string) string {
	return rxEntity.ReplaceAllStringFunc(text, func(m string) string {
		body := m[1 : len(m)-1]
		if body[0] == '#' {
			var v int64
			var err error
			if len(body) > 1 && body[1] == 'x' {
				v, err = strconv.ParseInt(body[2:], 16, 32)
			} else {
				v, err = strconv.ParseInt(body[1:], 10, 32)
			}
			if err != nil {
				return m
			}
			return string(rune(v))
		}
		if r, ok := namedEntities[body]; ok {
			return string(r)
		}
		return m
	})
}

var namedEntities = map[string]rune{
	"amp":    '&',
	"lt":     '<',
	"gt":     '>',
	"quot":   '"',
	"apos":   '\'',
	"nbsp":   ' ',
	"iexcl":  '¡',
	"cent":   '¢',
	"pound":  '£',
	"curren": '¤',
	"yen":    '¥',
	"brvbar": '¦',
	"sect":   '§',
	"uml":    '¨',
	"copy":   '©',
	"ordf":   'ª',
	"laquo":  '«',
	"not":    '¬',
	"shy":    '­',
	"reg":    '®',
	"macr":   '¯',
	"deg":    '°',
	"plusmn": '±',
	"sup2":   '²',
	"sup3":   '³',
	"acute":  '´',
	"micro":  'µ',
	"para":   '¶',
	"middot": '·',
	"cedil":  '¸',
	"sup1":   '¹',
	"ordm":   'º',
	"raquo":  '»',
	"frac14": '¼',
	"frac12": '½',
	"frac34": '¾',
	"iquest": '¿',
	"times":  '×',
	"divide": '÷',
	"szlig":  'ß',
	"agrave": 'à',
	"aacute": 'á',
	"egrave": 'è',
	"eacute": 'é',
	"oelig":  'œ',
	"fnof":   'ƒ',
	"circ":   'ˆ',
	"tilde":  '˜',
	"ensp":   ' ',
	"emsp":   ' ',
	"thinsp": ' ',
	"ndash":  '–',
	"mdash":  '—',
	"lsquo":  '‘',
	"rsquo":  '’',
	"sbquo":  '‚',
	"ldquo":  '“',
	"rdquo":  '”',
	"bdquo":  '„',
	"dagger": '†',
	"Dagger": '‡',
	"bull":   '•',
	"hellip": '…',
	"permil": '‰',
	"prime":  '′',
	"Prime":  '″',
	"lsaquo": '‹',
	"rsaquo": '›',
	"oline":  '‾',
	"frasl":  '⁄',
	"euro":   '€',
	"trade":  '™',
	"larr":   '←',
	"uarr":   '↑',
	"rarr":   '→',
	"darr":   '↓',
	"harr":   '↔',
	"minus":  '−',
	"infin":  '∞',
	"ne":     '≠',
	"le":     '≤',
	"ge":     '≥',
}
