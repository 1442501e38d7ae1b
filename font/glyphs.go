package font

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// glyphNames covers the glyph names that appear in the standard Latin
// encodings and in typical /Differences arrays. Single ASCII letters map
// to themselves and are handled in glyphRune.
var glyphNames = withLatin1(map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"quoteright": '’', "parenleft": '(', "parenright": ')',
	"asterisk": '*', "plus": '+', "comma": ',', "hyphen": '-',
	"period": '.', "slash": '/', "zero": '0', "one": '1', "two": '2',
	"three": '3', "four": '4', "five": '5', "six": '6', "seven": '7',
	"eight": '8', "nine": '9', "colon": ':', "semicolon": ';',
	"less": '<', "equal": '=', "greater": '>', "question": '?', "at": '@',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"quoteleft": '‘', "braceleft": '{', "bar": '|', "braceright": '}',
	"asciitilde": '~', "minus": '−', "nbspace": ' ',
	"fraction": '⁄', "florin": 'ƒ', "quotedblleft": '“',
	"quotedblright": '”', "guilsinglleft": '‹',
	"guilsinglright": '›', "endash": '–', "emdash": '—',
	"dagger": '†', "daggerdbl": '‡', "bullet": '•',
	"quotesinglbase": '‚', "quotedblbase": '„',
	"ellipsis": '…', "perthousand": '‰', "circumflex": 'ˆ',
	"tilde": '˜', "breve": '˘', "dotaccent": '˙',
	"ring": '˚', "hungarumlaut": '˝', "ogonek": '˛',
	"caron": 'ˇ', "Lslash": 'Ł', "lslash": 'ł',
	"OE": 'Œ', "oe": 'œ', "dotlessi": 'ı',
	"Scaron": 'Š', "scaron": 'š', "Zcaron": 'Ž',
	"zcaron": 'ž', "Ydieresis": 'Ÿ', "trademark": '™',
	"Euro": '€', "fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ',
	"ffi": 'ﬃ', "ffl": 'ﬄ', "periodcentered": '·',
	"middot": '·', "sfthyphen": '­', "copyright": '©',
	"registered": '®', "degree": '°', "arrowright": '→',
	"arrowleft": '←', "checkmark": '✓', "lessequal": '≤',
	"greaterequal": '≥', "notequal": '≠', "infinity": '∞',
})

// latin1Names names U+00A1 through U+00FF in order.
var latin1Names = strings.Fields(`
exclamdown cent sterling currency yen brokenbar section dieresis copyright
ordfeminine guillemotleft logicalnot hyphen registered macron degree
plusminus twosuperior threesuperior acute mu paragraph periodcentered
cedilla onesuperior ordmasculine guillemotright onequarter onehalf
threequarters questiondown Agrave Aacute Acircumflex Atilde Adieresis
Aring AE Ccedilla Egrave Eacute Ecircumflex Edieresis Igrave Iacute
Icircumflex Idieresis Eth Ntilde Ograve Oacute Ocircumflex Otilde
Odieresis multiply Oslash Ugrave Uacute Ucircumflex Udieresis Yacute
Thorn germandbls agrave aacute acircumflex atilde adieresis aring ae
ccedilla egrave eacute ecircumflex edieresis igrave iacute icircumflex
idieresis eth ntilde ograve oacute ocircumflex otilde odieresis divide
oslash ugrave uacute ucircumflex udieresis yacute thorn ydieresis`)

func withLatin1(m map[string]rune) map[string]rune {
	for i, name := range latin1Names {
		if _, taken := m[name]; !taken {
			m[name] = rune(0xA1 + i)
		}
	}
	return m
}

// glyphRune maps a glyph name to a rune, or 0 when the name is unknown.
func glyphRune(name string) rune {
	s := glyphString(name)
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// glyphString maps a glyph name to text. Ligature names joined with
// underscores ("f_f_i") decode to several characters.
func glyphString(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if strings.Contains(name, "_") {
		var b strings.Builder
		for _, part := range strings.Split(name, "_") {
			s := glyphString(part)
			if s == "" {
				return ""
			}
			b.WriteString(s)
		}
		return b.String()
	}
	if r, ok := glyphNames[name]; ok {
		return string(r)
	}
	if len(name) == 1 && isASCIILetter(name[0]) {
		return name
	}
	if r, ok := unicodeGlyphName(name); ok {
		return string(r)
	}
	return ""
}

// unicodeGlyphName handles "uniXXXX" and "uXXXX[XX]" names.
func unicodeGlyphName(name string) (rune, bool) {
	var hex string
	switch {
	case strings.HasPrefix(name, "uni") && len(name) == 7:
		hex = name[3:]
	case strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7:
		hex = name[1:]
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
