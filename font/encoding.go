package font

import (
	"golang.org/x/text/encoding/charmap"
)

// Encoding maps single-byte codes to runes. Zero means the code has no
// character.
type Encoding [256]rune

// Decode returns the rune for code b, or 0 if none.
func (e *Encoding) Decode(b byte) rune {
	return e[b]
}

// Predefined simple encodings.
var (
	StandardEncoding Encoding
	WinAnsiEncoding  Encoding
	MacRomanEncoding Encoding
	PDFDocEncoding   Encoding
)

// EncodingByName returns a predefined encoding by its PDF name.
func EncodingByName(name string) (*Encoding, bool) {
	switch name {
	case "StandardEncoding":
		return &StandardEncoding, true
	case "WinAnsiEncoding":
		return &WinAnsiEncoding, true
	case "MacRomanEncoding":
		return &MacRomanEncoding, true
	case "PDFDocEncoding":
		return &PDFDocEncoding, true
	}
	return nil, false
}

func init() {
	for c := 0x20; c < 0x7F; c++ {
		StandardEncoding[c] = rune(c)
		PDFDocEncoding[c] = rune(c)
	}
	StandardEncoding['\''] = '’'
	StandardEncoding['`'] = '‘'
	for code, name := range standardHigh {
		StandardEncoding[code] = glyphRune(name)
	}

	for c := 0x20; c < 0x100; c++ {
		if r := charmap.Windows1252.DecodeByte(byte(c)); isPrintable(r) {
			WinAnsiEncoding[c] = r
		}
		if r := charmap.Macintosh.DecodeByte(byte(c)); isPrintable(r) {
			MacRomanEncoding[c] = r
		}
	}
	// PDF maps the unused WinAnsi codes to bullet.
	for _, c := range []byte{0x7F, 0x81, 0x8D, 0x8F, 0x90, 0x9D} {
		WinAnsiEncoding[c] = '•'
	}
	WinAnsiEncoding[0xA0] = ' '
	WinAnsiEncoding[0xAD] = '-'

	PDFDocEncoding['\t'] = '\t'
	PDFDocEncoding['\n'] = '\n'
	PDFDocEncoding['\r'] = '\r'
	for c := 0xA1; c < 0x100; c++ {
		PDFDocEncoding[c] = rune(c)
	}
	for code, r := range pdfDocSpecial {
		PDFDocEncoding[code] = r
	}
}

func isPrintable(r rune) bool {
	return r >= 0x20 && !(r >= 0x7F && r < 0xA0) && r != '�'
}

// standardHigh lists the non-ASCII half of StandardEncoding by glyph name.
var standardHigh = map[byte]string{
	0xA1: "exclamdown", 0xA2: "cent", 0xA3: "sterling", 0xA4: "fraction",
	0xA5: "yen", 0xA6: "florin", 0xA7: "section", 0xA8: "currency",
	0xA9: "quotesingle", 0xAA: "quotedblleft", 0xAB: "guillemotleft",
	0xAC: "guilsinglleft", 0xAD: "guilsinglright", 0xAE: "fi", 0xAF: "fl",
	0xB1: "endash", 0xB2: "dagger", 0xB3: "daggerdbl", 0xB4: "periodcentered",
	0xB6: "paragraph", 0xB7: "bullet", 0xB8: "quotesinglbase",
	0xB9: "quotedblbase", 0xBA: "quotedblright", 0xBB: "guillemotright",
	0xBC: "ellipsis", 0xBD: "perthousand", 0xBF: "questiondown",
	0xC1: "grave", 0xC2: "acute", 0xC3: "circumflex", 0xC4: "tilde",
	0xC5: "macron", 0xC6: "breve", 0xC7: "dotaccent", 0xC8: "dieresis",
	0xCA: "ring", 0xCB: "cedilla", 0xCD: "hungarumlaut", 0xCE: "ogonek",
	0xCF: "caron", 0xD0: "emdash", 0xE1: "AE", 0xE3: "ordfeminine",
	0xE8: "Lslash", 0xE9: "Oslash", 0xEA: "OE", 0xEB: "ordmasculine",
	0xF1: "ae", 0xF5: "dotlessi", 0xF8: "lslash", 0xF9: "oslash",
	0xFA: "oe", 0xFB: "germandbls",
}

var pdfDocSpecial = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙',
	0x1C: '˝', 0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
	0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł',
	0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0xA0: '€',
}
