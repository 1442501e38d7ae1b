package font

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// utf16Text decodes UTF-16BE bytes. An odd trailing byte is dropped.
func utf16Text(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	if len(b) == 0 {
		return ""
	}
	out, err := utf16BE.NewDecoder().Bytes(b)
	if err != nil {
		return string(utf8.RuneError)
	}
	return string(out)
}

// DecodeTextString decodes a PDF text string such as an /Info entry:
// UTF-16BE with a byte order mark, UTF-8 with a byte order mark, or
// PDFDocEncoding otherwise. The result is NFC-normalised.
func DecodeTextString(b []byte) string {
	var s string
	switch {
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		s = utf16Text(b[2:])
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		// Little-endian is not allowed but some producers write it.
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b[2:])
		if err == nil {
			s = string(out)
		}
	case len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF:
		s = strings.ToValidUTF8(string(b[3:]), string(utf8.RuneError))
	default:
		var sb strings.Builder
		for _, c := range b {
			if r := PDFDocEncoding.Decode(c); r != 0 {
				sb.WriteRune(r)
			}
		}
		s = sb.String()
	}
	return NormalizeUnicode(strings.TrimRight(s, "\x00"))
}

// NormalizeUnicode returns s in Unicode Normalization Form C.
func NormalizeUnicode(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
