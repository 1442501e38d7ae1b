// Package font turns the byte strings of PDF text-showing operators into
// Unicode text.
//
// A [Font] is built from a font dictionary with [Load]. Decoding follows
// the usual priority:
//
//  1. the font's /ToUnicode CMap
//  2. for simple fonts, the /Encoding (base encoding plus /Differences)
//     mapped through glyph names
//  3. for composite fonts with a predefined UCS2 or UTF16 CMap, the code
//     itself as UTF-16BE
//
// Codes that none of these can map decode to U+FFFD and are counted, so
// callers can report unmappable text without losing its position.
//
// All decoded text is NFC-normalised with golang.org/x/text/unicode/norm.
// WinAnsiEncoding and MacRomanEncoding come from
// golang.org/x/text/encoding/charmap.
package font
