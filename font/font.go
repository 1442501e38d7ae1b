package font

import (
	"strings"

	"github.com/tsawler/pdf2md/core"
)

// Resolver follows indirect references.
type Resolver interface {
	Resolve(obj core.Object) core.Object
}

// Glyph is one decoded character code.
type Glyph struct {
	Code uint32
	// Len is the number of bytes the code occupied.
	Len  int
	Text string
	// Width is the advance in glyph space (thousandths of a text space unit).
	Width    float64
	Unmapped bool
}

// Font is a loaded font resource, reduced to what text extraction needs.
type Font struct {
	// Name is the BaseFont with any subset prefix removed.
	Name    string
	Subtype string
	Bold    bool

	composite bool
	codeMode  codeMode
	codes     *CMap
	toUnicode *CMap

	encoding    *Encoding
	differences map[byte]string

	firstChar    int
	widths       []float64
	cidWidths    map[uint32]float64
	defaultWidth float64
}

type codeMode int

const (
	codeSingle   codeMode = iota // simple fonts
	codeIdentity                 // Identity-H/V, two bytes per code
	codeUTF16                    // predefined Uni*-UCS2/UTF16 CMaps
	codeMixed                    // other predefined CMaps: ASCII single byte, else two
	codeEmbedded                 // embedded encoding CMap with codespace ranges
)

// Default returns the font used when a content stream selects a font the
// page resources do not define.
func Default() *Font {
	return &Font{
		Name:         "Helvetica",
		Subtype:      "Type1",
		encoding:     &StandardEncoding,
		widths:       helveticaWidths[:],
		firstChar:    32,
		defaultWidth: 500,
	}
}

// Load builds a Font from a font dictionary. It never fails: anything it
// cannot interpret falls back to defaults and shows up as unmapped text.
func Load(dict core.Dict, r Resolver) *Font {
	get := func(d core.Dict, key string) core.Object {
		if d == nil {
			return nil
		}
		return r.Resolve(d.Get(key))
	}

	f := &Font{}
	if st, ok := get(dict, "Subtype").(core.Name); ok {
		f.Subtype = string(st)
	}
	if bf, ok := get(dict, "BaseFont").(core.Name); ok {
		f.Name = stripSubset(string(bf))
	}
	if tu, ok := get(dict, "ToUnicode").(*core.Stream); ok {
		if cm, err := ParseToUnicodeCMap(tu); err == nil {
			f.toUnicode = cm
		}
	}

	descriptor, _ := get(dict, "FontDescriptor").(core.Dict)
	if f.Subtype == "Type0" {
		f.composite = true
		var desc core.Dict
		if arr, ok := get(dict, "DescendantFonts").(core.Array); ok && len(arr) > 0 {
			desc, _ = r.Resolve(arr[0]).(core.Dict)
		}
		if d, ok := get(desc, "FontDescriptor").(core.Dict); ok {
			descriptor = d
		}
		f.loadCodeMode(get(dict, "Encoding"))
		f.loadCIDWidths(desc, r)
	} else {
		f.codeMode = codeSingle
		f.loadSimpleEncoding(get(dict, "Encoding"), r)
		f.loadSimpleWidths(dict, descriptor, r)
	}

	f.Bold = isBoldName(f.Name) || isBoldDescriptor(descriptor, r)
	return f
}

// IsComposite reports whether the font is a Type0 font.
func (f *Font) IsComposite() bool { return f.composite }

func (f *Font) loadCodeMode(enc core.Object) {
	switch e := enc.(type) {
	case core.Name:
		name := string(e)
		switch {
		case name == "Identity-H" || name == "Identity-V":
			f.codeMode = codeIdentity
		case strings.Contains(name, "UCS2") || strings.Contains(name, "UTF16"):
			f.codeMode = codeUTF16
		default:
			f.codeMode = codeMixed
		}
	case *core.Stream:
		if cm, err := ParseToUnicodeCMap(e); err == nil && cm.HasCodespace() {
			f.codes = cm
			f.codeMode = codeEmbedded
			return
		}
		f.codeMode = codeIdentity
	default:
		f.codeMode = codeIdentity
	}
}

func (f *Font) loadSimpleEncoding(enc core.Object, r Resolver) {
	f.encoding = &StandardEncoding
	if f.Subtype == "TrueType" {
		f.encoding = &WinAnsiEncoding
	}
	switch e := enc.(type) {
	case core.Name:
		if base, ok := EncodingByName(string(e)); ok {
			f.encoding = base
		}
	case core.Dict:
		if bn, ok := r.Resolve(e.Get("BaseEncoding")).(core.Name); ok {
			if base, ok := EncodingByName(string(bn)); ok {
				f.encoding = base
			}
		}
		if diffs, ok := r.Resolve(e.Get("Differences")).(core.Array); ok {
			f.differences = parseDifferences(diffs, r)
		}
	}
}

// parseDifferences reads [code /name /name code /name ...].
func parseDifferences(arr core.Array, r Resolver) map[byte]string {
	out := map[byte]string{}
	code := -1
	for _, item := range arr {
		switch v := r.Resolve(item).(type) {
		case core.Int:
			code = int(v)
		case core.Real:
			code = int(v)
		case core.Name:
			if code >= 0 && code < 256 {
				out[byte(code)] = glyphString(string(v))
				code++
			}
		}
	}
	return out
}

func (f *Font) loadSimpleWidths(dict, descriptor core.Dict, r Resolver) {
	f.defaultWidth = 0
	if mw, ok := core.Number(r.Resolve(descriptor.Get("MissingWidth"))); ok && descriptor != nil {
		f.defaultWidth = mw
	}

	arr, ok := r.Resolve(dict.Get("Widths")).(core.Array)
	if !ok {
		// Standard 14 fonts usually come without /Widths.
		switch {
		case strings.HasPrefix(f.Name, "Courier"):
			f.defaultWidth = 600
		default:
			f.widths = helveticaWidths[:]
			f.firstChar = 32
		}
		if f.defaultWidth == 0 {
			f.defaultWidth = 500
		}
		return
	}

	if fc, ok := core.Number(r.Resolve(dict.Get("FirstChar"))); ok {
		f.firstChar = int(fc)
	}
	scale := 1.0
	if f.Subtype == "Type3" {
		if fm, ok := r.Resolve(dict.Get("FontMatrix")).(core.Array); ok {
			if vals, ok := fm.Floats(); ok && len(vals) == 6 && vals[0] != 0 {
				scale = vals[0] * 1000
			}
		}
	}
	f.widths = make([]float64, len(arr))
	for i, item := range arr {
		w, _ := core.Number(r.Resolve(item))
		f.widths[i] = w * scale
	}
	if f.defaultWidth == 0 {
		f.defaultWidth = 500
	}
}

// loadCIDWidths reads /DW and the /W array, which mixes
// "c [w1 w2 ...]" and "cfirst clast w" entries.
func (f *Font) loadCIDWidths(desc core.Dict, r Resolver) {
	f.defaultWidth = 1000
	if desc == nil {
		return
	}
	if dw, ok := core.Number(r.Resolve(desc.Get("DW"))); ok {
		f.defaultWidth = dw
	}
	w, ok := r.Resolve(desc.Get("W")).(core.Array)
	if !ok {
		return
	}
	f.cidWidths = map[uint32]float64{}
	for i := 0; i < len(w); {
		first, ok := core.Number(r.Resolve(w[i]))
		if !ok || i+1 >= len(w) {
			return
		}
		switch next := r.Resolve(w[i+1]).(type) {
		case core.Array:
			for j, item := range next {
				if v, ok := core.Number(r.Resolve(item)); ok {
					f.cidWidths[uint32(first)+uint32(j)] = v
				}
			}
			i += 2
		default:
			last, ok := core.Number(next)
			if !ok || i+2 >= len(w) {
				return
			}
			v, _ := core.Number(r.Resolve(w[i+2]))
			for c := uint32(first); c <= uint32(last) && c-uint32(first) < 0x10000; c++ {
				f.cidWidths[c] = v
			}
			i += 3
		}
	}
}

// Decode splits b into character codes and maps each to text.
func (f *Font) Decode(b []byte) []Glyph {
	glyphs := make([]Glyph, 0, len(b))
	for i := 0; i < len(b); {
		code, n := f.nextCode(b[i:])
		g := Glyph{Code: code, Len: n}
		g.Text = f.lookup(code, b[i:i+n])
		g.Unmapped = g.Text == ""
		if g.Unmapped {
			g.Text = string(replacementChar)
		}
		g.Width = f.width(code)
		glyphs = append(glyphs, g)
		i += n
	}
	return glyphs
}

const replacementChar = '�'

// DecodeString decodes b to NFC text and counts unmapped codes.
func (f *Font) DecodeString(b []byte) (string, int) {
	var sb strings.Builder
	unmapped := 0
	for _, g := range f.Decode(b) {
		sb.WriteString(g.Text)
		if g.Unmapped {
			unmapped++
		}
	}
	return NormalizeUnicode(sb.String()), unmapped
}

func (f *Font) nextCode(b []byte) (uint32, int) {
	n := 1
	switch f.codeMode {
	case codeEmbedded:
		return f.codes.NextCode(b)
	case codeIdentity:
		n = 2
	case codeUTF16:
		n = 2
		if len(b) >= 4 && b[0] >= 0xD8 && b[0] <= 0xDB {
			n = 4
		}
	case codeMixed:
		if b[0] >= 0x80 {
			n = 2
		}
	}
	if n > len(b) {
		n = len(b)
	}
	return bytesToCode(b[:n]), n
}

func (f *Font) lookup(code uint32, raw []byte) string {
	if s, ok := f.toUnicode.Lookup(code, len(raw)); ok && s != "" {
		return s
	}
	if f.composite {
		if f.codeMode == codeUTF16 {
			return utf16Text(raw)
		}
		return ""
	}
	c := byte(code)
	if s, ok := f.differences[c]; ok && s != "" {
		return s
	}
	if r := f.encoding.Decode(c); r != 0 {
		return string(r)
	}
	return ""
}

func (f *Font) width(code uint32) float64 {
	if f.composite {
		if w, ok := f.cidWidths[code]; ok {
			return w
		}
		return f.defaultWidth
	}
	idx := int(code) - f.firstChar
	if idx >= 0 && idx < len(f.widths) {
		return f.widths[idx]
	}
	return f.defaultWidth
}

// stripSubset removes a "ABCDEF+" subset tag.
func stripSubset(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

func isBoldName(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// forceBold is bit 19 of the font descriptor flags.
const forceBold = 1 << 18

func isBoldDescriptor(d core.Dict, r Resolver) bool {
	if d == nil {
		return false
	}
	if w, ok := core.Number(r.Resolve(d.Get("FontWeight"))); ok && w >= 600 {
		return true
	}
	if flags, ok := r.Resolve(d.Get("Flags")).(core.Int); ok && flags&forceBold != 0 {
		return true
	}
	return false
}

// helveticaWidths holds Helvetica advances for codes 32 to 126.
var helveticaWidths = [...]float64{
	278, 278, 355, 556, 556, 889, 667, 222, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	222, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}
