// Package pdftest assembles small PDF files in memory for tests. Offsets
// in the generated cross-reference table are exact, and the builder can
// deliberately damage the file to exercise recovery paths.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"sort"
	"strings"
)

// Standard resource names available on every page built by Builder.
const (
	Regular = "F1" // Helvetica, WinAnsiEncoding
	Bold    = "F2" // Helvetica-Bold, WinAnsiEncoding
)

const firstFreeObject = 5

type page struct {
	content    []byte
	resources  string
	streamDict string
}

type extra struct {
	dict   string
	stream []byte
	isStrm bool
}

// Builder collects pages and objects and renders them as a PDF.
type Builder struct {
	version  string
	pages    []page
	extras   []extra
	info     map[string]string
	compress bool
	xref     string
	encrypt  bool
}

// New returns a builder for a PDF 1.4 file.
func New() *Builder {
	return &Builder{version: "1.4", xref: "table"}
}

// Version sets the header version, e.g. "1.7" or "2.1".
func (b *Builder) Version(v string) *Builder {
	b.version = v
	return b
}

// Compress stores content streams with FlateDecode.
func (b *Builder) Compress() *Builder {
	b.compress = true
	return b
}

// Info adds an information dictionary entry with a literal string value.
func (b *Builder) Info(key, value string) *Builder {
	if b.info == nil {
		b.info = map[string]string{}
	}
	b.info[key] = value
	return b
}

// WithoutXRef omits the cross-reference table and startxref marker; the
// trailer is still written.
func (b *Builder) WithoutXRef() *Builder {
	b.xref = "none"
	return b
}

// CorruptXRef writes a startxref offset that points at object data.
func (b *Builder) CorruptXRef() *Builder {
	b.xref = "corrupt"
	return b
}

// Encrypted adds an /Encrypt entry to the trailer.
func (b *Builder) Encrypted() *Builder {
	b.encrypt = true
	return b
}

// Page adds a page whose content stream is content.
func (b *Builder) Page(content string) *Builder {
	b.pages = append(b.pages, page{content: []byte(content)})
	return b
}

// PageWithResources adds a page with its own /Resources dictionary
// instead of the shared font resources.
func (b *Builder) PageWithResources(content, resources string) *Builder {
	b.pages = append(b.pages, page{content: []byte(content), resources: resources})
	return b
}

// RawPage adds a page whose content stream holds arbitrary bytes.
func (b *Builder) RawPage(content []byte) *Builder {
	b.pages = append(b.pages, page{content: content})
	return b
}

// FilteredPage adds a page whose content stream carries the given
// /Filter entry over data that is stored as is.
func (b *Builder) FilteredPage(filter string, data []byte) *Builder {
	b.pages = append(b.pages, page{content: data, streamDict: "/Filter /" + filter})
	return b
}

// AddObject adds an object with the given body and returns its number.
func (b *Builder) AddObject(body string) int {
	b.extras = append(b.extras, extra{dict: body})
	return firstFreeObject + len(b.extras) - 1
}

// AddStream adds a stream object. dict must not contain /Length.
func (b *Builder) AddStream(dict string, data []byte) int {
	b.extras = append(b.extras, extra{dict: dict, stream: data, isStrm: true})
	return firstFreeObject + len(b.extras) - 1
}

// Bytes renders the file.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", b.version)

	offsets := map[int]int{}
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}
	writeStream := func(num int, dict string, data []byte, compress bool) {
		offsets[num] = buf.Len()
		filter := ""
		if compress {
			data = deflate(data)
			filter = " /Filter /FlateDecode"
		}
		fmt.Fprintf(&buf, "%d 0 obj\n<< %s /Length %d%s >>\nstream\n", num, dict, len(data), filter)
		buf.Write(data)
		buf.WriteString("\nendstream\nendobj\n")
	}

	pageStart := firstFreeObject + len(b.extras)
	kids := make([]string, len(b.pages))
	for i := range b.pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageStart+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> >>",
		strings.Join(kids, " "), len(b.pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	writeObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>")
	for i, e := range b.extras {
		if e.isStrm {
			writeStream(firstFreeObject+i, e.dict, e.stream, false)
		} else {
			writeObj(firstFreeObject+i, e.dict)
		}
	}
	for i, p := range b.pages {
		num := pageStart + 2*i
		res := ""
		if p.resources != "" {
			res = " /Resources " + p.resources
		}
		writeObj(num, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R%s >>", num+1, res))
		writeStream(num+1, p.streamDict, p.content, b.compress && p.streamDict == "")
	}

	size := pageStart + 2*len(b.pages)
	infoRef := ""
	if len(b.info) > 0 {
		var parts []string
		for _, k := range sortedKeys(b.info) {
			parts = append(parts, fmt.Sprintf("/%s (%s)", k, Escape(b.info[k])))
		}
		writeObj(size, "<< "+strings.Join(parts, " ")+" >>")
		infoRef = fmt.Sprintf(" /Info %d 0 R", size)
		size++
	}
	trailer := fmt.Sprintf("<< /Size %d /Root 1 0 R%s", size, infoRef)
	if b.encrypt {
		trailer += " /Encrypt << /Filter /Standard /V 1 >>"
	}
	trailer += " >>"

	switch b.xref {
	case "none":
		fmt.Fprintf(&buf, "trailer\n%s\n%%%%EOF\n", trailer)
	case "corrupt":
		fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, offsets[1]+3)
	default:
		xref := buf.Len()
		fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
		for num := 1; num < size; num++ {
			fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
		}
		fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	}
	return buf.Bytes()
}

// Text returns a BT/ET block that shows s at (x, y) with the given font
// resource and size.
func Text(font string, size, x, y float64, s string) string {
	return fmt.Sprintf("BT /%s %g Tf %g %g Td (%s) Tj ET\n", font, size, x, y, Escape(s))
}

// Escape escapes a literal string body.
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
