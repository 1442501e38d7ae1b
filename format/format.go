// Package format names the file formats pdf2md reads and writes and
// detects them from file names and leading bytes.
package format

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an input or output document format.
type Format int

const (
	// Unknown is an unrecognised format.
	Unknown Format = iota
	// PDF is the only input format.
	PDF
	// Markdown is the default output format.
	Markdown
	// HTML renders blocks as an HTML document.
	HTML
	// Text is the flattened text of the blocks.
	Text
)

// String returns the lower-case name used in configuration.
func (f Format) String() string {
	switch f {
	case PDF:
		return "pdf"
	case Markdown:
		return "markdown"
	case HTML:
		return "html"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Extension returns the usual file extension of the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case Markdown:
		return ".md"
	case HTML:
		return ".html"
	case Text:
		return ".txt"
	default:
		return ""
	}
}

// IsOutput reports whether the format can be written.
func (f Format) IsOutput() bool {
	return f == Markdown || f == HTML || f == Text
}

// ParseOutput maps a configured format name to an output format. The
// empty name means Markdown.
func ParseOutput(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "markdown", "md":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "text", "txt":
		return Text, nil
	}
	return Unknown, fmt.Errorf("unknown output format %q (want markdown, html or text)", name)
}

// Detect determines the format from a file name extension, ignoring case.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".md", ".markdown":
		return Markdown
	case ".html", ".htm":
		return HTML
	case ".txt":
		return Text
	default:
		return Unknown
	}
}

// DetectFromMagic looks at the leading bytes of a file. Only PDF and
// HTML carry recognisable signatures.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return PDF
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) > 512 {
		data = data[:512]
	}
	upper := bytes.ToUpper(data)
	return bytes.HasPrefix(upper, []byte("<!DOCTYPE HTML")) ||
		bytes.HasPrefix(upper, []byte("<HTML")) ||
		bytes.HasPrefix(upper, []byte("<?XML")) && bytes.Contains(upper, []byte("<HTML"))
}
