package pdf2md

import (
	"fmt"
	"strings"
)

// WarningKind identifies a non-fatal condition.
type WarningKind int

const (
	// WarningPageDecode: a page could not be decoded and contributed no
	// text.
	WarningPageDecode WarningKind = iota + 1
	// WarningUnmappable: character codes on a page had no Unicode
	// mapping and were replaced with U+FFFD.
	WarningUnmappable
	// WarningImageOnly: a page has images but no text, which usually
	// means a scan.
	WarningImageOnly
)

func (k WarningKind) String() string {
	switch k {
	case WarningPageDecode:
		return "page decode failure"
	case WarningUnmappable:
		return "unmappable characters"
	case WarningImageOnly:
		return "image-only page"
	}
	return "warning"
}

// Warning is a non-fatal condition found during conversion. Page is
// 1-indexed.
type Warning struct {
	Kind    WarningKind
	Page    int
	Message string
	// Count is the number of affected characters for WarningUnmappable.
	Count int
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into one line each.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
