package model

import (
	"strings"
	"time"
)

// ExtractedContent is the flattened text of a document.
type ExtractedContent struct {
	Text      string
	PageCount int
}

// NewExtractedContent joins the text of every non-separator block with a
// blank line.
func NewExtractedContent(blocks []Block, pageCount int) ExtractedContent {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == BlockSeparator || b.Text == "" {
			continue
		}
		parts = append(parts, b.Text)
	}
	return ExtractedContent{Text: strings.Join(parts, "\n\n"), PageCount: pageCount}
}

// DocumentMetadata summarises a document for preview mode and front
// matter. Empty Title or Author means absent.
type DocumentMetadata struct {
	PageCount int
	Title     string
	Author    string
	Subject   string
	Producer  string
	Created   time.Time
	HasText   bool
	// Sections lists heading texts in document order.
	Sections []string
}
