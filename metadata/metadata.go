// Package metadata summarises a parsed document for preview mode.
package metadata

import (
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/pdf2md/layout"
	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/reader"
)

// Probe builds the metadata of doc. pageRuns holds the extracted runs of
// each page and blocks the inferred structure; either may be nil.
func Probe(doc *reader.Document, pageRuns [][]model.TextRun, blocks []model.Block) model.DocumentMetadata {
	info := doc.Info()
	return model.DocumentMetadata{
		PageCount: doc.PageCount(),
		Title:     strings.TrimSpace(info.Title),
		Author:    strings.TrimSpace(info.Author),
		Subject:   strings.TrimSpace(info.Subject),
		Producer:  strings.TrimSpace(info.Producer),
		Created:   info.CreationDate,
		HasText:   HasText(pageRuns),
		Sections:  layout.Sections(blocks),
	}
}

// HasText reports whether any page produced a run with visible text.
func HasText(pageRuns [][]model.TextRun) bool {
	for _, runs := range pageRuns {
		for _, r := range runs {
			if strings.TrimSpace(r.Text) != "" {
				return true
			}
		}
	}
	return false
}

// WritePreview renders meta as the human-readable dry-run report.
func WritePreview(w io.Writer, meta model.DocumentMetadata) error {
	var sb strings.Builder
	sb.WriteString("\n=== PDF Preview ===\n")
	fmt.Fprintf(&sb, "Pages: %d\n", meta.PageCount)
	if meta.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", meta.Title)
	}
	if meta.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", meta.Author)
	}
	hasText := "No"
	if meta.HasText {
		hasText = "Yes"
	}
	fmt.Fprintf(&sb, "Has extractable text: %s\n", hasText)
	if len(meta.Sections) > 0 {
		sb.WriteString("\nDetected sections:\n")
		for _, s := range meta.Sections {
			fmt.Fprintf(&sb, "  • %s\n", s)
		}
	}
	sb.WriteString("\n=== End Preview ===\n\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	return nil
}
