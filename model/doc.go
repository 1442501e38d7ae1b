// Package model holds the values that flow between pipeline stages.
//
// A page's content stream is turned into [TextRun] values, runs across the
// whole document are classified into [Block] values, and blocks are
// rendered or summarised into [ExtractedContent] and [DocumentMetadata].
//
// # Geometry
//
// [Matrix] is the PDF 2D affine transform [a b c d e f]; [Point] is a
// position in user space. PDF coordinates grow upward, so a larger Y is
// higher on the page.
package model
