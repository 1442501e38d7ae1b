// Package text extracts positioned text runs from PDF pages.
//
// An [Extractor] walks a page's content streams, following Form XObjects,
// and emits one [model.TextRun] per text-showing operator (Tj, TJ, ' and
// "). Each run carries its decoded text, baseline position, effective font
// size and boldness.
//
//	ex := text.NewExtractor(doc)
//	res, err := ex.ExtractPage(page)
//
// Runs are returned in reading order: rows from top to bottom, and left
// to right within a row. Multi-column layouts are not detected.
//
// A page whose content cannot be decoded yields a [*PageDecodeError];
// callers treat that page as empty and continue with the rest.
package text
