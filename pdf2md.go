// Package pdf2md converts PDF documents to Markdown.
//
// Basic usage:
//
//	md, warnings, err := pdf2md.Open("report.pdf").Markdown(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdf2md.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := pdf2md.New(data).
//	    Workers(4).
//	    WithFrontMatter().
//	    Markdown(ctx)
//
// The pipeline parses the file into an immutable object graph, extracts
// positioned text runs from each page in parallel, infers headings and
// paragraphs from the whole document, and serializes the result. Pages
// that fail to decode are skipped with a warning; structural failures
// abort the conversion with an *Error.
package pdf2md

import "os"

// New returns a Converter for a PDF held in memory. data must not be
// modified while the Converter is in use.
func New(data []byte) *Converter {
	return &Converter{data: data, options: defaultOptions()}
}

// Open returns a Converter for a PDF file. The file is read by the first
// terminal operation.
func Open(path string) *Converter {
	return &Converter{path: path, options: defaultOptions()}
}

// ReadFile reads path, reporting failures as KindIO errors.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "read", Err: err}
	}
	return data, nil
}

// Must panics if err is non-nil and returns val otherwise.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is Must for terminal operations. Warnings are discarded.
//
//	md := pdf2md.MustResult(pdf2md.New(data).Markdown(ctx))
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
