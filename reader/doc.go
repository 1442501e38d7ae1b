// Package reader parses a PDF held in memory into an immutable Document.
//
// Parse checks the %PDF- signature and the version ceiling, loads the
// cross-reference data (tables, streams, /Prev chains and hybrid files)
// and reads every indirect object into an arena. When the
// cross-reference data is missing or broken the file is rebuilt by
// scanning for object headers:
//
//	doc, err := reader.Parse(data)
//	if errors.Is(err, reader.ErrNotAPDF) {
//	    ...
//	}
//
// A Document never changes after Parse returns, so page workers may share
// it without locking. It exposes the catalog, the trailer, the decoded
// Info dictionary and the flattened page list:
//
//   - Resolve follows a reference one level.
//   - Expand replaces every nested reference.
//   - PageImages describes the image XObjects of a page.
//
// Failures are *ParseError values whose Kind is one of ErrNotAPDF,
// ErrCorruptStructure, ErrUnsupportedVersion or ErrEncrypted.
package reader
