// Package core provides the low-level PDF syntax layer: object types, a
// byte-slice lexer, an object parser, cross-reference tables and streams,
// object streams, stream filters and the recovery scan used for damaged
// files.
//
// # Object Types
//
// All PDF values satisfy [Object]:
//
//   - [Null], [Bool], [Int], [Real]
//   - [String] (raw bytes, literal or hex)
//   - [Name] (without the leading slash)
//   - [Array], [Dict]
//   - [Stream] (dictionary plus encoded bytes)
//   - [IndirectRef] ("N G R")
//
// Indirect objects are keyed by [ObjectID], the (number, generation) pair.
//
// # Parsing
//
// [Lexer] and [Parser] operate on an in-memory buffer. The same lexer is
// reused by the contentstream package for page operators.
//
//	p := core.NewParserAt(data, offset)
//	obj, err := p.ParseIndirectObject()
//
// # Cross-Reference Data
//
// [FindStartXRef] locates the newest section; [LoadXRef] follows /Prev
// and /XRefStm links and merges classic tables and PDF 1.5 streams.
// [ParseObjectStream] expands compressed objects.
//
// # Recovery
//
// [ScanObjectHeaders] and [ScanTrailers] rebuild an index from the raw
// bytes when the cross-reference data is missing or broken.
package core
