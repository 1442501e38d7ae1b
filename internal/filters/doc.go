// Package filters implements the PDF stream decoding filters needed to
// reach page content: FlateDecode (with PNG and TIFF predictors),
// ASCIIHexDecode, ASCII85Decode, RunLengthDecode and CCITTFaxDecode.
//
// Filters are pure functions of their input; callers chain them in the
// order given by a stream's /Filter entry.
package filters
