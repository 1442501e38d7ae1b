// Package pages flattens a PDF page tree into an ordered list of pages.
//
// Inheritable attributes (/Resources, /MediaBox, /CropBox, /Rotate) are
// carried down the whole ancestor chain, so a leaf page without its own
// resources sees the nearest ancestor's dictionary. Cycles in /Kids are
// detected and skipped.
//
//	list, err := pages.Flatten(catalog, resolver)
//	for _, p := range list {
//	    streams := p.ContentStreams(resolver)
//	}
package pages
