// Package resolver expands PDF objects so that no indirect references
// remain inside them.
//
// A document arena resolves one reference at a time. Expand walks
// dictionaries, arrays and stream dictionaries and replaces every nested
// reference with the object it names:
//
//	e := resolver.New(doc)
//	dict, err := e.ExpandDict(imageDict)
//
// Reference cycles and overly deep trees are reported as ErrCycle and
// ErrTooDeep. An Expander keeps no state between calls, so one value may
// be shared by concurrent page workers.
package resolver
