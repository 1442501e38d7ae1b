package reader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tsawler/pdf2md/core"
	"github.com/tsawler/pdf2md/pages"
	"github.com/tsawler/pdf2md/resolver"
)

const signature = "%PDF-"

// maxRefChain bounds reference-to-reference chains during resolution.
const maxRefChain = 16

// Document is a parsed PDF. Every indirect object is loaded into an
// arena keyed by (number, generation) while parsing, so a Document never
// changes after Parse returns and may be shared by concurrent readers.
type Document struct {
	version   Version
	objects   map[core.ObjectID]core.Object
	latest    map[int]core.ObjectID
	trailer   core.Dict
	catalog   core.Dict
	pages     []*pages.Page
	info      Info
	recovered bool
}

var _ pages.Resolver = (*Document)(nil)

// Parse builds a Document from the complete file contents.
//
// The cross-reference data is tried first. When it is missing or does not
// lead to a catalog and page tree, the whole file is scanned for object
// headers instead. Failures are reported as *ParseError.
func Parse(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte(signature)) {
		return nil, &ParseError{Kind: ErrNotAPDF, Detail: "missing %PDF- signature"}
	}
	version := headerVersion(data)
	if MaxVersion.Less(version) {
		return nil, parseError(ErrUnsupportedVersion, "version %s is newer than %s", version, MaxVersion)
	}

	doc, xrefErr := build(data, loadFromXRef)
	if xrefErr != nil {
		var scanErr error
		doc, scanErr = build(data, loadFromScan)
		if scanErr != nil {
			return nil, parseError(ErrCorruptStructure, "%v", scanErr)
		}
		doc.recovered = true
	}

	if doc.trailer.Has("Encrypt") {
		return nil, &ParseError{Kind: ErrEncrypted}
	}

	doc.version = version
	if name, ok := doc.Resolve(doc.catalog.Get("Version")).(core.Name); ok {
		if v, ok := parseVersion(string(name)); ok && version.Less(v) {
			if MaxVersion.Less(v) {
				return nil, parseError(ErrUnsupportedVersion, "version %s is newer than %s", v, MaxVersion)
			}
			doc.version = v
		}
	}
	doc.info = doc.readInfo()
	return doc, nil
}

type loadFunc func(data []byte) (*arena, error)

func build(data []byte, load loadFunc) (*Document, error) {
	a, err := load(data)
	if err != nil {
		return nil, err
	}
	doc := &Document{objects: a.objects, latest: a.latest, trailer: a.trailer}

	catalog, ok := doc.Resolve(a.trailer.Get("Root")).(core.Dict)
	if !ok || !catalog.Has("Pages") {
		catalog, ok = a.findCatalog()
		if !ok {
			return nil, errors.New("document catalog not found")
		}
	}
	doc.catalog = catalog

	list, err := pages.Flatten(catalog, doc)
	if err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}
	doc.pages = list
	return doc, nil
}

// Resolve follows indirect references into the arena. Direct objects are
// returned unchanged and missing objects resolve to nil.
func (d *Document) Resolve(obj core.Object) core.Object {
	for i := 0; i < maxRefChain; i++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj
		}
		obj = d.lookup(ref)
	}
	return nil
}

// Expand returns a copy of obj with every nested reference replaced by
// its target. Cycles are reported as resolver.ErrCycle.
func (d *Document) Expand(obj core.Object) (core.Object, error) {
	return resolver.New(d).Expand(obj)
}

func (d *Document) lookup(ref core.IndirectRef) core.Object {
	if obj, ok := d.objects[ref.ID()]; ok {
		return obj
	}
	// Writers occasionally reference a stale generation.
	if id, ok := d.latest[ref.Number]; ok {
		return d.objects[id]
	}
	return nil
}

// Object returns the object stored under id.
func (d *Document) Object(id core.ObjectID) (core.Object, bool) {
	obj, ok := d.objects[id]
	return obj, ok
}

// NumObjects returns the number of objects in the arena.
func (d *Document) NumObjects() int { return len(d.objects) }

// Version returns the effective PDF version (header or catalog, whichever
// is newer).
func (d *Document) Version() Version { return d.version }

// Trailer returns the trailer dictionary.
func (d *Document) Trailer() core.Dict { return d.trailer }

// Catalog returns the document catalog.
func (d *Document) Catalog() core.Dict { return d.catalog }

// Info returns the decoded information dictionary.
func (d *Document) Info() Info { return d.info }

// Recovered reports whether the document was rebuilt by scanning for
// object headers because the cross-reference data was unusable.
func (d *Document) Recovered() bool { return d.recovered }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Pages returns the pages in document order.
func (d *Document) Pages() []*pages.Page { return d.pages }

// Page returns the page at a zero-based index.
func (d *Document) Page(index int) (*pages.Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", index+1, len(d.pages))
	}
	return d.pages[index], nil
}
