package pages

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdf2md/core"
)

// maxTreeDepth bounds page tree recursion.
const maxTreeDepth = 64

// Resolver resolves indirect references against the document arena.
// Missing objects resolve to nil.
type Resolver interface {
	Resolve(obj core.Object) core.Object
}

// ErrNoPageTree means the catalog has no usable /Pages entry.
var ErrNoPageTree = errors.New("catalog has no page tree")

// Page is one leaf of the page tree with inherited attributes applied.
type Page struct {
	Index     int
	Ref       core.IndirectRef
	Dict      core.Dict
	Resources core.Dict
	MediaBox  []float64
	Rotate    int
}

// Contents returns the unresolved /Contents entry (a stream reference or
// an array of them).
func (p *Page) Contents() core.Object {
	return p.Dict.Get("Contents")
}

// ContentStreams resolves /Contents to its streams in order. Entries that
// do not resolve to streams are skipped.
func (p *Page) ContentStreams(r Resolver) []*core.Stream {
	var out []*core.Stream
	switch c := r.Resolve(p.Contents()).(type) {
	case *core.Stream:
		out = append(out, c)
	case core.Array:
		for _, item := range c {
			if s, ok := r.Resolve(item).(*core.Stream); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// Fonts returns the page's /Font resource dictionary entries resolved to
// font dictionaries, keyed by resource name.
func (p *Page) Fonts(r Resolver) map[string]core.Dict {
	return ResourceFonts(p.Resources, r)
}

// ResourceFonts resolves the /Font entries of any resource dictionary,
// such as a Form XObject's.
func ResourceFonts(resources core.Dict, r Resolver) map[string]core.Dict {
	fonts := map[string]core.Dict{}
	fontRes, _ := r.Resolve(resources.Get("Font")).(core.Dict)
	for name, ref := range fontRes {
		if d, ok := r.Resolve(ref).(core.Dict); ok {
			fonts[name] = d
		}
	}
	return fonts
}

type inherited struct {
	resources core.Dict
	mediaBox  []float64
	cropBox   []float64
	rotate    int
}

// Flatten walks the page tree below catalog /Pages in document order.
func Flatten(catalog core.Dict, r Resolver) ([]*Page, error) {
	root, ok := r.Resolve(catalog.Get("Pages")).(core.Dict)
	if !ok {
		return nil, ErrNoPageTree
	}
	w := &walker{resolver: r, visited: map[core.ObjectID]bool{}}
	if ref, ok := catalog.Get("Pages").(core.IndirectRef); ok {
		w.visited[ref.ID()] = true
	}
	if err := w.walk(root, core.IndirectRef{}, inherited{}, 0); err != nil {
		return nil, err
	}
	return w.pages, nil
}

type walker struct {
	resolver Resolver
	visited  map[core.ObjectID]bool
	pages    []*Page
}

func (w *walker) walk(node core.Dict, ref core.IndirectRef, inh inherited, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}
	inh = w.inherit(node, inh)

	if isPageNode(node) {
		page := &Page{
			Index:     len(w.pages),
			Ref:       ref,
			Dict:      node,
			Resources: inh.resources,
			MediaBox:  inh.mediaBox,
			Rotate:    inh.rotate,
		}
		if page.Resources == nil {
			page.Resources = core.Dict{}
		}
		if page.MediaBox == nil {
			page.MediaBox = inh.cropBox
		}
		if page.MediaBox == nil {
			page.MediaBox = []float64{0, 0, 612, 792}
		}
		w.pages = append(w.pages, page)
		return nil
	}

	kids, _ := w.resolver.Resolve(node.Get("Kids")).(core.Array)
	for _, kid := range kids {
		var kidRef core.IndirectRef
		if kr, ok := kid.(core.IndirectRef); ok {
			if w.visited[kr.ID()] {
				continue
			}
			w.visited[kr.ID()] = true
			kidRef = kr
		}
		kidDict, ok := w.resolver.Resolve(kid).(core.Dict)
		if !ok {
			continue
		}
		if err := w.walk(kidDict, kidRef, inh, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) inherit(node core.Dict, inh inherited) inherited {
	if res, ok := w.resolver.Resolve(node.Get("Resources")).(core.Dict); ok {
		inh.resources = res
	}
	if box := w.box(node.Get("MediaBox")); box != nil {
		inh.mediaBox = box
	}
	if box := w.box(node.Get("CropBox")); box != nil {
		inh.cropBox = box
	}
	if rot, ok := core.Number(w.resolver.Resolve(node.Get("Rotate"))); ok {
		inh.rotate = normaliseRotation(int(rot))
	}
	return inh
}

func (w *walker) box(obj core.Object) []float64 {
	arr, ok := w.resolver.Resolve(obj).(core.Array)
	if !ok || len(arr) != 4 {
		return nil
	}
	vals := make([]float64, 4)
	for i, v := range arr {
		f, ok := core.Number(w.resolver.Resolve(v))
		if !ok {
			return nil
		}
		vals[i] = f
	}
	return vals
}

// isPageNode decides leaf versus intermediate node. /Type is trusted
// when present; otherwise a node with /Kids is intermediate.
func isPageNode(node core.Dict) bool {
	switch t, _ := node.GetName("Type"); t {
	case "Page":
		return true
	case "Pages":
		return false
	}
	return !node.Has("Kids")
}

func normaliseRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg - deg%90
}
