package reader

import (
	"errors"
	"sort"

	"github.com/tsawler/pdf2md/core"
)

// arena is the object table under construction. Once handed to a
// Document it is never written again.
type arena struct {
	data    []byte
	objects map[core.ObjectID]core.Object
	latest  map[int]core.ObjectID
	trailer core.Dict

	// Construction state.
	entries    map[int]core.XRefEntry
	headers    map[int]int
	loading    map[int]bool
	objStreams map[int][]core.IndirectObject
	failed     int
}

func newArena(data []byte) *arena {
	return &arena{
		data:       data,
		objects:    map[core.ObjectID]core.Object{},
		latest:     map[int]core.ObjectID{},
		loading:    map[int]bool{},
		objStreams: map[int][]core.IndirectObject{},
	}
}

func (a *arena) put(id core.ObjectID, obj core.Object) {
	if obj == nil {
		return
	}
	a.objects[id] = obj
	a.latest[id.Number] = id
}

func (a *arena) get(num int) core.Object {
	if id, ok := a.latest[num]; ok {
		return a.objects[id]
	}
	return nil
}

// ResolveLength satisfies core.LengthResolver for indirect /Length values.
func (a *arena) ResolveLength(ref core.IndirectRef) (int, bool) {
	obj := a.get(ref.Number)
	if obj == nil {
		obj = a.loadNumber(ref.Number)
	}
	n, ok := obj.(core.Int)
	return int(n), ok
}

// loadFromXRef fills the arena from the cross-reference chain. Objects
// whose offsets turn out to be wrong are filled in from a header scan.
func loadFromXRef(data []byte) (*arena, error) {
	start, err := core.FindStartXRef(data)
	if err != nil {
		return nil, err
	}
	table, err := core.LoadXRef(data, start)
	if err != nil {
		return nil, err
	}

	a := newArena(data)
	a.entries = table.Entries
	a.trailer = table.Trailer
	if a.trailer == nil {
		return nil, errors.New("missing trailer")
	}

	nums := make([]int, 0, len(a.entries))
	for num, e := range a.entries {
		if e.Type != core.XRefFree {
			nums = append(nums, num)
		}
	}
	sort.Ints(nums)
	for _, num := range nums {
		if a.get(num) == nil {
			a.loadNumber(num)
		}
	}

	if a.failed > 0 {
		a.fillFromScan()
	}
	a.finish()
	return a, nil
}

// loadNumber loads object num through its cross-reference entry (or the
// scanned header offset in recovery mode).
func (a *arena) loadNumber(num int) core.Object {
	if a.loading[num] {
		return nil
	}
	a.loading[num] = true
	defer delete(a.loading, num)

	if a.entries != nil {
		e, ok := a.entries[num]
		if !ok {
			return nil
		}
		switch e.Type {
		case core.XRefInUse:
			return a.loadAt(num, e.Offset)
		case core.XRefCompressed:
			return a.loadCompressed(num, e.Stream, e.Index)
		}
		return nil
	}
	if off, ok := a.headers[num]; ok {
		return a.loadAt(num, off)
	}
	return nil
}

func (a *arena) loadAt(num, offset int) core.Object {
	p := core.NewParserAt(a.data, offset)
	p.SetLengthResolver(a)
	obj, err := p.ParseIndirectObject()
	if err != nil || obj.ID.Number != num {
		a.failed++
		return nil
	}
	a.put(obj.ID, obj.Object)
	return obj.Object
}

func (a *arena) loadCompressed(num, streamNum, index int) core.Object {
	objs, ok := a.objStreams[streamNum]
	if !ok {
		stream, isStream := a.get(streamNum).(*core.Stream)
		if !isStream {
			stream, isStream = a.loadNumber(streamNum).(*core.Stream)
		}
		if isStream {
			a.resolveStreamDict(stream)
			objs, _ = core.ParseObjectStream(stream)
		}
		a.objStreams[streamNum] = objs
	}

	var found core.Object
	if index >= 0 && index < len(objs) && objs[index].ID.Number == num {
		found = objs[index].Object
	} else {
		for _, o := range objs {
			if o.ID.Number == num {
				found = o.Object
				break
			}
		}
	}
	if found == nil {
		a.failed++
		return nil
	}
	a.put(core.ObjectID{Number: num}, found)
	return found
}

// loadFromScan rebuilds the arena from "N G obj" headers. Later
// definitions replace earlier ones, matching incremental updates.
func loadFromScan(data []byte) (*arena, error) {
	headers := core.ScanObjectHeaders(data)
	if len(headers) == 0 {
		return nil, errors.New("no objects found")
	}

	a := newArena(data)
	a.headers = map[int]int{}
	for _, h := range headers {
		a.headers[h.ID.Number] = h.Offset
	}
	for _, h := range headers {
		p := core.NewParserAt(data, h.Offset)
		p.SetLengthResolver(a)
		obj, err := p.ParseIndirectObject()
		if err != nil {
			continue
		}
		a.put(obj.ID, obj.Object)
	}
	a.expandObjectStreams()

	trailer := core.Dict{}
	for _, t := range core.ScanTrailers(data) {
		for k, v := range t {
			trailer[k] = v
		}
	}
	// Cross-reference stream dictionaries carry trailer keys in 1.5+ files.
	for _, obj := range a.objects {
		if s, ok := obj.(*core.Stream); ok {
			if t, _ := s.Dict.GetName("Type"); t == "XRef" {
				for _, k := range []string{"Root", "Info", "Encrypt"} {
					if v := s.Dict.Get(k); v != nil && !trailer.Has(k) {
						trailer[k] = v
					}
				}
			}
		}
	}
	a.trailer = trailer
	a.finish()
	return a, nil
}

// fillFromScan adds objects that the cross-reference data failed to
// locate, taking them from a header scan.
func (a *arena) fillFromScan() {
	for _, h := range core.ScanObjectHeaders(a.data) {
		if _, ok := a.latest[h.ID.Number]; ok {
			continue
		}
		p := core.NewParserAt(a.data, h.Offset)
		p.SetLengthResolver(a)
		if obj, err := p.ParseIndirectObject(); err == nil {
			a.put(obj.ID, obj.Object)
		}
	}
	a.expandObjectStreams()
}

// expandObjectStreams adds objects held in object streams that nothing
// else located. When two streams hold the same object, the stream with
// the higher object number wins.
func (a *arena) expandObjectStreams() {
	type objStm struct {
		id     core.ObjectID
		stream *core.Stream
	}
	var streams []objStm
	for id, obj := range a.objects {
		if s, ok := obj.(*core.Stream); ok {
			if t, _ := s.Dict.GetName("Type"); t == "ObjStm" {
				streams = append(streams, objStm{id, s})
			}
		}
	}
	sort.Slice(streams, func(i, j int) bool {
		if streams[i].id.Number != streams[j].id.Number {
			return streams[i].id.Number > streams[j].id.Number
		}
		return streams[i].id.Generation > streams[j].id.Generation
	})
	for _, s := range streams {
		a.resolveStreamDict(s.stream)
		objs, err := core.ParseObjectStream(s.stream)
		if err != nil {
			continue
		}
		for _, o := range objs {
			if _, ok := a.latest[o.ID.Number]; !ok && o.Object != nil {
				a.put(o.ID, o.Object)
			}
		}
	}
}

// finish makes stream filter entries direct so Stream.Decode can work
// without a resolver, then drops construction state.
func (a *arena) finish() {
	for _, obj := range a.objects {
		if s, ok := obj.(*core.Stream); ok {
			a.resolveStreamDict(s)
		}
	}
	a.entries = nil
	a.headers = nil
	a.loading = nil
	a.objStreams = nil
}

func (a *arena) resolveStreamDict(s *core.Stream) {
	for _, key := range []string{"Filter", "DecodeParms"} {
		v := s.Dict.Get(key)
		if ref, ok := v.(core.IndirectRef); ok {
			v = a.get(ref.Number)
			if v == nil {
				delete(s.Dict, key)
				continue
			}
			s.Dict[key] = v
		}
		if arr, ok := v.(core.Array); ok {
			for i, item := range arr {
				if ref, ok := item.(core.IndirectRef); ok {
					arr[i] = a.get(ref.Number)
					if arr[i] == nil {
						arr[i] = core.Null{}
					}
				}
			}
		}
	}
}

// findCatalog looks for a /Type /Catalog dictionary with a page tree,
// preferring the highest object number (the newest in updated files).
func (a *arena) findCatalog() (core.Dict, bool) {
	var best core.Dict
	bestNum := -1
	for id, obj := range a.objects {
		d, ok := obj.(core.Dict)
		if !ok {
			continue
		}
		if t, _ := d.GetName("Type"); t == "Catalog" && d.Has("Pages") && id.Number > bestNum {
			best, bestNum = d, id.Number
		}
	}
	return best, best != nil
}
