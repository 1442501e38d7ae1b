package core

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries.
type XRefEntryType int

const (
	XRefFree XRefEntryType = iota
	XRefInUse
	XRefCompressed
)

// XRefEntry locates one object. For in-use entries Offset is a byte
// offset into the file; for compressed entries Stream and Index name the
// object stream and the position inside it.
type XRefEntry struct {
	Type       XRefEntryType
	Offset     int
	Generation int
	Stream     int
	Index      int
}

// XRefTable is a merged cross-reference index plus the newest trailer.
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
}

// ErrNoStartXRef is returned when the startxref marker cannot be found.
var ErrNoStartXRef = errors.New("startxref not found")

// maxXRefSections bounds /Prev chains; real files have a handful.
const maxXRefSections = 512

// FindStartXRef scans backward from the end of data for "startxref" and
// returns the offset that follows it.
func FindStartXRef(data []byte) (int, error) {
	tail := data
	if len(tail) > 4096 {
		tail = tail[len(tail)-4096:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, ErrNoStartXRef
	}
	lex := NewLexer(tail[idx+len("startxref"):])
	tok, err := lex.NextToken()
	if err != nil || tok.Type != TokenInteger {
		return 0, fmt.Errorf("startxref not followed by an offset")
	}
	off, err := strconv.Atoi(string(tok.Value))
	if err != nil || off < 0 || off >= len(data) {
		return 0, fmt.Errorf("startxref offset out of range")
	}
	return off, nil
}

// LoadXRef reads the cross-reference section at start and every section
// reachable through /Prev and /XRefStm. Newer sections take precedence.
func LoadXRef(data []byte, start int) (*XRefTable, error) {
	merged := &XRefTable{Entries: map[int]XRefEntry{}}
	visited := map[int]bool{}
	queue := []int{start}

	for len(queue) > 0 {
		off := queue[0]
		queue = queue[1:]
		if visited[off] {
			continue
		}
		if len(visited) >= maxXRefSections {
			return nil, fmt.Errorf("too many cross-reference sections")
		}
		visited[off] = true

		section, err := parseXRefSection(data, off)
		if err != nil {
			if off == start {
				return nil, err
			}
			// A broken older section still leaves the newer ones usable.
			continue
		}
		for num, e := range section.Entries {
			if _, seen := merged.Entries[num]; !seen {
				merged.Entries[num] = e
			}
		}
		if merged.Trailer == nil {
			merged.Trailer = section.Trailer
		} else {
			for k, v := range section.Trailer {
				if !merged.Trailer.Has(k) {
					merged.Trailer[k] = v
				}
			}
		}

		// Hybrid files: the XRefStm section outranks /Prev.
		if stm, ok := section.Trailer.GetInt("XRefStm"); ok {
			queue = append([]int{int(stm)}, queue...)
		}
		if prev, ok := section.Trailer.GetInt("Prev"); ok {
			queue = append(queue, int(prev))
		}
	}
	delete(merged.Trailer, "Prev")
	delete(merged.Trailer, "XRefStm")
	return merged, nil
}

func parseXRefSection(data []byte, off int) (*XRefTable, error) {
	if off < 0 || off >= len(data) {
		return nil, fmt.Errorf("cross-reference offset out of range")
	}
	lex := NewLexer(data)
	lex.Seek(off)
	tok, err := lex.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "xref" {
		return parseXRefTable(lex)
	}
	if tok.Type == TokenInteger {
		return parseXRefStreamAt(data, off)
	}
	return nil, fmt.Errorf("no cross-reference section at offset")
}

// parseXRefTable reads classic "xref" subsections followed by "trailer".
func parseXRefTable(lex *Lexer) (*XRefTable, error) {
	table := &XRefTable{Entries: map[int]XRefEntry{}}
	firstSection := true
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			break
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("malformed cross-reference subsection header")
		}
		first, _ := strconv.Atoi(string(tok.Value))
		countTok, err := lex.NextToken()
		if err != nil || countTok.Type != TokenInteger {
			return nil, fmt.Errorf("malformed cross-reference subsection header")
		}
		count, _ := strconv.Atoi(string(countTok.Value))

		for i := 0; i < count; i++ {
			e, kind, err := readTableEntry(lex)
			if err != nil {
				return nil, err
			}
			// Some writers start the first subsection at 1 while still
			// emitting the free head entry for object 0.
			if firstSection && i == 0 && first == 1 && kind == "f" && e.Generation == 65535 {
				first = 0
			}
			num := first + i
			if _, seen := table.Entries[num]; !seen {
				table.Entries[num] = e
			}
		}
		firstSection = false
	}

	p := &Parser{lex: lex}
	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is not a dictionary")
	}
	table.Trailer = trailer
	return table, nil
}

func readTableEntry(lex *Lexer) (XRefEntry, string, error) {
	offTok, err := lex.NextToken()
	if err != nil {
		return XRefEntry{}, "", err
	}
	genTok, err := lex.NextToken()
	if err != nil {
		return XRefEntry{}, "", err
	}
	kindTok, err := lex.NextToken()
	if err != nil {
		return XRefEntry{}, "", err
	}
	if offTok.Type != TokenInteger || genTok.Type != TokenInteger || kindTok.Type != TokenKeyword {
		return XRefEntry{}, "", fmt.Errorf("malformed cross-reference entry")
	}
	off, _ := strconv.Atoi(string(offTok.Value))
	gen, _ := strconv.Atoi(string(genTok.Value))
	switch string(kindTok.Value) {
	case "n":
		return XRefEntry{Type: XRefInUse, Offset: off, Generation: gen}, "n", nil
	case "f":
		return XRefEntry{Type: XRefFree, Generation: gen}, "f", nil
	}
	return XRefEntry{}, "", fmt.Errorf("unknown cross-reference entry type %q", kindTok.Value)
}

func parseXRefStreamAt(data []byte, off int) (*XRefTable, error) {
	obj, err := NewParserAt(data, off).ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("cross-reference stream expected")
	}
	return ParseXRefStream(stream)
}

// ParseXRefStream decodes a /Type /XRef stream (PDF 1.5). The stream
// dictionary doubles as the trailer.
func ParseXRefStream(stream *Stream) (*XRefTable, error) {
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("stream is not a cross-reference stream")
	}
	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) != 3 {
		return nil, fmt.Errorf("cross-reference stream has invalid /W")
	}
	var w [3]int
	for i := range w {
		v, ok := wArr[i].(Int)
		if !ok || v < 0 || v > 8 {
			return nil, fmt.Errorf("cross-reference stream has invalid /W")
		}
		w[i] = int(v)
	}
	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		return nil, fmt.Errorf("cross-reference stream has empty rows")
	}

	size, _ := stream.Dict.GetInt("Size")
	index := []int{0, int(size)}
	if idx, ok := stream.Dict.GetArray("Index"); ok && len(idx)%2 == 0 {
		index = index[:0]
		for _, v := range idx {
			n, _ := v.(Int)
			index = append(index, int(n))
		}
	}

	raw, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("cross-reference stream: %w", err)
	}

	table := &XRefTable{Entries: map[int]XRefEntry{}, Trailer: stream.Dict}
	pos := 0
	for s := 0; s+1 < len(index); s += 2 {
		first, count := index[s], index[s+1]
		for i := 0; i < count && pos+rowLen <= len(raw); i++ {
			row := raw[pos : pos+rowLen]
			pos += rowLen
			kind := 1
			if w[0] > 0 {
				kind = int(readField(row[:w[0]]))
			}
			f2 := int(readField(row[w[0] : w[0]+w[1]]))
			f3 := int(readField(row[w[0]+w[1]:]))

			var e XRefEntry
			switch kind {
			case 0:
				e = XRefEntry{Type: XRefFree, Generation: f3}
			case 1:
				e = XRefEntry{Type: XRefInUse, Offset: f2, Generation: f3}
			case 2:
				e = XRefEntry{Type: XRefCompressed, Stream: f2, Index: f3}
			default:
				// Unknown types are reserved and read as null references.
				continue
			}
			if _, seen := table.Entries[first+i]; !seen {
				table.Entries[first+i] = e
			}
		}
	}
	return table, nil
}

func readField(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
