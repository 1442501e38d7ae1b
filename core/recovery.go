package core

import (
	"bytes"
	"strconv"
)

// ObjectHeader is an "N G obj" header found by ScanObjectHeaders.
type ObjectHeader struct {
	ID     ObjectID
	Offset int
}

// ScanObjectHeaders walks the whole file looking for "N G obj" headers,
// returning them in file order. It is the fallback used when the
// cross-reference data is missing or unusable.
func ScanObjectHeaders(data []byte) []ObjectHeader {
	var headers []ObjectHeader
	marker := []byte("obj")
	for pos := 0; pos < len(data); {
		idx := bytes.Index(data[pos:], marker)
		if idx < 0 {
			break
		}
		at := pos + idx
		pos = at + len(marker)

		// "obj" must end a token: reject "endobj" and "objects".
		if pos < len(data) && !isWhitespace(data[pos]) && !isDelimiter(data[pos]) {
			continue
		}
		if h, ok := headerBefore(data, at); ok {
			headers = append(headers, h)
		}
	}
	return headers
}

// headerBefore parses "N G " immediately preceding the obj keyword at at.
func headerBefore(data []byte, at int) (ObjectHeader, bool) {
	i := at - 1
	if i < 0 || !isWhitespace(data[i]) {
		return ObjectHeader{}, false
	}
	for i >= 0 && isWhitespace(data[i]) {
		i--
	}
	genEnd := i + 1
	for i >= 0 && data[i] >= '0' && data[i] <= '9' {
		i--
	}
	genStart := i + 1
	if genStart == genEnd || i < 0 || !isWhitespace(data[i]) {
		return ObjectHeader{}, false
	}
	for i >= 0 && isWhitespace(data[i]) {
		i--
	}
	numEnd := i + 1
	for i >= 0 && data[i] >= '0' && data[i] <= '9' {
		i--
	}
	numStart := i + 1
	if numStart == numEnd {
		return ObjectHeader{}, false
	}
	if i >= 0 && !isWhitespace(data[i]) && !isDelimiter(data[i]) {
		return ObjectHeader{}, false
	}
	num, err1 := strconv.Atoi(string(data[numStart:numEnd]))
	gen, err2 := strconv.Atoi(string(data[genStart:genEnd]))
	if err1 != nil || err2 != nil || gen > 65535 {
		return ObjectHeader{}, false
	}
	return ObjectHeader{ID: ObjectID{Number: num, Generation: gen}, Offset: numStart}, true
}

// ScanTrailers returns every "trailer" dictionary in file order.
func ScanTrailers(data []byte) []Dict {
	var trailers []Dict
	marker := []byte("trailer")
	for pos := 0; pos < len(data); {
		idx := bytes.Index(data[pos:], marker)
		if idx < 0 {
			break
		}
		at := pos + idx + len(marker)
		pos = at
		obj, err := NewParserAt(data, at).ParseObject()
		if err != nil {
			continue
		}
		if d, ok := obj.(Dict); ok {
			trailers = append(trailers, d)
		}
	}
	return trailers
}
