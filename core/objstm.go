package core

import (
	"fmt"
	"strconv"
)

// ParseObjectStream decodes a /Type /ObjStm stream and returns its
// objects in stream order. Objects in an object stream always have
// generation 0. An object that fails to parse is skipped; the returned
// slice keeps a nil Object at its index so positions stay aligned.
func ParseObjectStream(stream *Stream) ([]IndirectObject, error) {
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream")
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("object stream: %w", err)
	}
	if int(first) > len(data) {
		return nil, fmt.Errorf("object stream /First beyond data")
	}

	lex := NewLexer(data[:first])
	type header struct{ num, off int }
	headers := make([]header, 0, n)
	for i := 0; i < int(n); i++ {
		numTok, err1 := lex.NextToken()
		offTok, err2 := lex.NextToken()
		if err1 != nil || err2 != nil || numTok.Type != TokenInteger || offTok.Type != TokenInteger {
			break
		}
		num, _ := strconv.Atoi(string(numTok.Value))
		off, _ := strconv.Atoi(string(offTok.Value))
		headers = append(headers, header{num, off})
	}

	objects := make([]IndirectObject, len(headers))
	for i, h := range headers {
		objects[i].ID = ObjectID{Number: h.num}
		pos := int(first) + h.off
		if h.off < 0 || pos >= len(data) {
			continue
		}
		obj, err := NewParserAt(data, pos).ParseObject()
		if err != nil {
			continue
		}
		objects[i].Object = obj
	}
	return objects, nil
}
