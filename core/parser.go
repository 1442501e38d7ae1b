package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// maxNesting bounds array/dictionary nesting so hostile input cannot
// exhaust the stack.
const maxNesting = 256

// LengthResolver resolves an indirect /Length value while a stream is
// being parsed.
type LengthResolver interface {
	ResolveLength(ref IndirectRef) (int, bool)
}

// Parser builds PDF objects from the token stream of a Lexer.
type Parser struct {
	lex      *Lexer
	resolver LengthResolver
	depth    int
}

// NewParser returns a parser positioned at the start of data.
func NewParser(data []byte) *Parser {
	return &Parser{lex: NewLexer(data)}
}

// NewParserAt returns a parser positioned at offset.
func NewParserAt(data []byte, offset int) *Parser {
	p := NewParser(data)
	p.lex.Seek(offset)
	return p
}

// SetLengthResolver installs the resolver used for indirect stream lengths.
func (p *Parser) SetLengthResolver(r LengthResolver) {
	p.resolver = r
}

// Lexer exposes the underlying lexer.
func (p *Parser) Lexer() *Lexer { return p.lex }

// ParseObject parses the next direct object. Streams are only recognised
// by ParseIndirectObject.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}
	return p.objectFrom(tok)
}

func (p *Parser) objectFrom(tok Token) (Object, error) {
	switch tok.Type {
	case TokenEOF:
		return nil, io.ErrUnexpectedEOF
	case TokenInteger:
		return p.parseIntegerOrRef(tok)
	case TokenReal:
		f, _ := strconv.ParseFloat(string(tok.Value), 64)
		return Real(f), nil
	case TokenString, TokenHexString:
		return String(tok.Value), nil
	case TokenName:
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDict()
	case TokenKeyword:
		switch string(tok.Value) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "null":
			return Null{}, nil
		}
		return nil, fmt.Errorf("unexpected keyword %q", tok.Value)
	}
	return nil, fmt.Errorf("unexpected token %s", tok.Type)
}

// parseIntegerOrRef looks ahead for "G R" after an integer.
func (p *Parser) parseIntegerOrRef(tok Token) (Object, error) {
	num, _ := strconv.ParseInt(string(tok.Value), 10, 64)
	mark := p.lex.Pos()

	gen, err := p.lex.NextToken()
	if err == nil && gen.Type == TokenInteger {
		r, err := p.lex.NextToken()
		if err == nil && r.Type == TokenKeyword && string(r.Value) == "R" {
			g, _ := strconv.Atoi(string(gen.Value))
			return IndirectRef{Number: int(num), Generation: g}, nil
		}
	}
	p.lex.Seek(mark)
	return Int(num), nil
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return fmt.Errorf("objects nested deeper than %d levels", maxNesting)
	}
	return nil
}

func (p *Parser) parseArray() (Object, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	arr := Array{}
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unterminated array")
		}
		obj, err := p.objectFrom(tok)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Object, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	dict := Dict{}
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unterminated dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("dictionary key must be a name, got %s", tok.Type)
		}
		key := string(tok.Value)

		valTok, err := p.lex.NextToken()
		if err != nil {
			return nil, err
		}
		if valTok.Type == TokenDictEnd {
			// A key without a value is treated as null and dropped.
			return dict, nil
		}
		val, err := p.objectFrom(valTok)
		if err != nil {
			return nil, fmt.Errorf("dictionary key /%s: %w", key, err)
		}
		if _, isNull := val.(Null); !isNull {
			dict[key] = val
		}
	}
}

// ParseIndirectObject parses "N G obj <object> [stream ... endstream] endobj".
// A missing endobj keyword is tolerated.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	numTok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}
	genTok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}
	objTok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}
	if numTok.Type != TokenInteger || genTok.Type != TokenInteger ||
		objTok.Type != TokenKeyword || string(objTok.Value) != "obj" {
		return nil, fmt.Errorf("expected object header")
	}
	num, _ := strconv.Atoi(string(numTok.Value))
	gen, _ := strconv.Atoi(string(genTok.Value))
	id := ObjectID{Number: num, Generation: gen}

	tok, err := p.lex.NextToken()
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "endobj" {
		return &IndirectObject{ID: id, Object: Null{}}, nil
	}
	obj, err := p.objectFrom(tok)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}

	mark := p.lex.Pos()
	next, err := p.lex.NextToken()
	if err == nil && next.Type == TokenKeyword {
		switch string(next.Value) {
		case "stream":
			dict, ok := obj.(Dict)
			if !ok {
				return nil, fmt.Errorf("object %s: stream without dictionary", id)
			}
			stream, err := p.readStreamData(dict)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", id, err)
			}
			obj = stream
			p.skipKeyword("endobj")
			return &IndirectObject{ID: id, Object: obj}, nil
		case "endobj":
			return &IndirectObject{ID: id, Object: obj}, nil
		}
	}
	p.lex.Seek(mark)
	return &IndirectObject{ID: id, Object: obj}, nil
}

var endstreamKeyword = []byte("endstream")

// readStreamData reads raw stream bytes. /Length is trusted only when
// "endstream" follows it; otherwise the data runs up to the next
// endstream keyword.
func (p *Parser) readStreamData(dict Dict) (*Stream, error) {
	p.lex.SkipStreamEOL()
	data := p.lex.Data()
	start := p.lex.Pos()

	if length, ok := p.streamLength(dict); ok && length >= 0 && start+length <= len(data) {
		end := start + length
		after := end
		for after < len(data) && isWhitespace(data[after]) {
			after++
		}
		if bytes.HasPrefix(data[after:], endstreamKeyword) {
			p.lex.Seek(after + len(endstreamKeyword))
			return &Stream{Dict: dict, Data: data[start:end]}, nil
		}
	}

	idx := bytes.Index(data[start:], endstreamKeyword)
	if idx < 0 {
		return nil, fmt.Errorf("stream missing endstream")
	}
	end := start + idx
	if end > start && data[end-1] == '\n' {
		end--
	}
	if end > start && data[end-1] == '\r' {
		end--
	}
	p.lex.Seek(start + idx + len(endstreamKeyword))
	return &Stream{Dict: dict, Data: data[start:end]}, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), true
	case IndirectRef:
		if p.resolver != nil {
			return p.resolver.ResolveLength(v)
		}
	}
	return 0, false
}

func (p *Parser) skipKeyword(kw string) {
	mark := p.lex.Pos()
	tok, err := p.lex.NextToken()
	if err != nil || tok.Type != TokenKeyword || string(tok.Value) != kw {
		p.lex.Seek(mark)
	}
}
