package contentstream

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tsawler/pdf2md/core"
)

// Operation is a single content stream operator and its operands.
type Operation struct {
	Operator string
	Operands []core.Object
}

// maxNesting bounds array and dictionary operands.
const maxNesting = 64

// Parser turns content stream bytes into operations. Operand state is
// local to the parser, so independent parsers may run concurrently.
type Parser struct {
	lex      *core.Lexer
	operands []core.Object
	ops      []Operation
	skipped  int
}

// NewParser returns a parser for data.
func NewParser(data []byte) *Parser {
	return &Parser{lex: core.NewLexer(data)}
}

// Parse returns every operation in stream order. Operands left over at
// the end of the stream are dropped.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			p.skipByte()
			continue
		}
		switch tok.Type {
		case core.TokenEOF:
			return p.ops, nil
		case core.TokenKeyword:
			p.keyword(tok)
		default:
			obj, err := p.operand(tok, 0)
			if err != nil {
				return nil, err
			}
			if obj != nil {
				p.operands = append(p.operands, obj)
			}
		}
	}
}

// Skipped returns how many unreadable bytes Parse stepped over.
func (p *Parser) Skipped() int { return p.skipped }

func (p *Parser) skipByte() {
	p.skipped++
	p.lex.Seek(p.lex.Pos() + 1)
}

func (p *Parser) keyword(tok core.Token) {
	switch kw := string(tok.Value); kw {
	case "true":
		p.operands = append(p.operands, core.Bool(true))
	case "false":
		p.operands = append(p.operands, core.Bool(false))
	case "null":
		p.operands = append(p.operands, core.Null{})
	case "BI":
		p.operands = p.operands[:0]
		p.skipInlineImage()
	default:
		p.ops = append(p.ops, Operation{
			Operator: kw,
			Operands: append([]core.Object(nil), p.operands...),
		})
		p.operands = p.operands[:0]
	}
}

func (p *Parser) operand(tok core.Token, depth int) (core.Object, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("operand nested deeper than %d levels", maxNesting)
	}
	switch tok.Type {
	case core.TokenInteger:
		v, _ := strconv.ParseInt(string(tok.Value), 10, 64)
		return core.Int(v), nil
	case core.TokenReal:
		v, _ := strconv.ParseFloat(string(tok.Value), 64)
		return core.Real(v), nil
	case core.TokenString, core.TokenHexString:
		return core.String(tok.Value), nil
	case core.TokenName:
		return core.Name(tok.Value), nil
	case core.TokenArrayStart:
		return p.array(depth + 1)
	case core.TokenDictStart:
		return p.dict(depth + 1)
	}
	// Stray closing brackets carry no value.
	return nil, nil
}

func (p *Parser) array(depth int) (core.Object, error) {
	arr := core.Array{}
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			p.skipByte()
			continue
		}
		switch tok.Type {
		case core.TokenArrayEnd, core.TokenEOF:
			return arr, nil
		case core.TokenKeyword:
			// Operators are not allowed inside arrays; keep booleans and
			// null, ignore the rest.
			switch string(tok.Value) {
			case "true":
				arr = append(arr, core.Bool(true))
			case "false":
				arr = append(arr, core.Bool(false))
			case "null":
				arr = append(arr, core.Null{})
			}
			continue
		}
		obj, err := p.operand(tok, depth)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			arr = append(arr, obj)
		}
	}
}

func (p *Parser) dict(depth int) (core.Object, error) {
	d := core.Dict{}
	var key string
	haveKey := false
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			p.skipByte()
			continue
		}
		switch tok.Type {
		case core.TokenDictEnd, core.TokenEOF:
			return d, nil
		}
		if !haveKey {
			if tok.Type == core.TokenName {
				key, haveKey = string(tok.Value), true
			}
			continue
		}
		var val core.Object
		if tok.Type == core.TokenKeyword {
			switch string(tok.Value) {
			case "true":
				val = core.Bool(true)
			case "false":
				val = core.Bool(false)
			}
		} else {
			val, err = p.operand(tok, depth)
			if err != nil {
				return nil, err
			}
		}
		if val != nil {
			d[key] = val
		}
		haveKey = false
	}
}

// skipInlineImage consumes an inline image dictionary, the ID keyword,
// the image data and the closing EI.
func (p *Parser) skipInlineImage() {
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			p.skipByte()
			continue
		}
		if tok.Type == core.TokenEOF {
			return
		}
		if tok.Type == core.TokenKeyword && string(tok.Value) == "ID" {
			break
		}
	}
	data := p.lex.Data()
	start := p.lex.Pos()
	if start < len(data) && isSpace(data[start]) {
		start++
	}
	for i := start; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' {
			continue
		}
		before := i == start || isSpace(data[i-1])
		after := i+2 == len(data) || isSpace(data[i+2])
		if before && after {
			p.lex.Seek(i + 2)
			return
		}
	}
	p.lex.Seek(len(data))
}

func isSpace(c byte) bool {
	return bytes.IndexByte([]byte{0, '\t', '\n', '\f', '\r', ' '}, c) >= 0
}
