package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenInteger
	TokenReal
	TokenString
	TokenHexString
	TokenName
	TokenKeyword
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenInteger:
		return "Integer"
	case TokenReal:
		return "Real"
	case TokenString:
		return "String"
	case TokenHexString:
		return "HexString"
	case TokenName:
		return "Name"
	case TokenKeyword:
		return "Keyword"
	case TokenArrayStart:
		return "ArrayStart"
	case TokenArrayEnd:
		return "ArrayEnd"
	case TokenDictStart:
		return "DictStart"
	case TokenDictEnd:
		return "DictEnd"
	}
	return "Unknown"
}

// Token is a lexical unit. For strings and names Value holds the decoded
// bytes (escapes and #xx sequences already resolved).
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int
}

// Lexer tokenizes PDF syntax held in memory. It is used both for file
// level objects and for page content streams.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer returns a lexer positioned at the start of data.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current byte offset.
func (l *Lexer) Pos() int { return l.pos }

// Seek moves the lexer to an absolute offset, clamped to the data.
func (l *Lexer) Seek(pos int) {
	switch {
	case pos < 0:
		pos = 0
	case pos > len(l.data):
		pos = len(l.data)
	}
	l.pos = pos
}

// Data returns the underlying buffer.
func (l *Lexer) Data() []byte { return l.data }

// AtEOF reports whether all input has been consumed.
func (l *Lexer) AtEOF() bool { return l.pos >= len(l.data) }

// NextToken returns the next token, skipping whitespace and comments.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.data[l.pos]
	switch c {
	case '[':
		l.pos++
		return Token{Type: TokenArrayStart, Pos: start}, nil
	case ']':
		l.pos++
		return Token{Type: TokenArrayEnd, Pos: start}, nil
	case '<':
		if l.peekAt(1) == '<' {
			l.pos += 2
			return Token{Type: TokenDictStart, Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.peekAt(1) == '>' {
			l.pos += 2
			return Token{Type: TokenDictEnd, Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected '>' at offset %d", start)
	case '(':
		return l.readLiteralString()
	case ')':
		return Token{}, fmt.Errorf("unbalanced ')' at offset %d", start)
	case '/':
		return l.readName()
	case '{', '}':
		l.pos++
		return Token{Type: TokenKeyword, Value: []byte{c}, Pos: start}, nil
	}

	return l.readRegular()
}

// SkipStreamEOL consumes the end-of-line marker that must follow the
// "stream" keyword (CRLF or LF; a lone CR is tolerated).
func (l *Lexer) SkipStreamEOL() {
	for l.pos < len(l.data) && l.data[l.pos] == ' ' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhitespace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// readRegular reads a run of regular characters and classifies it as a
// number or a keyword.
func (l *Lexer) readRegular() (Token, error) {
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	raw := l.data[start:l.pos]

	if looksNumeric(raw) {
		if _, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return Token{Type: TokenInteger, Value: raw, Pos: start}, nil
		}
		if _, err := strconv.ParseFloat(string(raw), 64); err == nil {
			return Token{Type: TokenReal, Value: raw, Pos: start}, nil
		}
		// Malformed numbers such as "--5" or "1.2.3" are read as zero,
		// which is what most viewers do.
		return Token{Type: TokenReal, Value: []byte("0"), Pos: start}, nil
	}
	return Token{Type: TokenKeyword, Value: raw, Pos: start}, nil
}

func looksNumeric(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	digits := 0
	for i, c := range raw {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
		case (c == '+' || c == '-') && i == 0:
		case c == '-' && i > 0 && raw[i-1] == '-':
		default:
			return false
		}
	}
	return digits > 0
}

func (l *Lexer) readName() (Token, error) {
	start := l.pos
	l.pos++ // '/'
	var buf bytes.Buffer
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && l.pos+2 < len(l.data) && isHexDigit(l.data[l.pos+1]) && isHexDigit(l.data[l.pos+2]) {
			buf.WriteByte(hexValue(l.data[l.pos+1])<<4 | hexValue(l.data[l.pos+2]))
			l.pos += 3
			continue
		}
		buf.WriteByte(c)
		l.pos++
	}
	return Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readHexString() (Token, error) {
	start := l.pos
	l.pos++ // '<'
	var buf bytes.Buffer
	var hi byte
	half := false
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch {
		case c == '>':
			if half {
				buf.WriteByte(hi << 4)
			}
			return Token{Type: TokenHexString, Value: buf.Bytes(), Pos: start}, nil
		case isWhitespace(c):
		case isHexDigit(c):
			if half {
				buf.WriteByte(hi<<4 | hexValue(c))
			} else {
				hi = hexValue(c)
			}
			half = !half
		default:
			return Token{}, fmt.Errorf("invalid character %q in hex string", c)
		}
	}
	return Token{}, fmt.Errorf("unterminated hex string")
}

func (l *Lexer) readLiteralString() (Token, error) {
	start := l.pos
	l.pos++ // '('
	var buf bytes.Buffer
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(c)
		case '\\':
			l.readEscape(&buf)
		case '\r':
			// Unescaped CR and CRLF both read as a single LF.
			if l.pos < len(l.data) && l.data[l.pos] == '\n' {
				l.pos++
			}
			buf.WriteByte('\n')
		default:
			buf.WriteByte(c)
		}
	}
	return Token{}, fmt.Errorf("unterminated literal string")
}

func (l *Lexer) readEscape(buf *bytes.Buffer) {
	if l.pos >= len(l.data) {
		return
	}
	c := l.data[l.pos]
	l.pos++
	switch c {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := int(c - '0')
		for i := 0; i < 2 && l.pos < len(l.data); i++ {
			d := l.data[l.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v*8 + int(d-'0')
			l.pos++
		}
		buf.WriteByte(byte(v))
	default:
		// \\, \(, \) and unknown escapes all yield the character itself.
		buf.WriteByte(c)
	}
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
