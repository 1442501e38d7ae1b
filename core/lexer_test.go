package core

import (
	"testing"
)

func TestLexerTokens(t *testing.T) {
	input := "<< /Type /Page /Kids [1 0 R] >> 3.5 -.25 true (a\\(b\\)) <48 65> % comment\nT* '"
	want := []struct {
		typ TokenType
		val string
	}{
		{TokenDictStart, ""},
		{TokenName, "Type"},
		{TokenName, "Page"},
		{TokenName, "Kids"},
		{TokenArrayStart, ""},
		{TokenInteger, "1"},
		{TokenInteger, "0"},
		{TokenKeyword, "R"},
		{TokenArrayEnd, ""},
		{TokenDictEnd, ""},
		{TokenReal, "3.5"},
		{TokenReal, "-.25"},
		{TokenKeyword, "true"},
		{TokenString, "a(b)"},
		{TokenHexString, "He"},
		{TokenKeyword, "T*"},
		{TokenKeyword, "'"},
		{TokenEOF, ""},
	}

	lex := NewLexer([]byte(input))
	for i, w := range want {
		tok, err := lex.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok.Type != w.typ {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, w.typ)
		}
		if w.val != "" && string(tok.Value) != w.val {
			t.Errorf("token %d: value = %q, want %q", i, tok.Value, w.val)
		}
	}
}

func TestLexerLiteralStringEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"newline escape", `(a\nb)`, "a\nb"},
		{"octal", `(\101\102C)`, "ABC"},
		{"short octal", `(\7x)`, "\x07x"},
		{"nested parens", `(a(b)c)`, "a(b)c"},
		{"line continuation", "(ab\\\ncd)", "abcd"},
		{"crlf normalised", "(a\r\nb)", "a\nb"},
		{"backslash", `(a\\b)`, `a\b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewLexer([]byte(tt.in)).NextToken()
			if err != nil {
				t.Fatalf("NextToken() error = %v", err)
			}
			if string(tok.Value) != tt.want {
				t.Errorf("NextToken() = %q, want %q", tok.Value, tt.want)
			}
		})
	}
}

func TestLexerNameEscapes(t *testing.T) {
	tok, err := NewLexer([]byte("/A#20B#2f")).NextToken()
	if err != nil {
		t.Fatalf("NextToken() error = %v", err)
	}
	if string(tok.Value) != "A B/" {
		t.Errorf("name = %q, want %q", tok.Value, "A B/")
	}
}

func TestLexerHexOddDigits(t *testing.T) {
	tok, err := NewLexer([]byte("<4 1 4>")).NextToken()
	if err != nil {
		t.Fatalf("NextToken() error = %v", err)
	}
	if string(tok.Value) != "A@" {
		t.Errorf("hex = %q, want %q", tok.Value, "A@")
	}
}

func TestLexerErrors(t *testing.T) {
	for _, in := range []string{"(unterminated", "<41", "<4G>", ")"} {
		t.Run(in, func(t *testing.T) {
			if _, err := NewLexer([]byte(in)).NextToken(); err == nil {
				t.Errorf("NextToken(%q) expected error", in)
			}
		})
	}
}

func TestLexerMalformedNumber(t *testing.T) {
	tok, err := NewLexer([]byte("--5")).NextToken()
	if err != nil {
		t.Fatalf("NextToken() error = %v", err)
	}
	if tok.Type != TokenReal || string(tok.Value) != "0" {
		t.Errorf("NextToken() = %s %q, want Real \"0\"", tok.Type, tok.Value)
	}
}

func TestSkipStreamEOL(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"\r\nDATA", 2},
		{"\nDATA", 1},
		{"\rDATA", 1},
		{"DATA", 0},
	}
	for _, tt := range tests {
		lex := NewLexer([]byte(tt.in))
		lex.SkipStreamEOL()
		if lex.Pos() != tt.want {
			t.Errorf("SkipStreamEOL(%q) pos = %d, want %d", tt.in, lex.Pos(), tt.want)
		}
	}
}
