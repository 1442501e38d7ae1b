package core

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
	"testing"
)

func TestParseObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "42", "42"},
		{"real", "-1.5", "-1.5"},
		{"reference", "12 0 R", "12 0 R"},
		{"two integers", "[1 2]", "[1 2]"},
		{"name", "/Helvetica", "/Helvetica"},
		{"nested", "<< /A [1 2 3 0 R] /B << /C true >> >>", "<</A [1 2 3 0 R] /B <</C true>>>>"},
		{"null value dropped", "<< /A null /B 1 >>", "<</B 1>>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := NewParser([]byte(tt.input)).ParseObject()
			if err != nil {
				t.Fatalf("ParseObject() error = %v", err)
			}
			if obj.String() != tt.want {
				t.Errorf("ParseObject() = %q, want %q", obj.String(), tt.want)
			}
		})
	}
}

func TestParseObjectErrors(t *testing.T) {
	for _, in := range []string{"", "[1 2", "<< /A 1", "<< 1 2 >>", "endobj", strings.Repeat("[", maxNesting+1)} {
		t.Run(fmt.Sprintf("%.10q", in), func(t *testing.T) {
			if _, err := NewParser([]byte(in)).ParseObject(); err == nil {
				t.Errorf("ParseObject(%q) expected error", in)
			}
		})
	}
}

func TestParseIndirectObject(t *testing.T) {
	obj, err := NewParser([]byte("7 0 obj\n<< /Type /Catalog >>\nendobj")).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject() error = %v", err)
	}
	if obj.ID != (ObjectID{7, 0}) {
		t.Errorf("ID = %v, want 7 0", obj.ID)
	}
	d, ok := obj.Object.(Dict)
	if !ok {
		t.Fatalf("object is %T, want Dict", obj.Object)
	}
	if n, _ := d.GetName("Type"); n != "Catalog" {
		t.Errorf("Type = %q, want Catalog", n)
	}
}

func TestParseStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact length", "1 0 obj << /Length 5 >>\nstream\nHello\nendstream\nendobj", "Hello"},
		{"crlf", "1 0 obj << /Length 5 >>\nstream\r\nHello\r\nendstream endobj", "Hello"},
		{"wrong length", "1 0 obj << /Length 99 >>\nstream\nHello\nendstream\nendobj", "Hello"},
		{"short length", "1 0 obj << /Length 2 >>\nstream\nHello\nendstream\nendobj", "Hello"},
		{"indirect length unresolved", "1 0 obj << /Length 9 0 R >>\nstream\nHello\nendstream\nendobj", "Hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := NewParser([]byte(tt.input)).ParseIndirectObject()
			if err != nil {
				t.Fatalf("ParseIndirectObject() error = %v", err)
			}
			s, ok := obj.Object.(*Stream)
			if !ok {
				t.Fatalf("object is %T, want *Stream", obj.Object)
			}
			if string(s.Data) != tt.want {
				t.Errorf("Data = %q, want %q", s.Data, tt.want)
			}
		})
	}
}

type fixedLength int

func (f fixedLength) ResolveLength(IndirectRef) (int, bool) { return int(f), true }

func TestParseStreamIndirectLength(t *testing.T) {
	p := NewParser([]byte("1 0 obj << /Length 2 0 R >>\nstream\nHello\nendstream\nendobj"))
	p.SetLengthResolver(fixedLength(5))
	obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject() error = %v", err)
	}
	if got := string(obj.Object.(*Stream).Data); got != "Hello" {
		t.Errorf("Data = %q, want %q", got, "Hello")
	}
}

func TestStreamDecodeChain(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte("BT (Hi) Tj ET"))
	zw.Close()

	hex := fmt.Sprintf("%X>", buf.Bytes())
	s := &Stream{
		Dict: Dict{"Filter": Array{Name("ASCIIHexDecode"), Name("FlateDecode")}},
		Data: []byte(hex),
	}
	got, err := s.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if string(got) != "BT (Hi) Tj ET" {
		t.Errorf("Decode() = %q", got)
	}
	if f := s.Filters(); len(f) != 2 || f[1] != "FlateDecode" {
		t.Errorf("Filters() = %v", f)
	}
}

func TestStreamDecodeUnsupported(t *testing.T) {
	s := &Stream{Dict: Dict{"Filter": Name("DCTDecode")}, Data: []byte{0xFF, 0xD8}}
	if _, err := s.Decode(); err == nil {
		t.Error("Decode() expected error for DCTDecode")
	}
}

func TestStreamDecodeNoFilter(t *testing.T) {
	s := &Stream{Dict: Dict{}, Data: []byte("raw")}
	got, err := s.Decode()
	if err != nil || string(got) != "raw" {
		t.Errorf("Decode() = %q, %v", got, err)
	}
}
