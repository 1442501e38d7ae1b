package filters

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFlateDecode(t *testing.T) {
	want := []byte("BT /F1 12 Tf 72 720 Td (Hello) Tj ET")
	got, err := FlateDecode(deflate(t, want), Params{})
	if err != nil {
		t.Fatalf("FlateDecode() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("FlateDecode() = %q, want %q", got, want)
	}
}

func TestFlateDecodeTruncated(t *testing.T) {
	want := bytes.Repeat([]byte("some page text "), 200)
	enc := deflate(t, want)
	got, err := FlateDecode(enc[:len(enc)-6], Params{})
	if err != nil {
		t.Fatalf("FlateDecode() error = %v", err)
	}
	if len(got) == 0 || !bytes.HasPrefix(want, got) {
		t.Errorf("FlateDecode() recovered %d bytes, want a non-empty prefix", len(got))
	}
}

func TestFlateDecodeInvalid(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib"), Params{}); err == nil {
		t.Error("FlateDecode() expected error for invalid data")
	}
}

func TestFlateDecodePNGUp(t *testing.T) {
	// Two rows of 3 columns, filter type 2 (Up) on the second row.
	raw := []byte{
		0, 1, 2, 3,
		2, 1, 1, 1,
	}
	p := Params{Predictor: 12}.WithColumns(3)
	got, err := FlateDecode(deflate(t, raw), p)
	if err != nil {
		t.Fatalf("FlateDecode() error = %v", err)
	}
	want := []byte{1, 2, 3, 2, 3, 4}
	if !bytes.Equal(got, want) {
		t.Errorf("FlateDecode() = %v, want %v", got, want)
	}
}

func TestFlateDecodePNGSubAndPaeth(t *testing.T) {
	raw := []byte{
		1, 10, 5, 5,
		4, 0, 0, 0,
	}
	p := Params{Predictor: 15}.WithColumns(3)
	got, err := FlateDecode(deflate(t, raw), p)
	if err != nil {
		t.Fatalf("FlateDecode() error = %v", err)
	}
	want := []byte{10, 15, 20, 10, 15, 20}
	if !bytes.Equal(got, want) {
		t.Errorf("FlateDecode() = %v, want %v", got, want)
	}
}

func TestFlateDecodeTIFF(t *testing.T) {
	raw := []byte{10, 1, 1, 20, 2, 2}
	p := Params{Predictor: 2}.WithColumns(3)
	got, err := FlateDecode(deflate(t, raw), p)
	if err != nil {
		t.Fatalf("FlateDecode() error = %v", err)
	}
	want := []byte{10, 11, 12, 20, 22, 24}
	if !bytes.Equal(got, want) {
		t.Errorf("FlateDecode() = %v, want %v", got, want)
	}
}

func TestFlateDecodeUnsupportedPredictor(t *testing.T) {
	if _, err := FlateDecode(deflate(t, []byte("abc")), Params{Predictor: 7}); err == nil {
		t.Error("FlateDecode() expected error for predictor 7")
	}
}

func TestASCIIHexDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"basic", "48656C6C6F>", "Hello", false},
		{"whitespace", "48 65\n6c 6c 6f>", "Hello", false},
		{"odd digit", "414>", "A@", false},
		{"no marker", "4142", "AB", false},
		{"invalid", "4G>", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCIIHexDecode([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ASCIIHexDecode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("ASCIIHexDecode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestASCII85Decode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"full group", "<~9jqo^~>", "Man ", false},
		{"partial group", "9jqo^BlbD-BleB1DJ+*+F(f,q~>", "Man is distinguished", false},
		{"zero shorthand", "z~>", "\x00\x00\x00\x00", false},
		{"invalid", "abc{~>", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCII85Decode([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ASCII85Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("ASCII85Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunLengthDecode(t *testing.T) {
	in := []byte{2, 'a', 'b', 'c', 254, 'x', 128, 'z'}
	got, err := RunLengthDecode(in)
	if err != nil {
		t.Fatalf("RunLengthDecode() error = %v", err)
	}
	if string(got) != "abcxxx" {
		t.Errorf("RunLengthDecode() = %q, want %q", got, "abcxxx")
	}

	if _, err := RunLengthDecode([]byte{5, 'a'}); err == nil {
		t.Error("RunLengthDecode() expected error for short literal run")
	}
}

func TestLZWDecode(t *testing.T) {
	// Example from the PDF reference: "-----A---B" with EarlyChange 1.
	in := []byte{0x80, 0x0B, 0x60, 0x50, 0x22, 0x0C, 0x0C, 0x85, 0x01}
	got, err := LZWDecode(in, true)
	if err != nil {
		t.Fatalf("LZWDecode() error = %v", err)
	}
	if string(got) != "-----A---B" {
		t.Errorf("LZWDecode() = %q, want %q", got, "-----A---B")
	}
}
