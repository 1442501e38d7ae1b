package font

import (
	"fmt"

	"github.com/tsawler/pdf2md/core"
)

// CMap maps character codes to Unicode text (a ToUnicode CMap) and, when
// it declares codespace ranges, tells how many bytes each code occupies.
type CMap struct {
	codespaces []codespace

	// Single mappings keyed by code and code length.
	chars map[codeKey]string

	ranges []cmapRange
}

type codeKey struct {
	code uint32
	n    int
}

type codespace struct {
	low, high uint32
	n         int
}

type cmapRange struct {
	low, high uint32
	n         int

	// Either dst (incremented per code) or list (one entry per code).
	dst  []byte
	list []string
}

// NewCMap returns an empty CMap.
func NewCMap() *CMap {
	return &CMap{chars: map[codeKey]string{}}
}

// ParseToUnicodeCMap decodes a ToUnicode stream and parses it.
func ParseToUnicodeCMap(stream *core.Stream) (*CMap, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode cmap stream: %w", err)
	}
	return ParseCMap(data)
}

// ParseCMap parses CMap program text. Only the operators that matter for
// text extraction are interpreted: codespace ranges, bfchar, bfrange and
// the cid variants (for their codespace role). Malformed entries are
// skipped.
func ParseCMap(data []byte) (*CMap, error) {
	cm := NewCMap()
	lex := core.NewLexer(data)
	var operands []core.Token

	for {
		tok, err := lex.NextToken()
		if err != nil {
			// Skip the offending byte and carry on; CMaps in the wild are
			// often slightly broken.
			lex.Seek(lex.Pos() + 1)
			continue
		}
		if tok.Type == core.TokenEOF {
			break
		}
		if tok.Type != core.TokenKeyword {
			operands = append(operands, tok)
			continue
		}
		switch string(tok.Value) {
		case "begincodespacerange", "beginbfchar", "beginbfrange",
			"begincidrange", "begincidchar":
			operands = operands[:0]
		case "endcodespacerange":
			cm.addCodespaces(operands)
			operands = operands[:0]
		case "endbfchar":
			cm.addBfChars(operands)
			operands = operands[:0]
		case "endbfrange":
			cm.addBfRanges(operands)
			operands = operands[:0]
		default:
			operands = operands[:0]
		}
	}
	if len(cm.chars) == 0 && len(cm.ranges) == 0 && len(cm.codespaces) == 0 {
		return nil, fmt.Errorf("cmap has no mappings")
	}
	return cm, nil
}

func (cm *CMap) addCodespaces(ops []core.Token) {
	for i := 0; i+1 < len(ops); i += 2 {
		lo, hi := ops[i], ops[i+1]
		if lo.Type != core.TokenHexString || hi.Type != core.TokenHexString {
			continue
		}
		n := len(lo.Value)
		if n == 0 || n > 4 || len(hi.Value) != n {
			continue
		}
		cm.codespaces = append(cm.codespaces, codespace{
			low:  bytesToCode(lo.Value),
			high: bytesToCode(hi.Value),
			n:    n,
		})
	}
}

func (cm *CMap) addBfChars(ops []core.Token) {
	for i := 0; i+1 < len(ops); i += 2 {
		src, dst := ops[i], ops[i+1]
		if src.Type != core.TokenHexString || len(src.Value) == 0 || len(src.Value) > 4 {
			continue
		}
		var text string
		switch dst.Type {
		case core.TokenHexString:
			text = utf16Text(dst.Value)
		case core.TokenName:
			text = glyphString(string(dst.Value))
		default:
			continue
		}
		cm.chars[codeKey{bytesToCode(src.Value), len(src.Value)}] = text
	}
}

// addBfRanges consumes "<lo> <hi> <dst>" and "<lo> <hi> [<d1> <d2> ...]"
// entries. Array destinations are lexed as separate tokens, so the
// operand slice is walked with explicit bracket handling.
func (cm *CMap) addBfRanges(ops []core.Token) {
	for i := 0; i+2 < len(ops); {
		lo, hi := ops[i], ops[i+1]
		if lo.Type != core.TokenHexString || hi.Type != core.TokenHexString ||
			len(lo.Value) == 0 || len(lo.Value) > 4 {
			i++
			continue
		}
		r := cmapRange{low: bytesToCode(lo.Value), high: bytesToCode(hi.Value), n: len(lo.Value)}
		next := ops[i+2]
		switch next.Type {
		case core.TokenHexString:
			r.dst = append([]byte(nil), next.Value...)
			i += 3
		case core.TokenArrayStart:
			j := i + 3
			for ; j < len(ops) && ops[j].Type != core.TokenArrayEnd; j++ {
				if ops[j].Type == core.TokenHexString {
					r.list = append(r.list, utf16Text(ops[j].Value))
				} else if ops[j].Type == core.TokenName {
					r.list = append(r.list, glyphString(string(ops[j].Value)))
				}
			}
			i = j + 1
		default:
			i += 3
			continue
		}
		if r.high < r.low {
			continue
		}
		cm.ranges = append(cm.ranges, r)
	}
}

// Lookup returns the text mapped to an n-byte code.
func (cm *CMap) Lookup(code uint32, n int) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.chars[codeKey{code, n}]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if r.n != n || code < r.low || code > r.high {
			continue
		}
		off := code - r.low
		if r.list != nil {
			if int(off) < len(r.list) {
				return r.list[off], true
			}
			return "", false
		}
		return utf16Text(addOffset(r.dst, off)), true
	}
	return "", false
}

// HasCodespace reports whether the CMap declares codespace ranges.
func (cm *CMap) HasCodespace() bool {
	return cm != nil && len(cm.codespaces) > 0
}

// NextCode reads the next code from b using the codespace ranges. When
// no range matches, the shortest declared length is consumed so decoding
// always makes progress.
func (cm *CMap) NextCode(b []byte) (uint32, int) {
	shortest := 0
	for n := 1; n <= 4 && n <= len(b); n++ {
		code := bytesToCode(b[:n])
		for _, cs := range cm.codespaces {
			if cs.n != n {
				continue
			}
			if shortest == 0 || n < shortest {
				shortest = n
			}
			if code >= cs.low && code <= cs.high {
				return code, n
			}
		}
	}
	if shortest == 0 {
		shortest = 1
	}
	if shortest > len(b) {
		shortest = len(b)
	}
	return bytesToCode(b[:shortest]), shortest
}

func bytesToCode(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// addOffset adds off to the big-endian number held in b.
func addOffset(b []byte, off uint32) []byte {
	out := append([]byte(nil), b...)
	carry := uint64(off)
	for i := len(out) - 1; i >= 0 && carry > 0; i-- {
		sum := uint64(out[i]) + carry
		out[i] = byte(sum)
		carry = sum >> 8
	}
	return out
}
