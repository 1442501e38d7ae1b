package core

import (
	"fmt"

	"github.com/tsawler/pdf2md/internal/filters"
)

// Decode applies the stream's /Filter chain and returns the decoded bytes.
// The stream itself is left untouched, so concurrent callers are safe.
// Filter and DecodeParms entries must already be direct objects.
func (s *Stream) Decode() ([]byte, error) {
	names, params, err := s.filterChain()
	if err != nil {
		return nil, err
	}
	data := s.Data
	for i, name := range names {
		data, err = decodeWithFilter(data, name, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
	}
	return data, nil
}

// Filters returns the filter names of the stream in application order.
func (s *Stream) Filters() []string {
	names, _, _ := s.filterChain()
	return names
}

func (s *Stream) filterChain() ([]string, []Dict, error) {
	var names []string
	switch f := s.Dict.Get("Filter").(type) {
	case nil:
		return nil, nil, nil
	case Name:
		names = []string{string(f)}
	case Array:
		for i, item := range f {
			n, ok := item.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is %s, not a name", i, typeName(item))
			}
			names = append(names, string(n))
		}
	default:
		return nil, nil, fmt.Errorf("invalid /Filter of type %s", typeName(f))
	}

	params := make([]Dict, len(names))
	switch p := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		params[0] = p
	case Array:
		for i := range params {
			if d, ok := p.Get(i).(Dict); ok {
				params[i] = d
			}
		}
	}
	return names, params, nil
}

func decodeWithFilter(data []byte, name string, params Dict) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, toParams(params))
	case "LZWDecode", "LZW":
		early := true
		if v, ok := params.GetInt("EarlyChange"); ok && v == 0 {
			early = false
		}
		out, err := filters.LZWDecode(data, early)
		if err != nil {
			return nil, err
		}
		p := toParams(params)
		if p.Predictor > 1 {
			// Predictors apply identically after LZW and Flate.
			return filters.Unpredict(out, p)
		}
		return out, nil
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return filters.RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, toParams(params))
	case "Crypt":
		return data, nil
	}
	return nil, fmt.Errorf("unsupported filter")
}

func toParams(d Dict) filters.Params {
	var p filters.Params
	if d == nil {
		return p
	}
	intOf := func(key string) int {
		v, _ := d.GetInt(key)
		return int(v)
	}
	p.Predictor = intOf("Predictor")
	p.Colors = intOf("Colors")
	p.BitsPerComponent = intOf("BitsPerComponent")
	p.K = intOf("K")
	p.Rows = intOf("Rows")
	if b, ok := d.GetBool("BlackIs1"); ok {
		p.BlackIs1 = bool(b)
	}
	if c, ok := d.GetInt("Columns"); ok {
		p = p.WithColumns(int(c))
	}
	return p
}

func typeName(obj Object) string {
	if obj == nil {
		return "nil"
	}
	return obj.Type().String()
}
