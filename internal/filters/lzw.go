package filters

import "fmt"

// LZWDecode decodes LZW data with variable code widths of 9 to 12 bits.
// PDF defaults to EarlyChange 1, where the code width grows one code
// earlier than in the TIFF variant; compress/lzw cannot express that.
func LZWDecode(data []byte, earlyChange bool) ([]byte, error) {
	const (
		clearCode = 256
		eodCode   = 257
	)
	early := 0
	if earlyChange {
		early = 1
	}

	var (
		out    []byte
		table  [][]byte
		prev   []byte
		width  = 9
		bitBuf uint32
		nbits  int
	)
	reset := func() {
		table = table[:0]
		for i := 0; i < 256; i++ {
			table = append(table, []byte{byte(i)})
		}
		table = append(table, nil, nil)
		width = 9
		prev = nil
	}
	table = make([][]byte, 0, 4096)
	reset()

	for _, b := range data {
		bitBuf = bitBuf<<8 | uint32(b)
		nbits += 8
		for nbits >= width {
			code := int(bitBuf>>(nbits-width)) & (1<<width - 1)
			nbits -= width

			switch {
			case code == clearCode:
				reset()
				continue
			case code == eodCode:
				return out, nil
			}

			var entry []byte
			switch {
			case code < len(table) && table[code] != nil:
				entry = table[code]
			case code == len(table) && prev != nil:
				entry = append(append([]byte(nil), prev...), prev[0])
			default:
				return nil, fmt.Errorf("lzw: invalid code %d", code)
			}
			out = append(out, entry...)

			if prev != nil && len(table) < 4096 {
				table = append(table, append(append([]byte(nil), prev...), entry[0]))
			}
			prev = entry

			switch {
			case len(table)+early >= 4096:
				width = 12
			case len(table)+early >= 2048:
				width = 12
			case len(table)+early >= 1024:
				width = 11
			case len(table)+early >= 512:
				width = 10
			}
		}
	}
	return out, nil
}
