package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and undoes any predictor.
//
// Truncated streams are common in damaged files; when inflation fails
// after producing output, the bytes recovered so far are returned.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	out, err := inflate(data)
	if err != nil {
		return nil, err
	}
	return Unpredict(out, params)
}

// Unpredict reverses the /Predictor named in params. It is shared by
// Flate and LZW.
func Unpredict(data []byte, params Params) ([]byte, error) {
	p := params.predictorDefaults()
	if p.Predictor == 1 {
		return data, nil
	}
	return unpredict(data, p)
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flate: %w", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, zr)
	if err != nil {
		if buf.Len() > 0 && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum)) {
			return buf.Bytes(), nil
		}
		return nil, fmt.Errorf("flate: %w", err)
	}
	return buf.Bytes(), nil
}

func unpredict(data []byte, p Params) ([]byte, error) {
	switch {
	case p.Predictor == 2:
		return undoTIFF(data, p)
	case p.Predictor >= 10 && p.Predictor <= 15:
		return undoPNG(data, p)
	}
	return nil, fmt.Errorf("flate: unsupported predictor %d", p.Predictor)
}

// undoTIFF reverses TIFF predictor 2 for 8-bit components.
func undoTIFF(data []byte, p Params) ([]byte, error) {
	if p.BitsPerComponent != 8 {
		return nil, fmt.Errorf("flate: TIFF predictor needs 8 bits per component, got %d", p.BitsPerComponent)
	}
	rowLen := p.Colors * p.Columns
	out := append([]byte(nil), data...)
	for row := 0; row+rowLen <= len(out); row += rowLen {
		for i := p.Colors; i < rowLen; i++ {
			out[row+i] += out[row+i-p.Colors]
		}
	}
	return out, nil
}

// undoPNG reverses PNG row filters. Every row carries its own filter
// type byte, so the specific predictor value 10..15 does not matter.
func undoPNG(data []byte, p Params) ([]byte, error) {
	bpp := (p.Colors*p.BitsPerComponent + 7) / 8
	rowLen := (p.Colors*p.BitsPerComponent*p.Columns + 7) / 8
	stride := rowLen + 1
	if len(data) < stride {
		return nil, fmt.Errorf("flate: predictor row size %d exceeds data length %d", stride, len(data))
	}

	out := make([]byte, 0, len(data)/stride*rowLen)
	prev := make([]byte, rowLen)
	for off := 0; off+stride <= len(data); off += stride {
		ft := data[off]
		row := append([]byte(nil), data[off+1:off+stride]...)
		for i := range row {
			var left, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]
			switch ft {
			case 0:
			case 1:
				row[i] += left
			case 2:
				row[i] += up
			case 3:
				row[i] += byte((int(left) + int(up)) / 2)
			case 4:
				row[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("flate: invalid PNG filter type %d", ft)
			}
		}
		out = append(out, row...)
		prev = row
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := absInt(p-int(a)), absInt(p-int(b)), absInt(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
