package filters

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes Group 3 or Group 4 fax data. K < 0 selects
// Group 4; Columns defaults to 1728 and a zero Rows means the height is
// taken from the data.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := 1728
	if params.hasCols && params.Columns > 0 {
		columns = params.Columns
	}
	rows := params.Rows
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}
	sf := ccitt.Group3
	if params.K < 0 {
		sf = ccitt.Group4
	}

	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, &ccitt.Options{Invert: params.BlackIs1})
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ccittfax: %w", err)
	}
	return out, nil
}
