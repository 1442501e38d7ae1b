package text

import (
	"math"
	"sort"

	"github.com/tsawler/pdf2md/model"
)

// RowTolerance is how far apart two baselines may be, in points, and
// still count as one row.
const RowTolerance = 2.0

// ReadingOrder sorts runs top to bottom, then left to right within rows
// whose baselines differ by at most RowTolerance. The input is not
// modified.
func ReadingOrder(runs []model.TextRun) []model.TextRun {
	out := make([]model.TextRun, len(runs))
	copy(out, runs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].Y > out[j].Y
	})

	for start := 0; start < len(out); {
		end := start + 1
		for end < len(out) && out[end].Page == out[start].Page &&
			math.Abs(out[end].Y-out[start].Y) <= RowTolerance {
			end++
		}
		row := out[start:end]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		start = end
	}
	return out
}
