package layout

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/pdf2md/model"
)

// Line is one or more runs sharing a baseline.
type Line struct {
	Text             string
	DominantFontSize float64
	IsBold           bool
	IsAllCaps        bool
	IsShort          bool

	BlankLinesBefore int
	BlankLinesAfter  int

	Page int
	Y    float64
}

// adjacentGap is the horizontal gap, as a fraction of the font size,
// under which two runs are treated as parts of one word.
const adjacentGap = 0.15

// MergeLines groups consecutive runs with nearly equal baselines into
// lines and computes the blank lines between them. Runs must already be
// in reading order.
func MergeLines(runs []model.TextRun, cfg Config) []Line {
	cfg = cfg.withDefaults()

	var lines []Line
	var group []model.TextRun
	flush := func() {
		if len(group) > 0 {
			if l, ok := buildLine(group, cfg); ok {
				lines = append(lines, l)
			}
			group = group[:0]
		}
	}
	for _, r := range runs {
		if len(group) > 0 {
			first := group[0]
			if r.Page != first.Page || math.Abs(r.Y-first.Y) > cfg.BaselineTolerance {
				flush()
			}
		}
		group = append(group, r)
	}
	flush()

	setBlankLines(lines, cfg)
	return lines
}

func buildLine(runs []model.TextRun, cfg Config) (Line, bool) {
	var sb strings.Builder
	sizeChars := map[float64]int{}
	boldChars, totalChars := 0, 0

	for i, r := range runs {
		if i > 0 && needsSpace(runs[i-1], r, sb.String()) {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.Text)

		n := utf8.RuneCountInString(strings.ReplaceAll(r.Text, " ", ""))
		sizeChars[r.FontSize] += n
		totalChars += n
		if r.Bold {
			boldChars += n
		}
	}

	text := strings.Join(strings.Fields(sb.String()), " ")
	if text == "" {
		return Line{}, false
	}
	return Line{
		Text:             text,
		DominantFontSize: dominantSize(sizeChars),
		IsBold:           boldChars*2 > totalChars,
		IsAllCaps:        isAllCaps(text),
		IsShort:          utf8.RuneCountInString(text) < cfg.ShortLineLimit,
		Page:             runs[0].Page,
		Y:                runs[0].Y,
	}, true
}

// joinSectionLabels merges a line holding only a section number, such
// as "2." or "IV.", with the line directly below it. Numbers set apart
// from their titles are common in typeset documents.
func joinSectionLabels(lines []Line, cfg Config) []Line {
	out := make([]Line, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if i+1 < len(lines) && sectionLabel.MatchString(l.Text) {
			next := lines[i+1]
			if next.Page == l.Page && next.BlankLinesBefore == 0 && !sectionLabel.MatchString(next.Text) {
				out = append(out, joinLines(l, next, cfg))
				i++
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// joinLines makes one line of label and title. Style comes from the
// title, which carries almost all of the characters.
func joinLines(label, title Line, cfg Config) Line {
	text := label.Text + " " + title.Text
	return Line{
		Text:             text,
		DominantFontSize: title.DominantFontSize,
		IsBold:           title.IsBold,
		IsAllCaps:        isAllCaps(text),
		IsShort:          utf8.RuneCountInString(text) < cfg.ShortLineLimit,
		BlankLinesBefore: label.BlankLinesBefore,
		BlankLinesAfter:  title.BlankLinesAfter,
		Page:             label.Page,
		Y:                label.Y,
	}
}

// needsSpace decides whether two runs on one line are separate words.
func needsSpace(prev, next model.TextRun, sofar string) bool {
	if strings.HasSuffix(sofar, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	size := math.Max(prev.FontSize, next.FontSize)
	gap := next.X - prev.End()
	return gap > adjacentGap*size || gap < -size
}

// dominantSize is the size carrying the most characters; ties go to the
// larger size.
func dominantSize(sizeChars map[float64]int) float64 {
	sizes := make([]float64, 0, len(sizeChars))
	for s := range sizeChars {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)
	best, bestN := 0.0, -1
	for _, s := range sizes {
		if n := sizeChars[s]; n >= bestN {
			best, bestN = s, n
		}
	}
	return best
}

// isAllCaps requires at least two letters and no lowercase ones.
func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}

// setBlankLines converts vertical gaps into blank-line counts. A page
// change counts as none, so text wrapping onto the next page stays in
// its paragraph. A jump back up the same page counts as one.
func setBlankLines(lines []Line, cfg Config) {
	for i := 1; i < len(lines); i++ {
		prev, cur := lines[i-1], lines[i]
		blanks := 0
		switch {
		case cur.Page != prev.Page:
		case cur.Y >= prev.Y:
			blanks = 1
		default:
			expected := cfg.LineSpacing * math.Max(prev.DominantFontSize, cur.DominantFontSize)
			if expected <= 0 {
				expected = cfg.LineSpacing * 12
			}
			blanks = int(math.Floor((prev.Y-cur.Y)/expected+0.3)) - 1
			if blanks < 0 {
				blanks = 0
			}
		}
		lines[i].BlankLinesBefore = blanks
		lines[i-1].BlankLinesAfter = blanks
	}
}
