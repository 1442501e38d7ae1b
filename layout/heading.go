package layout

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdf2md/model"
)

// HeadingRule names the rule that classified a line as a heading.
type HeadingRule int

const (
	RuleNone HeadingRule = iota
	RuleNumbered
	RuleAllCaps
	RuleFontSize
)

func (r HeadingRule) String() string {
	switch r {
	case RuleNumbered:
		return "numbered"
	case RuleAllCaps:
		return "all-caps"
	case RuleFontSize:
		return "font-size"
	}
	return "none"
}

// isNumbered reports whether text starts with a section number.
func (c Config) isNumbered(text string) bool {
	for _, p := range c.NumberedPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// readsAsHeading applies the text-only rules to a single line of text.
func (c Config) readsAsHeading(text string) bool {
	if utf8.RuneCountInString(text) >= c.ShortLineLimit {
		return false
	}
	return c.isNumbered(text) || isAllCaps(text)
}

// Classify returns the heading rule for each line, or RuleNone for body
// text, along with the body font size used by the size rule.
func Classify(lines []Line, cfg Config) ([]HeadingRule, float64) {
	cfg = cfg.withDefaults()
	rules := make([]HeadingRule, len(lines))
	for i, l := range lines {
		switch {
		case l.IsShort && cfg.isNumbered(l.Text):
			rules[i] = RuleNumbered
		case l.IsShort && l.IsAllCaps:
			rules[i] = RuleAllCaps
		}
	}

	body := BodyFontSize(lines, rules)
	if body > 0 {
		for i, l := range lines {
			if rules[i] == RuleNone && l.DominantFontSize > body*cfg.HeadingSizeRatio {
				rules[i] = RuleFontSize
			}
		}
	}
	return rules, body
}

// BodyFontSize is the median font size of the lines not already marked
// as headings, weighted by character count. It returns 0 when there are
// no such lines.
func BodyFontSize(lines []Line, rules []HeadingRule) float64 {
	type sample struct {
		size   float64
		weight int
	}
	var samples []sample
	total := 0
	for i, l := range lines {
		if i < len(rules) && rules[i] != RuleNone {
			continue
		}
		w := utf8.RuneCountInString(strings.ReplaceAll(l.Text, " ", ""))
		if w == 0 {
			continue
		}
		samples = append(samples, sample{l.DominantFontSize, w})
		total += w
	}
	if total == 0 {
		return 0
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].size < samples[j].size })
	half, acc := (total+1)/2, 0
	for _, s := range samples {
		acc += s.weight
		if acc >= half {
			return s.size
		}
	}
	return samples[len(samples)-1].size
}

// styleKey buckets headings by size (to the nearest half point) and
// weight.
type styleKey struct {
	size float64
	bold bool
}

func styleOf(l Line) styleKey {
	return styleKey{size: math.Round(l.DominantFontSize*2) / 2, bold: l.IsBold}
}

// levelMemo assigns heading levels in first-seen order of style. Once a
// style has a level it keeps it for the whole document.
type levelMemo struct {
	levels map[styleKey]int
	next   int
}

func newLevelMemo() *levelMemo {
	return &levelMemo{levels: map[styleKey]int{}, next: 1}
}

func (m *levelMemo) level(k styleKey) int {
	if lvl, ok := m.levels[k]; ok {
		return lvl
	}
	lvl := m.next
	if lvl > model.MaxHeadingLevel {
		lvl = model.MaxHeadingLevel
	} else {
		m.next++
	}
	m.levels[k] = lvl
	return lvl
}
