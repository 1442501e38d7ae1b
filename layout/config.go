package layout

import "regexp"

// Config holds the thresholds used by the Inferencer.
type Config struct {
	// BaselineTolerance is the largest vertical distance, in points,
	// between runs merged into one line. Default: 2.0
	BaselineTolerance float64

	// HeadingSizeRatio is how much larger than the body font size a line
	// must be to count as a heading. Default: 1.3
	HeadingSizeRatio float64

	// ShortLineLimit is the character count below which a line is short.
	// Default: 80
	ShortLineLimit int

	// LineSpacing is the expected baseline distance as a multiple of the
	// font size; larger gaps count as blank lines. Default: 1.2
	LineSpacing float64

	// NumberedPatterns match section numbering at the start of a line.
	// Default: "1.", "1.2", "1.2.3", "Chapter 1", "IV."
	NumberedPatterns []*regexp.Regexp
}

// sectionLabel matches a line that is nothing but a section number.
var sectionLabel = regexp.MustCompile(`^((\d{1,3}\.){1,6}\d{0,3}|[IVXLCDM]+\.)$`)

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		BaselineTolerance: 2.0,
		HeadingSizeRatio:  1.3,
		ShortLineLimit:    80,
		LineSpacing:       1.2,
		NumberedPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(\d{1,3}\.){1,6}(\d{1,3})?\s+\S`),
			regexp.MustCompile(`^(?i)(chapter|section|part)\s+(\d+|[ivxlcdm]+)\b`),
			regexp.MustCompile(`^[IVXLCDM]+\.\s+\S`),
		},
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaselineTolerance <= 0 {
		c.BaselineTolerance = d.BaselineTolerance
	}
	if c.HeadingSizeRatio <= 0 {
		c.HeadingSizeRatio = d.HeadingSizeRatio
	}
	if c.ShortLineLimit <= 0 {
		c.ShortLineLimit = d.ShortLineLimit
	}
	if c.LineSpacing <= 0 {
		c.LineSpacing = d.LineSpacing
	}
	if c.NumberedPatterns == nil {
		c.NumberedPatterns = d.NumberedPatterns
	}
	return c
}
