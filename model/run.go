package model

import "fmt"

// TextRun is the text drawn by one text-showing operator, with the layout
// hints needed to rebuild structure.
type TextRun struct {
	Text string
	// FontSize is the effective size on the page, after text and
	// graphics matrices are applied.
	FontSize float64
	Bold     bool
	FontName string
	// X and Y locate the baseline start in user space.
	X, Y float64
	// Width is the horizontal advance of the run in user space.
	Width float64
	// Page is the zero-based page index.
	Page int
}

// End returns the X coordinate where the run stops.
func (r TextRun) End() float64 {
	return r.X + r.Width
}

func (r TextRun) String() string {
	return fmt.Sprintf("p%d (%.1f,%.1f) %.1fpt bold=%v %q", r.Page, r.X, r.Y, r.FontSize, r.Bold, r.Text)
}
