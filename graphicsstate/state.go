package graphicsstate

import (
	"github.com/tsawler/pdf2md/font"
	"github.com/tsawler/pdf2md/model"
)

// GraphicsState is the CTM plus the text state.
type GraphicsState struct {
	CTM  model.Matrix
	Text TextState
}

// TextState holds the text parameters and matrices.
type TextState struct {
	Font     *font.Font
	FontName string
	FontSize float64

	CharSpacing float64
	WordSpacing float64
	// HorizontalScaling is a percentage; 100 is unscaled.
	HorizontalScaling float64
	Leading           float64
	RenderingMode     int
	Rise              float64

	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState returns the initial state of a page.
func NewGraphicsState() GraphicsState {
	return GraphicsState{
		CTM: model.Identity(),
		Text: TextState{
			FontSize:          12,
			HorizontalScaling: 100,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Transform concatenates m onto the CTM (cm).
func (gs GraphicsState) Transform(m model.Matrix) GraphicsState {
	gs.CTM = m.Multiply(gs.CTM)
	return gs
}

// RenderMatrix maps text space to device space for the next glyph:
// [Tfs·Th 0 0 Tfs 0 Trise] × Tm × CTM.
func (gs GraphicsState) RenderMatrix() model.Matrix {
	t := gs.Text
	params := model.Matrix{t.FontSize * t.scale(), 0, 0, t.FontSize, 0, t.Rise}
	return params.Multiply(t.TextMatrix).Multiply(gs.CTM)
}

// Position returns the user-space origin of the next glyph.
func (gs GraphicsState) Position() model.Point {
	return gs.RenderMatrix().Transform(model.Point{})
}

// EffectiveFontSize is the font size as it appears on the page.
func (gs GraphicsState) EffectiveFontSize() float64 {
	size := gs.Text.FontSize * gs.Text.TextMatrix.Multiply(gs.CTM).VerticalScale()
	if size < 0 {
		size = -size
	}
	return size
}

// HorizontalScale is the length of a unit text-space advance in user
// space, used to convert advances into page widths.
func (gs GraphicsState) HorizontalScale() float64 {
	v := gs.Text.TextMatrix.Multiply(gs.CTM).TransformVector(model.Point{X: 1})
	return model.Point{}.Distance(v)
}

func (t TextState) scale() float64 {
	return t.HorizontalScaling / 100
}

// SetFont selects a font and size (Tf).
func (t TextState) SetFont(f *font.Font, name string, size float64) TextState {
	t.Font, t.FontName, t.FontSize = f, name, size
	return t
}

// BeginText resets both text matrices (BT).
func (t TextState) BeginText() TextState {
	t.TextMatrix = model.Identity()
	t.TextLineMatrix = model.Identity()
	return t
}

// SetTextMatrix sets both text matrices (Tm).
func (t TextState) SetTextMatrix(m model.Matrix) TextState {
	t.TextMatrix = m
	t.TextLineMatrix = m
	return t
}

// TranslateText moves to the start of the next line offset by (tx, ty)
// from the start of the current line (Td).
func (t TextState) TranslateText(tx, ty float64) TextState {
	t.TextLineMatrix = model.Translate(tx, ty).Multiply(t.TextLineMatrix)
	t.TextMatrix = t.TextLineMatrix
	return t
}

// TranslateTextSetLeading is Td that also sets the leading to -ty (TD).
func (t TextState) TranslateTextSetLeading(tx, ty float64) TextState {
	t.Leading = -ty
	return t.TranslateText(tx, ty)
}

// NextLine moves down by the leading (T*).
func (t TextState) NextLine() TextState {
	return t.TranslateText(0, -t.Leading)
}

// Advance moves the text matrix tx units along the baseline, in
// unscaled text space.
func (t TextState) Advance(tx float64) TextState {
	t.TextMatrix = model.Translate(tx, 0).Multiply(t.TextMatrix)
	return t
}

// GlyphAdvance returns the text-space displacement after showing g.
// Word spacing applies to single-byte code 32 only.
func (t TextState) GlyphAdvance(g font.Glyph) float64 {
	tx := g.Width/1000*t.FontSize + t.CharSpacing
	if g.Len == 1 && g.Code == 32 {
		tx += t.WordSpacing
	}
	return tx * t.scale()
}

// KerningAdvance converts a TJ number (thousandths of a unit) into a
// text-space displacement.
func (t TextState) KerningAdvance(n float64) float64 {
	return -n / 1000 * t.FontSize * t.scale()
}

// Stack holds states saved by q.
type Stack struct {
	states []GraphicsState
}

// maxStackDepth bounds q nesting on hostile input.
const maxStackDepth = 256

// Save pushes a copy of gs (q). Pushes past the depth limit are ignored.
func (s *Stack) Save(gs GraphicsState) {
	if len(s.states) >= maxStackDepth {
		return
	}
	s.states = append(s.states, gs)
}

// Restore pops the most recent state (Q). On underflow the current state
// is returned unchanged with ok false.
func (s *Stack) Restore(current GraphicsState) (GraphicsState, bool) {
	if len(s.states) == 0 {
		return current, false
	}
	gs := s.states[len(s.states)-1]
	s.states = s.states[:len(s.states)-1]
	return gs, true
}

// Depth returns the number of saved states.
func (s *Stack) Depth() int { return len(s.states) }
