package graphicsstate

import (
	"math"
	"testing"

	"github.com/tsawler/pdf2md/font"
	"github.com/tsawler/pdf2md/model"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNewGraphicsState(t *testing.T) {
	gs := NewGraphicsState()
	if !gs.CTM.IsIdentity() || !gs.Text.TextMatrix.IsIdentity() {
		t.Error("initial matrices should be identity")
	}
	if gs.Text.HorizontalScaling != 100 {
		t.Errorf("HorizontalScaling = %v, want 100", gs.Text.HorizontalScaling)
	}
}

func TestTransformOrder(t *testing.T) {
	gs := NewGraphicsState()
	gs = gs.Transform(model.Translate(100, 0))
	gs = gs.Transform(model.Scale(2, 2))
	// The later cm applies first, inside the earlier one.
	if got := gs.CTM.Transform(model.Point{X: 1, Y: 1}); got != (model.Point{X: 102, Y: 2}) {
		t.Errorf("CTM maps (1,1) to %v, want {102 2}", got)
	}
}

func TestValueSemantics(t *testing.T) {
	a := NewGraphicsState()
	b := a
	b.Text = b.Text.TranslateText(10, 20)
	if !a.Text.TextMatrix.IsIdentity() {
		t.Error("modifying a copy changed the original")
	}
}

func TestTextPositioning(t *testing.T) {
	gs := NewGraphicsState()
	gs.Text = gs.Text.BeginText().SetFont(nil, "F1", 12)
	gs.Text = gs.Text.TranslateText(72, 720)
	if p := gs.Position(); p != (model.Point{X: 72, Y: 720}) {
		t.Fatalf("Position after Td = %v", p)
	}

	gs.Text = gs.Text.TranslateTextSetLeading(0, -14)
	if gs.Text.Leading != 14 {
		t.Errorf("Leading = %v, want 14", gs.Text.Leading)
	}
	if p := gs.Position(); p != (model.Point{X: 72, Y: 706}) {
		t.Errorf("Position after TD = %v", p)
	}

	gs.Text = gs.Text.NextLine()
	if p := gs.Position(); p != (model.Point{X: 72, Y: 692}) {
		t.Errorf("Position after T* = %v", p)
	}

	gs.Text = gs.Text.Advance(30)
	if p := gs.Position(); p != (model.Point{X: 102, Y: 692}) {
		t.Errorf("Position after advance = %v", p)
	}
	// Td is relative to the line start, not the advanced position.
	gs.Text = gs.Text.TranslateText(0, -14)
	if p := gs.Position(); p != (model.Point{X: 72, Y: 678}) {
		t.Errorf("Position after second Td = %v", p)
	}
}

func TestEffectiveFontSize(t *testing.T) {
	tests := []struct {
		name string
		tm   model.Matrix
		ctm  model.Matrix
		size float64
		want float64
	}{
		{"plain", model.Identity(), model.Identity(), 12, 12},
		{"tm scaled", model.Matrix{24, 0, 0, 24, 0, 0}, model.Identity(), 1, 24},
		{"ctm scaled", model.Identity(), model.Scale(0.5, 0.5), 20, 10},
		{"flipped", model.Matrix{1, 0, 0, -1, 0, 0}, model.Identity(), 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGraphicsState()
			gs.CTM = tt.ctm
			gs.Text = gs.Text.SetTextMatrix(tt.tm).SetFont(nil, "F1", tt.size)
			if got := gs.EffectiveFontSize(); !near(got, tt.want) {
				t.Errorf("EffectiveFontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRise(t *testing.T) {
	gs := NewGraphicsState()
	gs.Text = gs.Text.SetTextMatrix(model.Translate(10, 100)).SetFont(nil, "F1", 10)
	gs.Text.Rise = 3
	if p := gs.Position(); p != (model.Point{X: 10, Y: 103}) {
		t.Errorf("Position with rise = %v", p)
	}
}

func TestGlyphAdvance(t *testing.T) {
	ts := NewGraphicsState().Text.SetFont(nil, "F1", 10)
	ts.CharSpacing = 1
	ts.WordSpacing = 5

	letter := font.Glyph{Code: 'A', Len: 1, Width: 600}
	if got := ts.GlyphAdvance(letter); !near(got, 7) {
		t.Errorf("letter advance = %v, want 7", got)
	}
	space := font.Glyph{Code: 32, Len: 1, Width: 250}
	if got := ts.GlyphAdvance(space); !near(got, 8.5) {
		t.Errorf("space advance = %v, want 8.5", got)
	}
	// Two-byte code 32 does not get word spacing.
	wide := font.Glyph{Code: 32, Len: 2, Width: 250}
	if got := ts.GlyphAdvance(wide); !near(got, 3.5) {
		t.Errorf("two-byte advance = %v, want 3.5", got)
	}

	ts.HorizontalScaling = 50
	if got := ts.GlyphAdvance(letter); !near(got, 3.5) {
		t.Errorf("scaled advance = %v, want 3.5", got)
	}
	if got := ts.KerningAdvance(-200); !near(got, 1) {
		t.Errorf("KerningAdvance(-200) = %v, want 1", got)
	}
}

func TestStack(t *testing.T) {
	var s Stack
	gs := NewGraphicsState()
	s.Save(gs)
	gs = gs.Transform(model.Scale(3, 3))

	restored, ok := s.Restore(gs)
	if !ok || !restored.CTM.IsIdentity() {
		t.Errorf("Restore = %v, %v", restored.CTM, ok)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", s.Depth())
	}

	same, ok := s.Restore(gs)
	if ok || same.CTM != gs.CTM {
		t.Error("underflow should report false and keep the current state")
	}
}

func TestStackDepthLimit(t *testing.T) {
	var s Stack
	for i := 0; i < maxStackDepth+10; i++ {
		s.Save(NewGraphicsState())
	}
	if s.Depth() != maxStackDepth {
		t.Errorf("Depth = %d, want %d", s.Depth(), maxStackDepth)
	}
}
